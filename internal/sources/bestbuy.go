package sources

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"cardwatch/pkg/models"
)

var bestBuySearches = map[string]string{
	"bb-pokemon-cards": "pokemon trading cards",
	"bb-onepiece":      "one piece cards figures",
	"bb-pokemon-games": "pokemon video game nintendo",
	"bb-collectibles":  "pokemon collectible figure",
	"bb-trading-cards": "trading card game booster",
}

// BestBuy scrapes rendered search and product pages. Primary strategy is the
// sku-item markup; a JSON-LD item list is the fallback when the grid markup
// changes under us.
type BestBuy struct {
	generic *Generic
}

func NewBestBuy(generic *Generic) *BestBuy {
	return &BestBuy{generic: generic}
}

func (s *BestBuy) ID() string { return BestBuyID }

func (s *BestBuy) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	searchTerm, ok := bestBuySearches[categoryID]
	if !ok {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	searchURL := "https://www.bestbuy.com/site/searchpage.jsp?st=" + url.QueryEscape(searchTerm)

	var products []models.CatalogEntry
	var ldProducts []models.CatalogEntry

	c := newCollector()

	c.OnHTML(".sku-item, [class*='sku-item'], .list-item", func(e *colly.HTMLElement) {
		name := e.ChildText(".sku-title a, .sku-header a, h4.sku-title a")
		href := e.ChildAttr(".sku-title a, .sku-header a, h4.sku-title a", "href")
		if name == "" || href == "" {
			return
		}

		price := ParsePrice(e.ChildText(".priceView-customer-price span, [class*='price'] span"))
		imageURL := e.ChildAttr("img.product-image, img[class*='product']", "src")
		sku := e.Attr("data-sku-id")

		buttonText := e.ChildText("button.add-to-cart-button, [class*='add-to-cart']")
		disabled := e.ChildAttr("button.add-to-cart-button, [class*='add-to-cart']", "disabled") != ""

		if !strings.HasPrefix(href, "http") {
			href = "https://www.bestbuy.com" + href
		}

		products = append(products, models.CatalogEntry{
			Name:       Decode(name),
			Price:      price,
			InStock:    InStockFromButton(buttonText, disabled),
			ImageURL:   strPtr(imageURL),
			ProductURL: href,
			Source:     BestBuyID,
			SKU:        strPtr(sku),
		})
	})

	c.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		ldProducts = append(ldProducts, parseItemList(e.Text, searchURL)...)
	})

	if err := c.Visit(searchURL); err != nil {
		log.Printf("[sources] bestbuy search %q: %v", searchTerm, err)
		return nil
	}

	if len(products) == 0 {
		products = ldProducts
	}
	if len(products) > 24 {
		products = products[:24]
	}
	return products
}

// parseItemList reads a JSON-LD ItemList block from a search results page.
func parseItemList(raw, fallbackURL string) []models.CatalogEntry {
	var doc struct {
		ItemListElement []bbListItem `json:"itemListElement"`
		MainEntity      struct {
			ItemListElement []bbListItem `json:"itemListElement"`
		} `json:"mainEntity"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}

	items := doc.ItemListElement
	if len(items) == 0 {
		items = doc.MainEntity.ItemListElement
	}

	out := make([]models.CatalogEntry, 0, len(items))
	for _, li := range items {
		prod := li.Item
		if prod.Name == "" {
			prod = li.bbLDProduct
		}
		if prod.Name == "" {
			continue
		}

		productURL := prod.URL
		if productURL == "" {
			productURL = prod.AtID
		}
		if productURL == "" {
			productURL = fallbackURL
		}

		out = append(out, models.CatalogEntry{
			Name:       Decode(prod.Name),
			Price:      priceFromRaw(prod.Offers.Price),
			InStock:    strings.Contains(prod.Offers.Availability, "InStock"),
			ImageURL:   strPtr(prod.Image),
			ProductURL: productURL,
			Source:     BestBuyID,
		})
	}
	return out
}

type bbLDProduct struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	URL    string `json:"url"`
	AtID   string `json:"@id"`
	Offers struct {
		Price        json.RawMessage `json:"price"`
		Availability string          `json:"availability"`
	} `json:"offers"`
}

type bbListItem struct {
	bbLDProduct
	Item bbLDProduct `json:"item"`
}

func (s *BestBuy) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	if ctx.Err() != nil {
		return nil
	}

	var (
		name     string
		price    *float64
		inStock  bool
		imageURL string
		btnSeen  bool
	)

	c := newCollector()

	c.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		p, ok := parseJSONLD(e.Text)
		if !ok {
			return
		}
		if name == "" {
			name = p.Name
		}
		if imageURL == "" {
			imageURL = p.Image
		}
		if p.hasOff {
			if price == nil {
				price = p.Price
			}
			if p.InStock() {
				inStock = true
			}
		}
	})

	c.OnHTML(".sku-title h1, h1[class*='heading'], h1", func(e *colly.HTMLElement) {
		if name == "" {
			name = Decode(e.Text)
		}
	})

	c.OnHTML(".priceView-customer-price span, [class*='price'] span[aria-hidden='true']", func(e *colly.HTMLElement) {
		if price == nil {
			price = ParsePrice(e.Text)
		}
	})

	c.OnHTML("img.primary-image, img[class*='primary']", func(e *colly.HTMLElement) {
		if imageURL == "" {
			imageURL = e.Attr("src")
		}
	})

	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if imageURL == "" {
			imageURL = e.Attr("content")
		}
	})

	c.OnHTML("button.add-to-cart-button, [class*='add-to-cart']", func(e *colly.HTMLElement) {
		if btnSeen {
			return
		}
		btnSeen = true
		text := strings.ToLower(strings.TrimSpace(e.Text))
		if !inStock {
			inStock = strings.Contains(text, "add to cart") && !strings.Contains(text, "sold out")
		}
	})

	if err := c.Visit(rawURL); err != nil {
		log.Printf("[sources] bestbuy lookup %s: %v", rawURL, err)
		return s.generic.LookupAs(ctx, rawURL, BestBuyID)
	}
	if name == "" {
		return s.generic.LookupAs(ctx, rawURL, BestBuyID)
	}

	return &models.CatalogEntry{
		Name:       name,
		Price:      price,
		InStock:    inStock,
		ImageURL:   strPtr(imageURL),
		ProductURL: rawURL,
		Source:     BestBuyID,
	}
}
