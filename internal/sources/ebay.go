package sources

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"cardwatch/pkg/models"
)

type ebaySearch struct {
	Query    string
	Category string
}

var ebaySearches = map[string]ebaySearch{
	"ebay-pokemon-cards":  {Query: "pokemon trading cards booster", Category: "183454"},
	"ebay-pokemon-sealed": {Query: "pokemon sealed booster box etb", Category: "183454"},
	"ebay-onepiece-cards": {Query: "one piece trading card game", Category: "183454"},
	"ebay-pokemon-etb":    {Query: "pokemon elite trainer box sealed", Category: "183454"},
}

// Ebay scrapes public buy-it-now search listings and single item pages.
// Search hits are live listings, so they count as in stock; an item page is
// out of stock when ebay marks the listing ended or sold.
type Ebay struct {
	generic *Generic
}

func NewEbay(generic *Generic) *Ebay {
	return &Ebay{generic: generic}
}

func (s *Ebay) ID() string { return EbayID }

func (s *Ebay) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	search, ok := ebaySearches[categoryID]
	if !ok {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	params := url.Values{}
	params.Set("_nkw", search.Query)
	params.Set("_sop", "12")
	params.Set("LH_BIN", "1")
	params.Set("_ipg", "48")
	if search.Category != "" {
		params.Set("_sacat", search.Category)
	}

	var products []models.CatalogEntry

	c := newCollector()

	c.OnHTML(".s-item, [class*='s-item']", func(e *colly.HTMLElement) {
		name := e.ChildText(".s-item__title, [class*='item__title'] span")
		href := e.ChildAttr(".s-item__link, a[class*='item__link']", "href")
		if name == "" || href == "" || strings.Contains(name, "Shop on eBay") {
			return
		}

		price := ParsePrice(e.ChildText(".s-item__price, [class*='item__price']"))

		// ebay pads result grids with placeholder tiles; real listing
		// thumbnails live on the s-l CDN path
		imageURL := e.ChildAttr(".s-item__image-wrapper img, img[class*='item__image']", "src")
		if !strings.Contains(imageURL, "s-l") {
			imageURL = ""
		}

		products = append(products, models.CatalogEntry{
			Name:       Decode(name),
			Price:      price,
			InStock:    true,
			ImageURL:   strPtr(imageURL),
			ProductURL: strings.SplitN(href, "?", 2)[0],
			Source:     EbayID,
		})
	})

	if err := c.Visit("https://www.ebay.com/sch/i.html?" + params.Encode()); err != nil {
		log.Printf("[sources] ebay search %q: %v", search.Query, err)
		return nil
	}

	if len(products) > 24 {
		products = products[:24]
	}
	return products
}

func (s *Ebay) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	if ctx.Err() != nil {
		return nil
	}

	var (
		name     string
		price    *float64
		imageURL string
		soldOut  bool
	)

	c := newCollector()

	c.OnHTML("h1.x-item-title__mainTitle span, h1[class*='item-title'], h1", func(e *colly.HTMLElement) {
		if name == "" {
			name = Decode(e.Text)
		}
	})

	c.OnHTML(".x-price-primary span, [class*='price'] span", func(e *colly.HTMLElement) {
		if price == nil {
			price = ParsePrice(e.Text)
		}
	})

	c.OnHTML("img#icImg, img[class*='image--main']", func(e *colly.HTMLElement) {
		if imageURL == "" {
			imageURL = e.Attr("src")
		}
	})

	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if imageURL == "" {
			imageURL = e.Attr("content")
		}
	})

	c.OnHTML("[class*='ended'], [class*='sold']", func(e *colly.HTMLElement) {
		soldOut = true
	})

	if err := c.Visit(rawURL); err != nil {
		log.Printf("[sources] ebay lookup %s: %v", rawURL, err)
		return s.generic.LookupAs(ctx, rawURL, EbayID)
	}
	if name == "" {
		return s.generic.LookupAs(ctx, rawURL, EbayID)
	}

	return &models.CatalogEntry{
		Name:       name,
		Price:      price,
		InStock:    !soldOut,
		ImageURL:   strPtr(imageURL),
		ProductURL: rawURL,
		Source:     EbayID,
	}
}
