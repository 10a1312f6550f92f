package sources

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"cardwatch/pkg/models"
)

var tcgPlayerSearches = map[string]string{
	"tcg-pokemon":  "pokemon",
	"tcg-onepiece": "one piece",
	"tcg-sealed":   "pokemon sealed booster box",
}

// TCGPlayer scrapes the marketplace's product search grid. Listings on the
// marketplace are offers by definition, so discovery results are in stock;
// single-product pages go through the generic page adapter.
type TCGPlayer struct {
	generic *Generic
}

func NewTCGPlayer(generic *Generic) *TCGPlayer {
	return &TCGPlayer{generic: generic}
}

func (s *TCGPlayer) ID() string { return TCGPlayerID }

func (s *TCGPlayer) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	searchTerm, ok := tcgPlayerSearches[categoryID]
	if !ok {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	var products []models.CatalogEntry

	c := newCollector()

	c.OnHTML("[class*='search-result'], .product-card, [data-testid*='product']", func(e *colly.HTMLElement) {
		name := e.ChildText("[class*='product-card__title'], .product-card__title, h3, [class*='name']")
		href := e.ChildAttr("a", "href")
		if name == "" || href == "" {
			return
		}

		price := ParsePrice(e.ChildText("[class*='price'], .product-card__market-price, [class*='market']"))

		imageURL := e.ChildAttr("img", "src")
		if imageURL == "" {
			imageURL = e.ChildAttr("img", "data-src")
		}

		if !strings.HasPrefix(href, "http") {
			href = "https://www.tcgplayer.com" + href
		}

		products = append(products, models.CatalogEntry{
			Name:       Decode(name),
			Price:      price,
			InStock:    true,
			ImageURL:   strPtr(imageURL),
			ProductURL: href,
			Source:     TCGPlayerID,
		})
	})

	searchURL := "https://www.tcgplayer.com/search/all/product?q=" + url.QueryEscape(searchTerm) + "&view=grid"
	if err := c.Visit(searchURL); err != nil {
		log.Printf("[sources] tcgplayer search %q: %v", searchTerm, err)
		return nil
	}

	if len(products) > 24 {
		products = products[:24]
	}
	return products
}

func (s *TCGPlayer) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	return s.generic.LookupAs(ctx, rawURL, TCGPlayerID)
}
