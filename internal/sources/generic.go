package sources

import (
	"context"
	"log"

	"github.com/gocolly/colly/v2"

	"cardwatch/pkg/models"
)

// Generic normalizes a rendered product page for hosts without a dedicated
// adapter, and serves as the shared fallback for the markup adapters.
//
// Extraction ladder: schema.org Product JSON-LD first, then markup selector
// heuristics, then open-graph metadata for name/image.
type Generic struct{}

func NewGeneric() *Generic {
	return &Generic{}
}

// LookupAs fetches and normalizes one product page, labeling the result with
// the given source id. Returns nil on any fetch or parse miss.
func (g *Generic) LookupAs(ctx context.Context, rawURL, source string) *models.CatalogEntry {
	if ctx.Err() != nil {
		return nil
	}

	var (
		name     string
		price    *float64
		inStock  bool
		imageURL string
		ogTitle  string
		ogImage  string
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

	c.OnHTML("h1", func(e *colly.HTMLElement) {
		if name == "" {
			name = Decode(e.Text)
		}
	})

	c.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		if ogTitle == "" {
			ogTitle = Decode(e.Attr("content"))
		}
	})

	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if ogImage == "" {
			ogImage = e.Attr("content")
		}
	})

	c.OnHTML(`[class*="price"]`, func(e *colly.HTMLElement) {
		if price == nil {
			price = ParsePrice(e.Text)
		}
	})

	c.OnHTML(`meta[property="product:price:amount"]`, func(e *colly.HTMLElement) {
		if price == nil {
			price = ParsePrice(e.Attr("content"))
		}
	})

	if err := c.Visit(rawURL); err != nil {
		log.Printf("[sources] %s lookup %s: %v", source, rawURL, err)
		return nil
	}

	if name == "" {
		name = ogTitle
	}
	if name == "" {
		name = "Unknown Product"
	}
	if imageURL == "" {
		imageURL = ogImage
	}

	return &models.CatalogEntry{
		Name:       name,
		Price:      price,
		InStock:    inStock,
		ImageURL:   strPtr(imageURL),
		ProductURL: rawURL,
		Source:     source,
	}
}
