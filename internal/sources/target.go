package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"time"

	"cardwatch/pkg/models"
)

// Target's public storefront aggregation API ("redsky"). The key below is
// the one embedded in target.com's own web frontend.
const (
	redskyBase    = "https://redsky.target.com/redsky_aggregations/v1/web"
	targetAPIKey  = "9f36aeafbe60771e321a7cc95a78140772ab3e96"
	targetStoreID = "3991"
)

var targetSearches = map[string]string{
	"tgt-pokemon-cards":    "pokemon trading cards",
	"tgt-onepiece-cards":   "one piece trading cards",
	"tgt-pokemon-etb":      "pokemon elite trainer box",
	"tgt-pokemon-toys":     "pokemon toys figures",
	"tgt-onepiece-figures": "one piece figures",
	"tgt-tcg-accessories":  "trading card sleeves binder",
}

var tcinRe = regexp.MustCompile(`A-(\d+)`)

// Target discovers via keyword search and looks up single products by TCIN,
// both through the structured aggregation API. A product page whose TCIN
// cannot be resolved falls back to the generic page adapter.
type Target struct {
	client  *Client
	generic *Generic
}

func NewTarget(client *Client, generic *Generic) *Target {
	return &Target{client: client, generic: generic}
}

func (s *Target) ID() string { return TargetID }

// targetFulfillment mirrors the availability block shared by search results
// and product lookups.
type targetFulfillment struct {
	ShippingOptions struct {
		AvailabilityStatus string `json:"availability_status"`
	} `json:"shipping_options"`
	StoreOptions []struct {
		InStoreOnly struct {
			AvailabilityStatus string `json:"availability_status"`
		} `json:"in_store_only"`
	} `json:"store_options"`
}

func (f targetFulfillment) inStock() bool {
	if f.ShippingOptions.AvailabilityStatus == "IN_STOCK" {
		return true
	}
	return len(f.StoreOptions) > 0 && f.StoreOptions[0].InStoreOnly.AvailabilityStatus == "IN_STOCK"
}

func (s *Target) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	searchTerm, ok := targetSearches[categoryID]
	if !ok {
		return nil
	}

	params := url.Values{}
	params.Set("key", targetAPIKey)
	params.Set("channel", "WEB")
	params.Set("count", "24")
	params.Set("default_purchasability_filter", "true")
	params.Set("include_sponsored", "false")
	params.Set("keyword", searchTerm)
	params.Set("offset", "0")
	params.Set("page", "/s/"+url.QueryEscape(searchTerm))
	params.Set("platform", "desktop")
	params.Set("pricing_store_id", targetStoreID)
	params.Set("store_ids", targetStoreID)
	params.Set("visitor_id", fmt.Sprintf("visitor_%d", time.Now().UnixMilli()))

	body, err := s.client.GetJSON(ctx, TargetID, redskyBase+"/plp_search_v2?"+params.Encode())
	if err != nil {
		log.Printf("[sources] target search %q: %v", searchTerm, err)
		return nil
	}

	var resp struct {
		Data struct {
			Search struct {
				Products []targetSearchItem `json:"products"`
				Items    []targetSearchItem `json:"items"`
			} `json:"search"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("[sources] target decode: %v", err)
		return nil
	}

	items := resp.Data.Search.Products
	if len(items) == 0 {
		items = resp.Data.Search.Items
	}

	out := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := item.normalize(searchTerm); ok {
			out = append(out, entry)
		}
	}
	return out
}

type targetSearchItem struct {
	TCIN string `json:"tcin"`
	Item struct {
		TCIN               string `json:"tcin"`
		ProductDescription struct {
			Title string `json:"title"`
		} `json:"product_description"`
		Enrichment struct {
			Images struct {
				PrimaryImageURL string `json:"primary_image_url"`
			} `json:"images"`
		} `json:"enrichment"`
	} `json:"item"`
	Price struct {
		FormattedCurrentPrice string  `json:"formatted_current_price"`
		CurrentRetail         float64 `json:"current_retail"`
	} `json:"price"`
	Fulfillment       targetFulfillment `json:"fulfillment"`
	RatingsAndReviews struct {
		Statistics struct {
			Rating struct {
				Average float64 `json:"average"`
				Count   int     `json:"count"`
			} `json:"rating"`
		} `json:"statistics"`
	} `json:"ratings_and_reviews"`
}

// normalize maps one search hit onto the canonical schema; hits without a
// title are dropped.
func (t targetSearchItem) normalize(searchTerm string) (models.CatalogEntry, bool) {
	name := t.Item.ProductDescription.Title
	if name == "" {
		return models.CatalogEntry{}, false
	}

	tcin := t.TCIN
	if tcin == "" {
		tcin = t.Item.TCIN
	}

	price := ParsePrice(t.Price.FormattedCurrentPrice)
	if price == nil && t.Price.CurrentRetail > 0 {
		price = floatPtr(t.Price.CurrentRetail)
	}

	productURL := "https://www.target.com/s?searchTerm=" + url.QueryEscape(searchTerm)
	if tcin != "" {
		productURL = "https://www.target.com/p/-/A-" + tcin
	}

	return models.CatalogEntry{
		Name:        Decode(name),
		Price:       price,
		InStock:     t.Fulfillment.inStock(),
		ImageURL:    strPtr(t.Item.Enrichment.Images.PrimaryImageURL),
		ProductURL:  productURL,
		Source:      TargetID,
		Rating:      floatPtr(t.RatingsAndReviews.Statistics.Rating.Average),
		ReviewCount: intPtr(t.RatingsAndReviews.Statistics.Rating.Count),
		SKU:         strPtr(tcin),
	}, true
}

func (s *Target) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	m := tcinRe.FindStringSubmatch(rawURL)
	if m == nil {
		return s.generic.LookupAs(ctx, rawURL, TargetID)
	}

	params := url.Values{}
	params.Set("key", targetAPIKey)
	params.Set("tcin", m[1])
	params.Set("pricing_store_id", targetStoreID)
	params.Set("has_pricing_store_id", "true")

	body, err := s.client.GetJSON(ctx, TargetID, redskyBase+"/pdp_client_v1?"+params.Encode())
	if err != nil {
		log.Printf("[sources] target pdp %s: %v", m[1], err)
		return s.generic.LookupAs(ctx, rawURL, TargetID)
	}

	var resp struct {
		Data struct {
			Product *struct {
				Item struct {
					ProductDescription struct {
						Title string `json:"title"`
					} `json:"product_description"`
					Enrichment struct {
						Images struct {
							PrimaryImageURL string `json:"primary_image_url"`
						} `json:"images"`
					} `json:"enrichment"`
				} `json:"item"`
				Price struct {
					FormattedCurrentPrice string `json:"formatted_current_price"`
				} `json:"price"`
				Fulfillment targetFulfillment `json:"fulfillment"`
			} `json:"product"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data.Product == nil {
		return s.generic.LookupAs(ctx, rawURL, TargetID)
	}

	p := resp.Data.Product
	name := p.Item.ProductDescription.Title
	if name == "" {
		name = "Unknown"
	}

	return &models.CatalogEntry{
		Name:       Decode(name),
		Price:      ParsePrice(p.Price.FormattedCurrentPrice),
		InStock:    p.Fulfillment.inStock(),
		ImageURL:   strPtr(p.Item.Enrichment.Images.PrimaryImageURL),
		ProductURL: rawURL,
		Source:     TargetID,
	}
}
