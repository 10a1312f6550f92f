package models

// CatalogEntry is the normalized, ephemeral form of one retailer listing
// produced by browsing a category or looking up a product URL.
//
// All external sources are mapped into this structure first; there is no
// hard identifier, entries are deduplicated by ProductURL.
type CatalogEntry struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`                  // nil when the source exposes no price
	InStock     bool     `json:"in_stock"`
	ImageURL    *string  `json:"image_url"`              // nil when no image was found
	ProductURL  string   `json:"product_url"`            // canonical listing URL, dedup key
	Source      string   `json:"source"`                 // one of the supported source ids
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Category    *string  `json:"category,omitempty"`
}
