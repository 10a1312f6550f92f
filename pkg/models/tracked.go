package models

import "time"

// TrackedItem is the durable record for one watched listing.
//
// PrevInStock is the alert-state memory, not simply the last known
// availability: after a restock it stays false until the user acknowledges
// the alert, so the item keeps surfacing as an active alert on every read.
type TrackedItem struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"` // unique across all tracked items
	Name        string     `json:"name"`
	Price       *float64   `json:"price"`
	InStock     bool       `json:"in_stock"`
	PrevInStock bool       `json:"previously_in_stock"`
	ImageURL    *string    `json:"image_url"`
	Source      string     `json:"source"`
	LastChecked *time.Time `json:"last_checked"`
	AddedAt     time.Time  `json:"added_at"`
}

// Alerting reports whether the item is an active restock alert.
func (t TrackedItem) Alerting() bool {
	return t.InStock && !t.PrevInStock
}

// TrackedUpdate is a partial update applied to one tracked item.
// Nil fields are left unchanged.
type TrackedUpdate struct {
	Name        *string
	Price       *float64
	InStock     *bool
	PrevInStock *bool
	ImageURL    *string
	LastChecked *time.Time
}
