package watchlist

import (
	"context"
	"log"
	"sync"

	"cardwatch/pkg/models"
)

// RefreshResult is the outcome of one refresh cycle: every tracked item in
// its post-refresh state, plus the subset carrying an active restock alert.
type RefreshResult struct {
	Items  []models.TrackedItem `json:"items"`
	Alerts []models.TrackedItem `json:"alerts"`
}

// RefreshAll re-checks every tracked item concurrently and applies the
// restock-transition policy. The cycle as a whole never fails: an item whose
// re-lookup fails or times out keeps its stored record untouched
// (stale-but-trusted), and only caller-independent store errors are logged.
//
// The policy, per item, given a fresh scrape:
//
//	restock := !prevInStock && scraped.InStock
//
// On a restock the alert memory (PrevInStock) deliberately stays false so
// the item keeps appearing in the alert set on every subsequent cycle until
// the user acknowledges it. Otherwise PrevInStock tracks current truth.
func (s *Service) RefreshAll(ctx context.Context) (RefreshResult, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	if len(items) == 0 {
		return RefreshResult{Items: []models.TrackedItem{}, Alerts: []models.TrackedItem{}}, nil
	}

	updated := make([]models.TrackedItem, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.TrackedItem) {
			defer wg.Done()
			updated[i] = s.refreshOne(ctx, item)
		}(i, item)
	}
	wg.Wait()

	alerts := make([]models.TrackedItem, 0, 4)
	for _, item := range updated {
		if item.Alerting() {
			alerts = append(alerts, item)
		}
	}

	return RefreshResult{Items: updated, Alerts: alerts}, nil
}

// refreshOne re-checks a single item and persists the policy outcome.
// Any failure leaves the stored record exactly as it was.
func (s *Service) refreshOne(ctx context.Context, item models.TrackedItem) models.TrackedItem {
	scraped := s.lookupWithTimeout(ctx, item.URL)
	if scraped == nil {
		// no new data: never null out known-good fields or alert state
		return item
	}

	restock := !item.PrevInStock && scraped.InStock

	now := s.now().UTC()
	upd := models.TrackedUpdate{
		InStock:     &scraped.InStock,
		LastChecked: &now,
	}
	// scrape misses on individual fields keep the stored values
	if scraped.Name != "" {
		upd.Name = &scraped.Name
	}
	if scraped.Price != nil {
		upd.Price = scraped.Price
	}
	if scraped.ImageURL != nil {
		upd.ImageURL = scraped.ImageURL
	}
	if !restock {
		upd.PrevInStock = &scraped.InStock
	}

	stored, err := s.store.Update(ctx, item.ID, upd)
	if err != nil {
		log.Printf("[watchlist] refresh update %s: %v", item.ID, err)
		return item
	}
	if stored == nil {
		// removed concurrently; report the last known state
		return item
	}
	return *stored
}
