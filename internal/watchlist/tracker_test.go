package watchlist

import (
	"context"
	"testing"
	"time"

	"cardwatch/pkg/models"
)

// seedTracked puts one item in the store without going through AddTracked.
func seedTracked(t *testing.T, store *fakeStore, id, url string, inStock, prevInStock bool) {
	t.Helper()
	_, created, err := store.Insert(context.Background(), models.TrackedItem{
		ID:          id,
		URL:         url,
		Name:        "Seeded",
		InStock:     inStock,
		PrevInStock: prevInStock,
		Source:      "target",
		AddedAt:     time.Now().UTC(),
	})
	if err != nil || !created {
		t.Fatalf("seed: created=%v err=%v", created, err)
	}
}

func TestRefreshAllRestockPersistsUntilAck(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	finder := newFakeFinder()
	svc := NewService(store, finder)

	seedTracked(t, store, "item1", testURL, false, false)

	// cycle 1: the item comes back in stock
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	result, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Alerts) != 1 || result.Alerts[0].ID != "item1" {
		t.Fatalf("alerts = %+v", result.Alerts)
	}

	// cycle 2: still in stock, still unacknowledged, still alerting
	result, err = svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Alerts) != 1 {
		t.Fatalf("alert dropped before acknowledgement: %+v", result.Alerts)
	}

	// acknowledge, then the alert clears for good
	if err := svc.AcknowledgeAlert(ctx, "item1"); err != nil {
		t.Fatalf("AcknowledgeAlert: %v", err)
	}
	result, err = svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Alerts) != 0 {
		t.Fatalf("alert survived acknowledgement: %+v", result.Alerts)
	}
}

func TestRefreshAllNoAlertWithoutTransition(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	finder := newFakeFinder()
	svc := NewService(store, finder)

	// already in stock on both sides: no transition, no alert
	seedTracked(t, store, "item1", testURL, true, true)
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))

	result, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Alerts) != 0 {
		t.Fatalf("alerts = %+v, want none", result.Alerts)
	}

	// going out of stock is not an alert either
	finder.set(testURL, scrape("Pokemon ETB", 49.99, false))
	result, err = svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Alerts) != 0 {
		t.Fatalf("alerts = %+v, want none", result.Alerts)
	}
	if result.Items[0].InStock || result.Items[0].PrevInStock {
		t.Errorf("stock state = %+v, want both false", result.Items[0])
	}
}

func TestRefreshAllFailedLookupLeavesItemUntouched(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	finder := newFakeFinder()
	svc := NewService(store, finder)

	seedTracked(t, store, "item1", testURL, true, true)
	// finder has no result for the url: scrape failure

	result, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %+v", result.Items)
	}
	item := result.Items[0]
	if !item.InStock || item.Name != "Seeded" || item.LastChecked != nil {
		t.Errorf("failed lookup mutated the item: %+v", item)
	}
}

func TestRefreshAllPartialFieldUpdate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	finder := newFakeFinder()
	svc := NewService(store, finder)

	seedTracked(t, store, "item1", testURL, true, true)
	// scrape with no name, no price, no image: stock still updates
	finder.set(testURL, &models.CatalogEntry{InStock: false, Source: "target"})

	result, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	item := result.Items[0]
	if item.Name != "Seeded" {
		t.Errorf("empty scrape name overwrote stored name: %q", item.Name)
	}
	if item.InStock {
		t.Error("stock not updated")
	}
	if item.LastChecked == nil {
		t.Error("last_checked not updated")
	}
}

func TestRefreshAllSlowItemDiscarded(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	finder := newFakeFinder()
	finder.delay = 200 * time.Millisecond
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	svc := NewServiceWithTimeout(store, finder, 20*time.Millisecond)

	seedTracked(t, store, "item1", testURL, false, false)

	result, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	// the timed-out item keeps its stored state and raises no alert
	if len(result.Alerts) != 0 {
		t.Fatalf("alerts = %+v", result.Alerts)
	}
	if result.Items[0].InStock {
		t.Error("timed-out lookup mutated the item")
	}
}

func TestRefreshAllEmptyWatchlist(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeFinder())
	result, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if result.Items == nil || result.Alerts == nil {
		t.Fatal("empty refresh must return non-nil slices")
	}
	if len(result.Items) != 0 || len(result.Alerts) != 0 {
		t.Fatalf("result = %+v", result)
	}
}
