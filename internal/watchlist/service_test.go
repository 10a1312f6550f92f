package watchlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cardwatch/pkg/models"
)

// fakeStore is an in-memory Store keyed by id with the same url-idempotency
// rule as the sqlite repo.
type fakeStore struct {
	mu    sync.Mutex
	items map[string]models.TrackedItem
	order []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]models.TrackedItem)}
}

func (s *fakeStore) List(ctx context.Context) ([]models.TrackedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TrackedItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*models.TrackedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *fakeStore) Insert(ctx context.Context, item models.TrackedItem) (models.TrackedItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if s.items[id].URL == item.URL {
			return s.items[id], false, nil
		}
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item, true, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, upd models.TrackedUpdate) (*models.TrackedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Price != nil {
		item.Price = upd.Price
	}
	if upd.InStock != nil {
		item.InStock = *upd.InStock
	}
	if upd.PrevInStock != nil {
		item.PrevInStock = *upd.PrevInStock
	}
	if upd.ImageURL != nil {
		item.ImageURL = upd.ImageURL
	}
	if upd.LastChecked != nil {
		item.LastChecked = upd.LastChecked
	}
	s.items[id] = item
	return &item, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// fakeFinder serves canned scrape results by url.
type fakeFinder struct {
	mu      sync.Mutex
	results map[string]*models.CatalogEntry
	delay   time.Duration
}

func newFakeFinder() *fakeFinder {
	return &fakeFinder{results: make(map[string]*models.CatalogEntry)}
}

func (f *fakeFinder) set(url string, e *models.CatalogEntry) {
	f.mu.Lock()
	f.results[url] = e
	f.mu.Unlock()
}

func (f *fakeFinder) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[rawURL]
}

func scrape(name string, price float64, inStock bool) *models.CatalogEntry {
	return &models.CatalogEntry{
		Name:    name,
		Price:   &price,
		InStock: inStock,
		Source:  "target",
	}
}

const testURL = "https://www.target.com/p/pokemon-etb/-/A-93954435"

func TestAddTrackedUnsupportedURL(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeFinder())

	for _, url := range []string{"", "   ", "https://example.com/shop/thing"} {
		if _, err := svc.AddTracked(context.Background(), url); !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("AddTracked(%q) err = %v, want ErrUnsupportedURL", url, err)
		}
	}
}

func TestAddTrackedLookupFailed(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeFinder())

	if _, err := svc.AddTracked(context.Background(), testURL); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
}

func TestAddTrackedCreatesItem(t *testing.T) {
	store := newFakeStore()
	finder := newFakeFinder()
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	svc := NewService(store, finder)

	item, err := svc.AddTracked(context.Background(), "  "+testURL+"  ")
	if err != nil {
		t.Fatalf("AddTracked: %v", err)
	}
	if item.ID == "" {
		t.Error("missing id")
	}
	if item.URL != testURL {
		t.Errorf("url = %q, want trimmed", item.URL)
	}
	if item.Name != "Pokemon ETB" || item.Price == nil || *item.Price != 49.99 {
		t.Errorf("item = %+v", item)
	}
	// an item first seen in stock must not start out alerting
	if !item.InStock || !item.PrevInStock || item.Alerting() {
		t.Errorf("stock state = in:%v prev:%v", item.InStock, item.PrevInStock)
	}
	if item.LastChecked == nil {
		t.Error("missing last_checked")
	}
}

func TestAddTrackedIdempotentByURL(t *testing.T) {
	store := newFakeStore()
	finder := newFakeFinder()
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	svc := NewService(store, finder)

	first, err := svc.AddTracked(context.Background(), testURL)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.AddTracked(context.Background(), testURL)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %q vs %q", first.ID, second.ID)
	}

	items, _ := store.List(context.Background())
	if len(items) != 1 {
		t.Errorf("store holds %d items, want 1", len(items))
	}
}

func TestAddTrackedLookupTimeout(t *testing.T) {
	finder := newFakeFinder()
	finder.delay = 200 * time.Millisecond
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	svc := NewServiceWithTimeout(newFakeStore(), finder, 20*time.Millisecond)

	if _, err := svc.AddTracked(context.Background(), testURL); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed on timeout", err)
	}
}

func TestRemoveTracked(t *testing.T) {
	store := newFakeStore()
	finder := newFakeFinder()
	finder.set(testURL, scrape("Pokemon ETB", 49.99, true))
	svc := NewService(store, finder)

	item, _ := svc.AddTracked(context.Background(), testURL)

	ok, err := svc.RemoveTracked(context.Background(), item.ID)
	if err != nil || !ok {
		t.Fatalf("RemoveTracked = %v, %v", ok, err)
	}
	ok, err = svc.RemoveTracked(context.Background(), item.ID)
	if err != nil || ok {
		t.Fatalf("second RemoveTracked = %v, %v; want false", ok, err)
	}
}

func TestAcknowledgeAlertNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeFinder())
	if err := svc.AcknowledgeAlert(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
