package watchlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardwatch/internal/sources"
	"cardwatch/pkg/models"
)

// Store is the narrow persistence contract the service consumes. The sqlite
// Repo satisfies it; tests use an in-memory fake. No operation spans more
// than one record.
type Store interface {
	List(ctx context.Context) ([]models.TrackedItem, error)
	Get(ctx context.Context, id string) (*models.TrackedItem, error)
	Insert(ctx context.Context, item models.TrackedItem) (models.TrackedItem, bool, error)
	Update(ctx context.Context, id string, upd models.TrackedUpdate) (*models.TrackedItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Finder resolves one listing URL to a fresh scrape result. The sources
// Registry satisfies it.
type Finder interface {
	Lookup(ctx context.Context, rawURL string) *models.CatalogEntry
}

// Service owns the watchlist operations: add/remove/acknowledge plus the
// refresh cycle in tracker.go.
type Service struct {
	store       Store
	finder      Finder
	itemTimeout time.Duration
	now         func() time.Time
}

// itemTimeout bounds one item's whole lookup-and-normalize sequence during
// refresh, layered above the adapters' network timeout.
const defaultItemTimeout = 10 * time.Second

func NewService(store Store, finder Finder) *Service {
	return &Service{
		store:       store,
		finder:      finder,
		itemTimeout: defaultItemTimeout,
		now:         time.Now,
	}
}

// NewServiceWithTimeout is used by tests to shrink the per-item wait.
func NewServiceWithTimeout(store Store, finder Finder, timeout time.Duration) *Service {
	s := NewService(store, finder)
	s.itemTimeout = timeout
	return s
}

func (s *Service) List(ctx context.Context) ([]models.TrackedItem, error) {
	return s.store.List(ctx)
}

// AddTracked validates the url, performs the initial lookup and creates the
// record. Re-adding a tracked url returns the existing record unchanged.
func (s *Service) AddTracked(ctx context.Context, rawURL string) (models.TrackedItem, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || !sources.Supported(rawURL) {
		return models.TrackedItem{}, ErrUnsupportedURL
	}

	scraped := s.lookupWithTimeout(ctx, rawURL)
	if scraped == nil {
		return models.TrackedItem{}, ErrLookupFailed
	}

	now := s.now().UTC()
	item := models.TrackedItem{
		ID:      uuid.NewString(),
		URL:     rawURL,
		Name:    scraped.Name,
		Price:   scraped.Price,
		InStock: scraped.InStock,
		// a just-added in-stock item is not a restock alert
		PrevInStock: scraped.InStock,
		ImageURL:    scraped.ImageURL,
		Source:      scraped.Source,
		LastChecked: &now,
		AddedAt:     now,
	}

	stored, _, err := s.store.Insert(ctx, item)
	if err != nil {
		return models.TrackedItem{}, err
	}
	return stored, nil
}

func (s *Service) RemoveTracked(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// AcknowledgeAlert clears an active restock alert by aligning the alert
// memory with current truth, unconditionally.
func (s *Service) AcknowledgeAlert(ctx context.Context, id string) error {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}

	prev := item.InStock
	if _, err := s.store.Update(ctx, id, models.TrackedUpdate{PrevInStock: &prev}); err != nil {
		return err
	}
	return nil
}

// lookupWithTimeout stops waiting on the finder after the per-item timeout.
// The underlying fetch is not cancelled, just ignored; a buffered channel
// lets the late goroutine finish and be collected.
func (s *Service) lookupWithTimeout(ctx context.Context, rawURL string) *models.CatalogEntry {
	resCh := make(chan *models.CatalogEntry, 1)
	go func() {
		resCh <- s.finder.Lookup(ctx, rawURL)
	}()

	timer := time.NewTimer(s.itemTimeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		return res
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}
