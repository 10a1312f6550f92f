// Package discovery fans discovery queries out across the source adapters,
// merges the results and fronts them with the TTL cache.
package discovery

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"cardwatch/internal/cache"
	"cardwatch/internal/sources"
	"cardwatch/pkg/models"
)

// callTimeout bounds one adapter call from the orchestrator's side. It is
// layered above the adapter's own network timeout; when it fires the call's
// result is discarded, the underlying fetch is not cancelled.
const callTimeout = 10 * time.Second

// Registry is the adapter-resolution contract; *sources.Registry satisfies
// it.
type Registry interface {
	BySource(id string) (sources.Source, bool)
	ForCategory(categoryID string) (sources.Source, bool)
}

type Orchestrator struct {
	registry Registry
	cache    cache.Cache
	timeout  time.Duration
}

func New(registry Registry, c cache.Cache) *Orchestrator {
	return &Orchestrator{registry: registry, cache: c, timeout: callTimeout}
}

// NewWithTimeout is used by tests to shrink the per-call wait.
func NewWithTimeout(registry Registry, c cache.Cache, timeout time.Duration) *Orchestrator {
	return &Orchestrator{registry: registry, cache: c, timeout: timeout}
}

// Discover returns the catalog entries for one category, cached under
// "discover:<categoryID>". Unknown categories and total source failure both
// yield an empty slice, never an error. The bool reports a cache hit.
func (o *Orchestrator) Discover(ctx context.Context, categoryID string) ([]models.CatalogEntry, bool) {
	key := "discover:" + categoryID
	if entries, ok := o.cached(ctx, key); ok {
		return entries, true
	}

	src, ok := o.registry.ForCategory(categoryID)
	if !ok {
		return []models.CatalogEntry{}, false
	}

	entries := o.callDiscover(ctx, src, categoryID)
	o.store(ctx, key, entries)
	return entries, false
}

// DiscoverSource runs every category of one source concurrently, merges the
// results in category order and deduplicates them first-seen-wins by listing
// URL. Cached under "discover:source:<id>".
func (o *Orchestrator) DiscoverSource(ctx context.Context, sourceID string) ([]models.CatalogEntry, bool) {
	key := "discover:source:" + sourceID
	if entries, ok := o.cached(ctx, key); ok {
		return entries, true
	}

	src, ok := o.registry.BySource(sourceID)
	if !ok {
		return []models.CatalogEntry{}, false
	}

	cats := sources.CategoriesForSource(sourceID)
	batches := make([][]models.CatalogEntry, len(cats))

	var wg sync.WaitGroup
	for i, cat := range cats {
		wg.Add(1)
		go func(i int, categoryID string) {
			defer wg.Done()
			batches[i] = o.callDiscover(ctx, src, categoryID)
		}(i, cat.ID)
	}
	wg.Wait()

	entries := dedupeByURL(batches)
	o.store(ctx, key, entries)
	return entries, false
}

// callDiscover runs one adapter call and stops waiting after the per-call
// timeout. The adapter goroutine writes into a buffered channel so a late
// result is simply dropped.
func (o *Orchestrator) callDiscover(ctx context.Context, src sources.Source, categoryID string) []models.CatalogEntry {
	resCh := make(chan []models.CatalogEntry, 1)
	go func() {
		resCh <- src.Discover(ctx, categoryID)
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case entries := <-resCh:
		return entries
	case <-timer.C:
		log.Printf("[discovery] %s %s: call timed out, discarding", src.ID(), categoryID)
		return nil
	case <-ctx.Done():
		return nil
	}
}

// dedupeByURL concatenates batches in input order and keeps the first entry
// seen for each listing URL. The rule is positional: it does not depend on
// which adapter call finished first.
func dedupeByURL(batches [][]models.CatalogEntry) []models.CatalogEntry {
	seen := make(map[string]struct{})
	out := make([]models.CatalogEntry, 0, 64)
	for _, batch := range batches {
		for _, e := range batch {
			if _, dup := seen[e.ProductURL]; dup {
				continue
			}
			seen[e.ProductURL] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func (o *Orchestrator) cached(ctx context.Context, key string) ([]models.CatalogEntry, bool) {
	payload, ok := o.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var entries []models.CatalogEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		log.Printf("[discovery] corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	return entries, true
}

// store caches only non-empty results so a total source failure is retried
// on the next request instead of being pinned for the whole TTL.
func (o *Orchestrator) store(ctx context.Context, key string, entries []models.CatalogEntry) {
	if len(entries) == 0 {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		log.Printf("[discovery] marshal cache entry %s: %v", key, err)
		return
	}
	o.cache.Set(ctx, key, payload)
}
