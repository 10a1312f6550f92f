package sources

import (
	"context"
	"net/url"
	"strings"

	"cardwatch/pkg/models"
)

// Supported source identifiers. The set is closed: every identifier is bound
// to exactly one adapter in NewRegistry, and Detect only ever returns values
// from this set.
const (
	PokemonTCGID    = "pokemontcg"
	OnePieceTCGID   = "optcg"
	TargetID        = "target"
	BestBuyID       = "bestbuy"
	EbayID          = "ebay"
	TCGPlayerID     = "tcgplayer"
	WalmartID       = "walmart"
	SamsClubID      = "samsclub"
	PokemonCenterID = "pokemoncenter"
	AmazonID        = "amazon"
)

// Source is implemented by each retailer adapter. Adapters are a pure
// input->output boundary: on timeout, network error or parse miss they return
// an empty slice / nil rather than an error, so one broken retailer can never
// fail a batch operation.
type Source interface {
	ID() string
	Discover(ctx context.Context, categoryID string) []models.CatalogEntry
	Lookup(ctx context.Context, rawURL string) *models.CatalogEntry
}

// Detect maps a product URL's hostname to a source identifier.
func Detect(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	switch host {
	case "pokemoncenter.com":
		return PokemonCenterID, true
	case "target.com":
		return TargetID, true
	case "walmart.com":
		return WalmartID, true
	case "bestbuy.com":
		return BestBuyID, true
	case "samsclub.com":
		return SamsClubID, true
	case "ebay.com":
		return EbayID, true
	case "tcgplayer.com":
		return TCGPlayerID, true
	case "amazon.com":
		return AmazonID, true
	}
	return "", false
}

// Supported reports whether a URL belongs to a recognized retailer.
func Supported(rawURL string) bool {
	_, ok := Detect(rawURL)
	return ok
}

// Registry holds the closed set of adapters. Hosts without a dedicated
// adapter (walmart, samsclub, pokemoncenter, amazon) are looked up through
// the generic page adapter.
type Registry struct {
	bySource map[string]Source
	generic  *Generic
}

func NewRegistry() *Registry {
	client := NewClient()
	generic := NewGeneric()

	reg := &Registry{
		bySource: make(map[string]Source),
		generic:  generic,
	}
	for _, s := range []Source{
		NewPokemonTCG(client),
		NewOnePieceTCG(client),
		NewTarget(client, generic),
		NewBestBuy(generic),
		NewEbay(generic),
		NewTCGPlayer(generic),
	} {
		reg.bySource[s.ID()] = s
	}
	return reg
}

// BySource returns the adapter bound to a source id.
func (r *Registry) BySource(id string) (Source, bool) {
	s, ok := r.bySource[id]
	return s, ok
}

// ForCategory resolves a category id to its adapter. Link-only categories
// (walmart, samsclub, pokemoncenter) have no adapter and resolve to false.
func (r *Registry) ForCategory(categoryID string) (Source, bool) {
	cat, ok := CategoryByID(categoryID)
	if !ok {
		return nil, false
	}
	return r.BySource(cat.Source)
}

// Lookup normalizes a single product URL through the adapter for its host,
// or through the generic page adapter when the host has no dedicated one.
// Returns nil for unsupported hosts and for any fetch/parse miss.
func (r *Registry) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	src, ok := Detect(rawURL)
	if !ok {
		return nil
	}
	if s, ok := r.bySource[src]; ok {
		return s.Lookup(ctx, rawURL)
	}
	return r.generic.LookupAs(ctx, rawURL, src)
}
