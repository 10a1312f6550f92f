package watchlist

import "errors"

// Caller-facing input errors. Everything source-facing (network, timeout,
// parse) degrades to empty/absent results inside the adapters and never
// surfaces here.
var (
	// ErrUnsupportedURL rejects hosts outside the recognized source set.
	ErrUnsupportedURL = errors.New("unsupported retailer url")

	// ErrLookupFailed means the initial lookup for a new item found nothing.
	ErrLookupFailed = errors.New("could not fetch product data from the url")

	// ErrNotFound means no tracked item has the given id.
	ErrNotFound = errors.New("tracked item not found")
)
