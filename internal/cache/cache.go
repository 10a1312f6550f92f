// Package cache is the TTL cache sitting in front of expensive discovery
// queries. Entries expire as a whole after the fixed TTL; there is no
// partial invalidation, and concurrent writers to one key race under
// last-write-wins (staleness is bounded by the TTL).
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the fixed discovery cache lifetime.
const DefaultTTL = time.Hour

// Cache stores opaque serialized payloads under string keys. Get treats an
// entry older than the TTL as absent and purges it as a side effect.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}
