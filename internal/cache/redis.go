package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared backend for multi-instance deployments. Expiry is
// enforced server-side, so Get never needs to purge explicitly.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// a flaky cache degrades to a miss, never to a failure
		log.Printf("[cache] redis get %s: %v", key, err)
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte) {
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s: %v", key, err)
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
