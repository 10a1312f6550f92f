package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	writtenAt time.Time
}

// Memory is the in-process backend: a mutex-guarded map with whole-entry
// TTL expiry.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*Memory)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(ent.writtenAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return ent.payload, true
}

func (m *Memory) Set(ctx context.Context, key string, payload []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{payload: payload, writtenAt: m.now()}
	m.mu.Unlock()
}

// Len reports the number of live-or-expired entries currently held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
