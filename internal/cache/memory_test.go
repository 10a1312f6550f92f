package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	m.Set(ctx, "k", []byte("v1"))
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	// overwrite replaces the payload
	m.Set(ctx, "k", []byte("v2"))
	got, ok = m.Get(ctx, "k")
	if !ok || string(got) != "v2" {
		t.Fatalf("Get after overwrite = %q, %v", got, ok)
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(time.Hour, WithClock(func() time.Time { return now }))

	m.Set(ctx, "k", []byte("v"))

	now = now.Add(59 * time.Minute)
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	// expiry is inclusive at exactly the TTL boundary
	now = now.Add(time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("entry served past its TTL")
	}
}

func TestMemoryPurgeOnRead(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(time.Minute, WithClock(func() time.Time { return now }))

	m.Set(ctx, "k", []byte("v"))
	if m.Len() != 1 {
		t.Fatalf("Len = %d", m.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expired entry served")
	}
	if m.Len() != 0 {
		t.Fatalf("expired entry not purged, Len = %d", m.Len())
	}
}

func TestMemoryOverwriteResetsTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(time.Hour, WithClock(func() time.Time { return now }))

	m.Set(ctx, "k", []byte("old"))
	now = now.Add(50 * time.Minute)
	m.Set(ctx, "k", []byte("new"))

	now = now.Add(30 * time.Minute)
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "new" {
		t.Fatalf("Get = %q, %v; rewrite should restart the TTL", got, ok)
	}
}

func TestMemoryZeroTTLUsesDefault(t *testing.T) {
	m := NewMemory(0)
	if m.ttl != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", m.ttl, DefaultTTL)
	}
}
