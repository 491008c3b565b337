package session

import (
	"context"
	"testing"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
)

type nopSink struct{}

func (nopSink) Submit(ctx context.Context, payload enquiry.Payload) error { return nil }

func newTestRegistry(t *testing.T, storage kv.Store) *Registry {
	t.Helper()

	r, err := NewRegistry(RegistryParams{
		Storage:       storage,
		Sink:          nopSink{},
		TTL:           time.Hour,
		SweepInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, kv.NewMemory())

	first, err := r.GetOrCreate("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.GetOrCreate("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("same id must map to the same session")
	}
	if r.Count() != 1 {
		t.Fatalf("expected one session, got %d", r.Count())
	}
}

func TestGetOrCreateRequiresID(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, kv.NewMemory())
	if _, err := r.GetOrCreate(""); err == nil {
		t.Fatal("expected an error for an empty session id")
	}
}

func TestSessionCartsAreIsolated(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, kv.NewMemory())

	a, err := r.GetOrCreate("visitor-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r.GetOrCreate("visitor-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.Cart.Add(catalog.Product{ID: "throw-1", Name: "Handloom Throw"}, 2, catalog.NoVariant(), "")
	if got := a.Cart.ItemCount(); got != 2 {
		t.Fatalf("expected 2 items in a, got %d", got)
	}
	if got := b.Cart.ItemCount(); got != 0 {
		t.Fatalf("b's cart must stay empty, got %d", got)
	}
}

func TestCartSurvivesEviction(t *testing.T) {
	t.Parallel()

	storage := kv.NewMemory()
	r := newTestRegistry(t, storage)

	s, err := r.GetOrCreate("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Cart.Add(catalog.Product{ID: "throw-1", Name: "Handloom Throw"}, 3, catalog.NoVariant(), "")

	// Push the session past the TTL, then sweep.
	r.mu.Lock()
	s.lastSeen = time.Now().Add(-2 * time.Hour)
	r.mu.Unlock()
	r.evictIdle(time.Now())

	if r.Count() != 0 {
		t.Fatalf("expected eviction, %d sessions remain", r.Count())
	}

	fresh, err := r.GetOrCreate("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh == s {
		t.Fatal("evicted session must not be reused")
	}
	if got := fresh.Cart.ItemCount(); got != 3 {
		t.Fatalf("persisted cart must rehydrate after eviction, got %d items", got)
	}
}

func TestRecentSessionSurvivesSweep(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, kv.NewMemory())
	if _, err := r.GetOrCreate("visitor-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.evictIdle(time.Now())
	if r.Count() != 1 {
		t.Fatalf("fresh session must survive the sweep, got %d", r.Count())
	}
}
