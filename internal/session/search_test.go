package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
)

type recordingLister struct {
	mu    sync.Mutex
	terms []string
}

func (r *recordingLister) List(ctx context.Context, params catalog.ListParams) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, params.Query)
	return []catalog.Product{{ID: "p-" + params.Query}}, nil
}

func (r *recordingLister) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

func TestSessionSearchKeepsLatestResult(t *testing.T) {
	t.Parallel()

	source := &recordingLister{}
	search := newSearch(source, 20*time.Millisecond)
	defer search.Close()

	search.Submit("s")
	search.Submit("sa")
	search.Submit("sari")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if res, ok := search.Latest(); ok {
			if res.Query != "sari" {
				t.Fatalf("expected the last query to win, got %q", res.Query)
			}
			if len(res.Products) != 1 || res.Products[0].ID != "p-sari" {
				t.Fatalf("unexpected products %v", res.Products)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the debounced result")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if calls := source.calls(); len(calls) != 1 || calls[0] != "sari" {
		t.Fatalf("expected one upstream call for the last term, got %v", calls)
	}
}

func TestSessionGetsSearchWhenSourceWired(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(RegistryParams{
		Storage:       kv.NewMemory(),
		Sink:          nopSink{},
		Products:      &recordingLister{},
		TTL:           time.Hour,
		SweepInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(r.Close)

	s, err := r.GetOrCreate("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Search == nil {
		t.Fatal("expected a search front when a product source is wired")
	}
}
