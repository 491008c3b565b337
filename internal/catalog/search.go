package catalog

import (
	"context"
	"sync"
	"time"
)

// Lister is the product listing surface the searcher debounces over.
type Lister interface {
	List(ctx context.Context, params ListParams) ([]Product, error)
}

// Searcher debounces product searches: each new query cancels the pending
// lookup and reschedules it, so only the last query within the window
// reaches the upstream source.
type Searcher struct {
	mu      sync.Mutex
	source  Lister
	delay   time.Duration
	pending *time.Timer
	seq     int
}

// SearchResult delivers the outcome of a debounced query.
type SearchResult struct {
	Query    string
	Products []Product
	Err      error
}

// NewSearcher builds a debounced search front for the product source.
func NewSearcher(source Lister, delay time.Duration) *Searcher {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Searcher{source: source, delay: delay}
}

// Query schedules a lookup for the term, superseding any pending one. The
// deliver callback runs once the window elapses, unless a newer query wins.
func (s *Searcher) Query(ctx context.Context, term string, deliver func(SearchResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
	}
	s.seq++
	seq := s.seq

	s.pending = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		superseded := seq != s.seq
		s.mu.Unlock()
		if superseded {
			return
		}

		products, err := s.source.List(ctx, ListParams{Query: term})
		if deliver != nil {
			deliver(SearchResult{Query: term, Products: products, Err: err})
		}
	})
}

// Flush runs the pending lookup immediately, if any.
func (s *Searcher) Flush() {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if pending != nil && pending.Stop() {
		// Reset with zero delay fires the callback on the timer goroutine.
		pending.Reset(0)
	}
}

// Close drops any pending lookup.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.seq++
}
