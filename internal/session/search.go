package session

import (
	"context"
	"sync"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/catalog"
)

// Search pairs the session's debounced product searcher with its latest
// delivered result. Keystrokes submit queries fire-and-forget; the client
// polls Latest for the outcome of whichever query won the window.
type Search struct {
	searcher *catalog.Searcher

	mu   sync.Mutex
	last catalog.SearchResult
	has  bool
}

func newSearch(source catalog.Lister, delay time.Duration) *Search {
	s := &Search{}
	s.searcher = catalog.NewSearcher(source, delay)
	return s
}

// Submit schedules a debounced lookup for the term. Superseded queries never
// overwrite the latest result.
func (s *Search) Submit(term string) {
	// The lookup outlives the HTTP request that scheduled it.
	s.searcher.Query(context.Background(), term, func(res catalog.SearchResult) {
		s.mu.Lock()
		s.last = res
		s.has = true
		s.mu.Unlock()
	})
}

// Latest returns the most recent delivered result, if any.
func (s *Search) Latest() (catalog.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.has
}

// Flush forces any pending query to run now.
func (s *Search) Flush() {
	s.searcher.Flush()
}

// Close drops any pending query.
func (s *Search) Close() {
	s.searcher.Close()
}
