// Package session binds one cart store, enquiry engine and toast queue to
// each storefront visitor, keyed by session id.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/cart"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/internal/toast"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

// Session is the per-visitor state bundle. The cart writes through a scoped
// view of the shared store, so two sessions never touch each other's keys.
type Session struct {
	ID      string
	Cart    *cart.Store
	Enquiry *enquiry.Engine
	Toasts  *toast.Notifier
	// Search is nil when the registry has no product source wired.
	Search *Search

	lastSeen time.Time
}

// RegistryParams wires the registry's collaborators.
type RegistryParams struct {
	Storage        kv.Store
	StorageKey     string
	Sink           enquiry.Sink
	Products       catalog.Lister
	Logger         *logger.Logger
	Metrics        *metrics.StorefrontMetrics
	TTL            time.Duration
	SweepInterval  time.Duration
	SuccessDisplay time.Duration
	ToastDuration  time.Duration
	SearchDebounce time.Duration
}

// Registry creates sessions on first use and evicts them after the idle TTL.
type Registry struct {
	params RegistryParams

	mu       sync.Mutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry builds the registry and starts the idle sweeper.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("session storage required")
	}
	if params.Sink == nil {
		return nil, fmt.Errorf("enquiry sink required")
	}
	if params.TTL <= 0 {
		params.TTL = 30 * time.Minute
	}
	if params.SweepInterval <= 0 {
		params.SweepInterval = 5 * time.Minute
	}

	r := &Registry{
		params:   params,
		sessions: map[string]*Session{},
		stop:     make(chan struct{}),
	}
	go r.sweep()
	return r, nil
}

// GetOrCreate returns the session for the id, building its cart, enquiry
// engine and toast queue on first sight. Every call refreshes the idle clock.
func (r *Registry) GetOrCreate(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = time.Now()
		return s, nil
	}

	s, err := r.build(sessionID)
	if err != nil {
		return nil, err
	}
	r.sessions[sessionID] = s
	return s, nil
}

func (r *Registry) build(sessionID string) (*Session, error) {
	notifier := toast.NewNotifier(r.params.ToastDuration, r.params.Metrics)

	cartStore, err := cart.NewStore(cart.StoreParams{
		Storage:    kv.Scope(r.params.Storage, "session", sessionID),
		StorageKey: r.params.StorageKey,
		Logger:     r.params.Logger,
		Metrics:    r.params.Metrics,
		Notifier:   notifier,
	})
	if err != nil {
		return nil, fmt.Errorf("building cart store: %w", err)
	}

	engine, err := enquiry.NewEngine(enquiry.EngineParams{
		Sink:           r.params.Sink,
		Logger:         r.params.Logger,
		Metrics:        r.params.Metrics,
		Notifier:       notifier,
		SuccessDisplay: r.params.SuccessDisplay,
	})
	if err != nil {
		return nil, fmt.Errorf("building enquiry engine: %w", err)
	}

	s := &Session{
		ID:       sessionID,
		Cart:     cartStore,
		Enquiry:  engine,
		Toasts:   notifier,
		lastSeen: time.Now(),
	}
	if r.params.Products != nil {
		s.Search = newSearch(r.params.Products, r.params.SearchDebounce)
	}
	return s, nil
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.params.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle(time.Now())
		}
	}
}

// evictIdle drops sessions idle past the TTL. The persisted cart survives
// eviction; a returning visitor rehydrates it on the next request.
func (r *Registry) evictIdle(now time.Time) {
	r.mu.Lock()
	var evicted []*Session
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.params.TTL {
			evicted = append(evicted, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.shutdown()
	}
	if len(evicted) > 0 && r.params.Logger != nil {
		r.params.Logger.Info(context.Background(), fmt.Sprintf("evicted %d idle sessions", len(evicted)))
	}
}

// Close stops the sweeper and shuts down every live session.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.shutdown()
	}
}

func (s *Session) shutdown() {
	s.Enquiry.Shutdown()
	s.Toasts.Shutdown()
	if s.Search != nil {
		s.Search.Close()
	}
}
