package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/toast"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

// DefaultStorageKey is the fixed key the line list is persisted under.
const DefaultStorageKey = "storefront_cart"

// Store holds the authoritative cart line list and the cart UI visibility
// flag. Mutations are applied atomically under one lock and every mutation
// re-serializes the full line list to the durable store, in mutation order.
// Storage failures degrade the store to memory-only operation; they are
// logged and never surface to callers.
type Store struct {
	params StoreParams

	mu      sync.Mutex
	lines   []Line
	visible bool
}

// StoreParams wires the cart store's collaborators.
type StoreParams struct {
	Storage    kv.Store
	StorageKey string
	Logger     *logger.Logger
	Metrics    *metrics.StorefrontMetrics
	Notifier   *toast.Notifier
}

// NewStore builds a store and synchronously rehydrates the persisted line
// list, so the first observable state already reflects the saved cart.
// Corrupt or unavailable storage yields an empty cart, never an error.
func NewStore(params StoreParams) (*Store, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if params.StorageKey == "" {
		params.StorageKey = DefaultStorageKey
	}

	s := &Store{params: params}
	s.rehydrate()
	return s, nil
}

func (s *Store) rehydrate() {
	raw, err := s.params.Storage.Get(context.Background(), s.params.StorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.warn("cart storage unavailable, starting empty", err)
		}
		return
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.warn("persisted cart is corrupt, starting empty", err)
		return
	}
	s.lines = lines
}

// persist must be called with the lock held.
func (s *Store) persist() {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		s.warn("serialize cart lines", err)
		return
	}
	if err := s.params.Storage.Set(context.Background(), s.params.StorageKey, string(raw)); err != nil {
		s.warn("persist cart lines, continuing in memory", err)
	}
}

func (s *Store) warn(msg string, err error) {
	if s.params.Logger == nil {
		return
	}
	ctx := s.params.Logger.WithField(context.Background(), "error", err.Error())
	s.params.Logger.Warn(ctx, msg)
}

// Add merges quantity into the existing line for the (product, selection)
// identity, or appends a new line preserving insertion order. Quantities
// below 1 are clamped to 1. Returns the affected line.
func (s *Store) Add(product catalog.Product, quantity int, sel catalog.VariantSelection, colorLabel string) Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}

	id := LineID(product.ID, sel)
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity += quantity
			s.afterMutation("add")
			return s.lines[i]
		}
	}

	if colorLabel == "" {
		colorLabel = catalog.ResolveDisplay(product, sel).Color
	}
	line := Line{
		ID:           id,
		Product:      product,
		Quantity:     quantity,
		VariantIndex: sel.IndexPtr(),
		ColorLabel:   colorLabel,
	}
	s.lines = append(s.lines, line)
	s.afterMutation("add")

	if s.params.Notifier != nil {
		s.params.Notifier.Success("Added to cart", product.Name)
	}
	return line
}

// Remove deletes the line with the composite id; absent ids are a no-op.
func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.afterMutation("remove")
			return
		}
	}
}

// UpdateQuantity sets the line quantity, clamped to a minimum of 1.
// Absent ids are a no-op; decrementing from 1 keeps the line at 1.
func (s *Store) UpdateQuantity(lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			s.afterMutation("update_quantity")
			return
		}
	}
}

// Clear empties the line list. The visibility flag is untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.afterMutation("clear")
}

// afterMutation must be called with the lock held.
func (s *Store) afterMutation(op string) {
	s.persist()
	s.params.Metrics.IncCartMutation(op)
}

// Toggle flips the cart drawer visibility and returns the new value.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = !s.visible
	return s.visible
}

// Open shows the cart drawer.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// Close hides the cart drawer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// Visible reports the drawer visibility flag.
func (s *Store) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// ItemCount sums line quantities, not line count.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Total sums resolved unit price times quantity over all lines. Variant
// price overrides apply; accumulation uses decimals so line math stays exact.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.lines {
		unit := decimal.NewFromFloat(line.Display().Price)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Line looks a line up by its composite id.
func (s *Store) Line(lineID string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return Line{}, false
}

// Lines returns the line list in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}
