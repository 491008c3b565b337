package kv

import (
	"context"
	"errors"

	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Fallback pairs a durable primary with an in-memory shadow. Every write
// lands in the shadow first, so a failing primary degrades the store to
// memory-only operation instead of surfacing the failure to callers.
type Fallback struct {
	primary Store
	shadow  Store
	logg    *logger.Logger
}

// NewFallback wraps the primary store with a memory shadow.
func NewFallback(primary Store, logg *logger.Logger) (*Fallback, error) {
	if primary == nil {
		return nil, errors.New("primary store required")
	}
	return &Fallback{primary: primary, shadow: NewMemory(), logg: logg}, nil
}

func (f *Fallback) Get(ctx context.Context, key string) (string, error) {
	value, primaryErr := f.primary.Get(ctx, key)
	if primaryErr == nil {
		return value, nil
	}
	if errors.Is(primaryErr, ErrNotFound) {
		return f.shadow.Get(ctx, key)
	}

	f.warn(ctx, "kv primary read failed, serving shadow", primaryErr)
	value, shadowErr := f.shadow.Get(ctx, key)
	if shadowErr == nil {
		return value, nil
	}
	if errors.Is(shadowErr, ErrNotFound) {
		return "", ErrNotFound
	}
	return "", multierr.Append(primaryErr, shadowErr)
}

func (f *Fallback) Set(ctx context.Context, key, value string) error {
	shadowErr := f.shadow.Set(ctx, key, value)
	if primaryErr := f.primary.Set(ctx, key, value); primaryErr != nil {
		if shadowErr != nil {
			return multierr.Append(primaryErr, shadowErr)
		}
		f.warn(ctx, "kv primary write failed, value held in memory only", primaryErr)
	}
	return shadowErr
}

func (f *Fallback) Delete(ctx context.Context, key string) error {
	shadowErr := f.shadow.Delete(ctx, key)
	if primaryErr := f.primary.Delete(ctx, key); primaryErr != nil {
		f.warn(ctx, "kv primary delete failed", primaryErr)
		return multierr.Append(shadowErr, primaryErr)
	}
	return shadowErr
}

func (f *Fallback) Ping(ctx context.Context) error {
	if p, ok := f.primary.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (f *Fallback) Close() error {
	if c, ok := f.primary.(Closer); ok {
		return c.Close()
	}
	return nil
}

func (f *Fallback) warn(ctx context.Context, msg string, err error) {
	if f.logg == nil {
		return
	}
	f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), msg)
}
