// Package kv provides the synchronous string key-value contract the cart
// store persists through, with memory, sqlite and redis backends.
package kv

import (
	"context"
	"errors"
	"strings"
)

const keyNamespace = "storefront"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by backends holding an external connection.
type Closer interface {
	Close() error
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildKey joins key parts under the shared namespace, skipping blanks.
func BuildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}

type scoped struct {
	inner  Store
	prefix string
}

// Scope returns a view of the store whose keys are prefixed with the given
// scope parts. Each session's cart writes through its own scoped view, so the
// fixed cart key stays single-writer.
func Scope(inner Store, parts ...string) Store {
	return &scoped{inner: inner, prefix: BuildKey(parts...)}
}

func (s *scoped) key(key string) string {
	return s.prefix + ":" + key
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.key(key))
}
