package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteForTest(t *testing.T) *SQLite {
	t.Helper()

	store, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := newSQLiteForTest(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "storefront:cart", `[{"id":"throw-1"}]`))
	value, err := store.Get(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"throw-1"}]`, value)

	// Save upserts, so a second Set overwrites in place.
	require.NoError(t, store.Set(ctx, "storefront:cart", `[]`))
	value, err = store.Get(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	require.NoError(t, store.Delete(ctx, "storefront:cart"))
	_, err = store.Get(ctx, "storefront:cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestSQLitePing(t *testing.T) {
	store := newSQLiteForTest(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := NewSQLite("")
	require.Error(t, err)
}
