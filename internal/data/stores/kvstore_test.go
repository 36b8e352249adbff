package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/data/db"
)

func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewKVStore(database)
}

func TestKVStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.SetItem(ctx, "cart", []byte(`[{"id":"electronics-1","quantity":2}]`)))

	got, ok, err := store.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"electronics-1","quantity":2}]`, string(got))
}

func TestKVStore_GetMissing(t *testing.T) {
	store := newTestKVStore(t)

	got, ok, err := store.GetItem(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestKVStore_SetOverwriteKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	clock := time.Unix(100, 0)
	store.now = func() time.Time { return clock }
	require.NoError(t, store.SetItem(ctx, "orders", []byte(`[]`)))

	clock = clock.Add(time.Minute)
	require.NoError(t, store.SetItem(ctx, "orders", []byte(`[1]`)))

	got, _, err := store.GetItem(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	entry, err := store.Entry(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(100, 0).UnixNano(), entry.CreatedAt)
	assert.Equal(t, clock.UnixNano(), entry.UpdatedAt)
}

func TestKVStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.SetItem(ctx, "wishlist", []byte(`[]`)))
	require.NoError(t, store.RemoveItem(ctx, "wishlist"))
	require.NoError(t, store.RemoveItem(ctx, "wishlist"))

	_, ok, err := store.GetItem(ctx, "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_Keys(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.SetItem(ctx, "wishlist", []byte(`[]`)))
	require.NoError(t, store.SetItem(ctx, "cart", []byte(`[]`)))
	require.NoError(t, store.SetItem(ctx, "orders", []byte(`[]`)))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cart", "orders", "wishlist"}, keys)
}

func TestKVStore_EmptyKeyRejected(t *testing.T) {
	store := newTestKVStore(t)

	err := store.SetItem(context.Background(), "", []byte(`1`))
	assert.ErrorIs(t, err, kv.ErrInvalidKey)
}

func TestKVStore_NilValueStoredEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.SetItem(ctx, "cart", nil))

	got, ok, err := store.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestKVStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, NewKVStore(first).SetItem(ctx, "cart", []byte(`[1]`)))
	require.NoError(t, first.Close())

	second, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, ok, err := NewKVStore(second).GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(got))
}
