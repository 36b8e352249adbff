package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/data/db"
	"github.com/colonyops/storefront/internal/data/stores"
	"github.com/colonyops/storefront/internal/store/jsonfile"
)

func backends(t *testing.T) map[string]kv.Storage {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return map[string]kv.Storage{
		"memory": kv.NewMemory(),
		"file":   jsonfile.NewLocalStorage(filepath.Join(t.TempDir(), "storage")),
		"sqlite": stores.NewKVStore(database),
	}
}

func TestStorage_Conformance(t *testing.T) {
	for name, storage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := storage.GetItem(ctx, "cart")
			require.NoError(t, err)
			assert.False(t, ok, "missing key")

			keys, err := storage.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			require.NoError(t, storage.SetItem(ctx, "cart", []byte(`[{"id":"a-1","quantity":1}]`)))
			require.NoError(t, storage.SetItem(ctx, "orders", []byte(`[]`)))
			require.NoError(t, storage.SetItem(ctx, "cart", []byte(`[]`)))

			got, ok, err := storage.GetItem(ctx, "cart")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(got))

			keys, err = storage.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"cart", "orders"}, keys)

			require.NoError(t, storage.RemoveItem(ctx, "orders"))
			require.NoError(t, storage.RemoveItem(ctx, "never-set"))

			keys, err = storage.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"cart"}, keys)

			assert.ErrorIs(t, storage.SetItem(ctx, "", []byte(`1`)), kv.ErrInvalidKey)
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	value := []byte(`[1]`)
	require.NoError(t, m.SetItem(ctx, "cart", value))
	value[1] = '9'

	got, _, err := m.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	got[1] = '7'
	again, _, err := m.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(again))
}

type item struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func TestTyped_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cart := kv.Key[[]item](kv.NewMemory(), "cart")

	written, err := cart.Set(ctx, []item{{ID: "a-1", Quantity: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a-1","quantity":2}]`, string(written))

	got, ok, err := cart.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{ID: "a-1", Quantity: 2}}, got)
	assert.Equal(t, "cart", cart.Name())
}

func TestTyped_Missing(t *testing.T) {
	got, ok, err := kv.Key[[]item](kv.NewMemory(), "cart").Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestTyped_Malformed(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	require.NoError(t, storage.SetItem(ctx, "cart", []byte(`{"not":"a list"}`)))

	_, ok, err := kv.Key[[]item](storage, "cart").Get(ctx)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestTyped_Delete(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	orders := kv.Key[[]string](storage, "orders")

	_, err := orders.Set(ctx, []string{"o-1"})
	require.NoError(t, err)
	require.NoError(t, orders.Delete(ctx))

	_, ok, err := orders.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
