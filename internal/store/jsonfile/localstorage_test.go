package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/kv"
)

func TestLocalStorage_GetMissing(t *testing.T) {
	s := NewLocalStorage(filepath.Join(t.TempDir(), "storage"))

	data, ok, err := s.GetItem(context.Background(), "cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestLocalStorage_SetCreatesDirAndFile(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	s := NewLocalStorage(dir)

	require.NoError(t, s.SetItem(ctx, "cart", []byte(`[{"id":"electronics-1"}]`)))

	raw, err := os.ReadFile(filepath.Join(dir, "cart.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"electronics-1"}]`, string(raw))

	_, err = os.Stat(filepath.Join(dir, "cart.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestLocalStorage_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	require.NoError(t, s.SetItem(ctx, "orders", []byte(`[1]`)))
	require.NoError(t, s.SetItem(ctx, "orders", []byte(`[2]`)))

	data, ok, err := s.GetItem(ctx, "orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(data))
}

func TestLocalStorage_RemoveItem(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	require.NoError(t, s.SetItem(ctx, "wishlist", []byte(`[]`)))
	require.NoError(t, s.RemoveItem(ctx, "wishlist"))
	require.NoError(t, s.RemoveItem(ctx, "wishlist"), "removing twice is fine")

	_, ok, err := s.GetItem(ctx, "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_KeysIgnoresStrayFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStorage(dir)

	require.NoError(t, s.SetItem(ctx, "wishlist", []byte(`[]`)))
	require.NoError(t, s.SetItem(ctx, "cart", []byte(`[]`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json.tmp"), []byte(`x`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte(`x`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cart", "wishlist"}, keys)
}

func TestLocalStorage_KeysMissingDir(t *testing.T) {
	s := NewLocalStorage(filepath.Join(t.TempDir(), "absent"))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStorage_RejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		t.Run(key, func(t *testing.T) {
			err := s.SetItem(ctx, key, []byte(`1`))
			assert.ErrorIs(t, err, kv.ErrInvalidKey)

			_, _, err = s.GetItem(ctx, key)
			assert.ErrorIs(t, err, kv.ErrInvalidKey)
		})
	}
}
