package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcher_ReportsStorageWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := w.Watch(ctx, "cart")

	storage := NewLocalStorage(dir)
	require.NoError(t, storage.SetItem(ctx, "cart", []byte(`[]`)))

	select {
	case event := <-events:
		assert.Equal(t, "cart", event.Key)
		assert.False(t, event.Timestamp.IsZero())
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}

func TestWatcher_AllKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := w.Watch(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte(`[]`), 0o644))

	received := make(map[string]bool)
	for len(received) < 2 {
		select {
		case event := <-events:
			received[event.Key] = true
		case <-ctx.Done():
			t.Fatal("timeout waiting for events")
		}
	}

	assert.True(t, received["cart"])
	assert.True(t, received["orders"])
}

func TestWatcher_IgnoresOtherKeysAndFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := w.Watch(ctx, "wishlist")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`x`), 0o644))

	select {
	case event := <-events:
		t.Fatalf("unexpected event for %q", event.Key)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := w.Watch(ctx, "cart")

	path := filepath.Join(dir, "cart.json")
	for range 5 {
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	}

	select {
	case event := <-events:
		assert.Equal(t, "cart", event.Key)
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}

func TestWatcher_ContextCancelClosesChannel(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Watch(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatcher_CloseClosesChannels(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	events := w.Watch(context.Background())
	require.NoError(t, w.Close())

	_, ok := <-events
	assert.False(t, ok)

	late := w.Watch(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}
