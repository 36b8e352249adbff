package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed provides JSON-typed access to a single key of a Storage.
type Typed[T any] struct {
	storage Storage
	key     string
}

// Key returns a Typed[T] bound to key.
func Key[T any](storage Storage, key string) Typed[T] {
	return Typed[T]{storage: storage, key: key}
}

// Name returns the storage key.
func (t Typed[T]) Name() string { return t.key }

// Get reads and decodes the value. ok is false when the key is absent. A
// value that does not decode into T is returned as an error.
func (t Typed[T]) Get(ctx context.Context) (T, bool, error) {
	var v T

	data, ok, err := t.storage.GetItem(ctx, t.key)
	if err != nil || !ok {
		return v, false, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, true, fmt.Errorf("decode %q: %w", t.key, err)
	}

	return v, true, nil
}

// Set encodes and stores the value, returning the bytes that were written.
func (t Typed[T]) Set(ctx context.Context, value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", t.key, err)
	}

	if err := t.storage.SetItem(ctx, t.key, data); err != nil {
		return nil, err
	}

	return data, nil
}

// Delete removes the key.
func (t Typed[T]) Delete(ctx context.Context) error {
	return t.storage.RemoveItem(ctx, t.key)
}
