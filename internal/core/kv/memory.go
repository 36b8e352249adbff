package kv

import (
	"context"
	"slices"

	"github.com/colonyops/storefront/pkg/kv"
)

// Memory is a process-local Storage. Nothing survives a restart.
type Memory struct {
	items *kv.Store[string, []byte]
}

var _ Storage = (*Memory)(nil)

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{items: kv.New[string, []byte]()}
}

func (m *Memory) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) SetItem(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	m.items.Set(key, slices.Clone(value))
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	keys := m.items.Keys()
	slices.Sort(keys)
	return keys, nil
}
