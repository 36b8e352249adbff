package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/data/db"
)

// KVStore implements kv.Storage using SQLite.
type KVStore struct {
	db  *db.DB
	now func() time.Time
}

var _ kv.Storage = (*KVStore)(nil)

// NewKVStore creates a SQLite-backed storage.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

// GetItem returns the stored bytes for key.
func (s *KVStore) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	row, err := s.db.Queries().KVGet(ctx, key)
	if IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return row.Value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *KVStore) SetItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return kv.ErrInvalidKey
	}
	if value == nil {
		value = []byte{}
	}

	now := s.now().UnixNano()
	err := withBusyRetry(ctx, func() error {
		return s.db.Queries().KVSet(ctx, db.KVSetParams{
			Key:       key,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *KVStore) RemoveItem(ctx context.Context, key string) error {
	err := withBusyRetry(ctx, func() error {
		return s.db.Queries().KVDelete(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys in sorted order.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Queries().KVListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

// Entry returns the raw row with its timestamps.
func (s *KVStore) Entry(ctx context.Context, key string) (db.KvStore, error) {
	row, err := s.db.Queries().KVGet(ctx, key)
	if err != nil {
		return db.KvStore{}, fmt.Errorf("kv entry %q: %w", key, err)
	}
	return row, nil
}
