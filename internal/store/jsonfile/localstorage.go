package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/colonyops/storefront/internal/core/kv"
)

const fileExt = ".json"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// LocalStorage implements kv.Storage with one JSON file per key inside a
// directory. Writes are atomic: a reader never sees a partial value.
type LocalStorage struct {
	dir string
	mu  sync.RWMutex
}

var _ kv.Storage = (*LocalStorage)(nil)

// NewLocalStorage returns storage rooted at dir. The directory is created on
// first write.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *LocalStorage) Dir() string { return s.dir }

// GetItem returns the stored bytes for key.
func (s *LocalStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}

	return data, true, nil
}

// SetItem writes value under key.
func (s *LocalStorage) SetItem(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %q: %w", key, err)
	}

	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (s *LocalStorage) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list storage dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if key, ok := keyFromFilename(entry.Name()); ok && !entry.IsDir() {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", kv.ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// keyFromFilename maps a storage file name back to its key, ignoring temp
// files and anything that is not a stored value.
func keyFromFilename(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	return key, keyPattern.MatchString(key)
}
