package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	// Set and get
	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	// Get non-existent
	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string]()
	s.Set("key", "value")

	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
}

func TestStore_SetBatch(t *testing.T) {
	s := New[string, int]()

	s.SetBatch(map[string]int{
		"a": 1,
		"b": 2,
		"c": 3,
	})

	assert.Equal(t, 3, s.Len())

	val, _ := s.Get("b")
	assert.Equal(t, 2, val)
}

func TestStore_Clear(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_Keys(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	keys := s.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "a")
	assert.Contains(t, keys, "b")
}

func TestStore_Has(t *testing.T) {
	s := New[string, []string]()
	s.Set("empty", nil)

	assert.True(t, s.Has("empty"), "nil values still count as present")
	assert.False(t, s.Has("missing"))
}

func TestStore_SetIfAbsent(t *testing.T) {
	s := New[string, int]()

	got, stored := s.SetIfAbsent("a", 1)
	assert.True(t, stored)
	assert.Equal(t, 1, got)

	got, stored = s.SetIfAbsent("a", 2)
	assert.False(t, stored)
	assert.Equal(t, 1, got)

	val, _ := s.Get("a")
	assert.Equal(t, 1, val)
}

func TestStore_Snapshot(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)

	snap := s.Snapshot()
	snap["b"] = 2

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, snap)
	assert.Equal(t, 1, s.Len(), "snapshot is detached from the store")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int, int]()
	var wg sync.WaitGroup

	// Concurrent writes
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(n, n*2)
		}(i)
	}

	// Concurrent reads
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.SetIfAbsent(n, -1)
			s.Get(n)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 100, s.Len())
}
