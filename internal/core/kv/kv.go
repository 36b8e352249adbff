// Package kv defines the durable key-value storage the storefront persists
// its cart, wishlist, and orders into.
package kv

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned by backends for keys they cannot store.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a string-keyed store of raw JSON documents. Values are opaque
// to the backend. A missing key is not an error: GetItem reports it with
// ok == false.
type Storage interface {
	GetItem(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
