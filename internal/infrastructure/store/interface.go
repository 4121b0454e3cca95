package store

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("store key must not be empty")

// KeyValueStore is durable string-keyed storage. Set always replaces the whole value
// stored under the key; there are no partial or merge writes.
type KeyValueStore interface {
	// Get returns the value stored under key. The boolean is false when the key has
	// never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
