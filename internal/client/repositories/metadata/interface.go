// Package metadata is the key/value table the client keeps its durable
// state in. Values are opaque bytes; callers own their encoding.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMany returns only the keys that exist.
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
