// Package storage persists opaque blobs under fixed keys. Every Save replaces
// the whole blob; readers never observe a partial write.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing was ever saved under the key
var ErrNotFound = errors.New("no data stored under key")

// Store is a keyed blob store
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
