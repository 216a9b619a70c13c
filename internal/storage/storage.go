package storage

import (
	"context"
	"errors"
)

// Store is the durable local key-value storage the old browser client kept in
// localStorage: plain key to JSON-string pairs, no schema versioning. The
// token entry, the cached profile entry and the cart entry all live here.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("storage: key not found")
