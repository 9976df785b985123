package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key has no stored value
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys a backend cannot represent
	ErrInvalidKey = errors.New("invalid key")
	// ErrCorrupt wraps decode failures of stored values
	ErrCorrupt = errors.New("corrupt value")
)

// Backend is a byte-oriented key-value store
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
