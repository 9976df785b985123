package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/resilience"
)

// Store is a namespaced JSON view over a Backend
type Store struct {
	backend Backend
	prefix  string
	breaker *resilience.Breaker
}

// Option configures a Store
type Option func(*Store)

// WithBreaker guards writes with the given circuit breaker
func WithBreaker(b *resilience.Breaker) Option {
	return func(s *Store) {
		s.breaker = b
	}
}

// New creates a store whose keys all start with prefix
func New(backend Backend, prefix string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		prefix:  prefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns a child store sharing the backend and breaker
func (s *Store) Namespace(sub string) *Store {
	return &Store{
		backend: s.backend,
		prefix:  s.prefix + sub,
		breaker: s.breaker,
	}
}

// Prefix returns the full key prefix of this store
func (s *Store) Prefix() string {
	return s.prefix
}

// Key returns the backend key for a namespaced key
func (s *Store) Key(key string) string {
	return s.prefix + key
}

// GetJSON decodes the value stored under key into v.
// Missing keys return ErrNotFound; undecodable values wrap ErrCorrupt.
func (s *Store) GetJSON(ctx context.Context, key string, v any) error {
	data, err := s.backend.Get(ctx, s.Key(key))
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.Key(key), err)
	}
	return nil
}

// SetJSON encodes v and stores it under key
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.Key(key), err)
	}
	return s.write(func() error {
		return s.backend.Set(ctx, s.Key(key), data)
	})
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.write(func() error {
		return s.backend.Delete(ctx, s.Key(key))
	})
}

// Keys lists keys of this namespace with the prefix stripped
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	full, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	return keys, nil
}

// IsNotFound reports whether err means the key is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func (s *Store) write(fn func() error) error {
	if s.breaker == nil {
		return fn()
	}
	return s.breaker.Do(fn)
}
