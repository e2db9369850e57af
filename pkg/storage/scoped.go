package storage

import (
	"context"
	"strings"
)

// ScopedStore prefixes every key of an inner store, giving each consumer its
// own namespace. Keys returned by Keys have the prefix removed.
//
//	projects := storage.Scoped(shared, "projects/")
//	assets := storage.Scoped(shared, "assets/")
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped wraps inner with a key prefix. Close closes inner.
func Scoped(inner Store, prefix string) *ScopedStore {
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Get implements Store.
func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set implements Store.
func (s *ScopedStore) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

// Delete implements Store.
func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Keys implements Store.
func (s *ScopedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix)
	}
	return keys, nil
}

// Close implements Store.
func (s *ScopedStore) Close() error { return s.inner.Close() }

var _ Store = (*ScopedStore)(nil)
