// Package storage provides byte-oriented key/value stores.
//
// The persistence layer keeps project documents and imported assets in a
// [Store] when no project directory is available: the local-storage style
// fallback of the editor. Implementations:
//
//   - [FileStore]: one JSON entry file per key under a directory
//   - [MemoryStore]: in-process map, for tests and throwaway sessions
//   - [RedisStore]: shared store backed by Redis
//
// [Scoped] prefixes every key so several consumers can share one store.
package storage

import "context"

// Store is a byte-oriented key/value store.
type Store interface {
	// Get returns the value and true, or nil and false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}
