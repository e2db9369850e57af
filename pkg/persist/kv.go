package persist

import (
	"context"

	"github.com/matzehuels/sceneforge/pkg/storage"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// projectPrefix namespaces project documents inside a shared store.
const projectPrefix = "projects/"

// KVBackend keeps project documents in a storage.Store. It is the fallback
// when no file system is available, and with a Redis store it lets several
// editors share one project list.
type KVBackend struct {
	store *storage.ScopedStore
}

// NewKVBackend stores projects under "projects/" in store.
func NewKVBackend(store storage.Store) *KVBackend {
	return &KVBackend{store: storage.Scoped(store, projectPrefix)}
}

// Name implements Backend.
func (b *KVBackend) Name() string { return "kv" }

// Read implements Backend.
func (b *KVBackend) Read(ctx context.Context, path string) ([]byte, error) {
	data, ok, err := b.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sferrors.New(sferrors.ErrCodeProjectNotFound, "no project named %s", path)
	}
	return data, nil
}

// Write implements Backend.
func (b *KVBackend) Write(ctx context.Context, path string, data []byte) error {
	return b.store.Set(ctx, path, data)
}

// Exists implements Backend.
func (b *KVBackend) Exists(ctx context.Context, path string) (bool, error) {
	_, ok, err := b.store.Get(ctx, path)
	return ok, err
}

// List implements Backend.
func (b *KVBackend) List(ctx context.Context) ([]string, error) {
	return b.store.Keys(ctx, "")
}

// Close closes the underlying store.
func (b *KVBackend) Close() error { return b.store.Close() }

var _ Backend = (*KVBackend)(nil)
