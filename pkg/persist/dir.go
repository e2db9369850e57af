package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// IndexFile is the project document inside a project directory.
const IndexFile = "index.json"

// DirBackend stores each project as <dir>/index.json. Relative paths are
// resolved against Root, which is also the directory List scans.
type DirBackend struct {
	Root string
}

// NewDirBackend returns a backend resolving relative paths against root.
// An empty root means the working directory.
func NewDirBackend(root string) *DirBackend {
	return &DirBackend{Root: root}
}

// Name implements Backend.
func (b *DirBackend) Name() string { return "dir" }

// Dir resolves a project path to its directory.
func (b *DirBackend) Dir(path string) string {
	if filepath.IsAbs(path) || b.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(b.Root, path)
}

// Read implements Backend.
func (b *DirBackend) Read(ctx context.Context, path string) ([]byte, error) {
	file := filepath.Join(b.Dir(path), IndexFile)
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil, sferrors.New(sferrors.ErrCodeProjectNotFound, "no project at %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// Write implements Backend. The directory is created when missing and the
// index is replaced atomically.
func (b *DirBackend) Write(ctx context.Context, path string, data []byte) error {
	dir := b.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	file := filepath.Join(dir, IndexFile)
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, file); err != nil {
		return fmt.Errorf("replace %s: %w", file, err)
	}
	return nil
}

// Exists implements Backend.
func (b *DirBackend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.Dir(path), IndexFile))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// List implements Backend by scanning Root for directories holding an index.
func (b *DirBackend) List(ctx context.Context) ([]string, error) {
	root := b.Root
	if root == "" {
		root = "."
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), IndexFile)); err == nil {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}

// Close does nothing for directories.
func (b *DirBackend) Close() error { return nil }

var _ Backend = (*DirBackend)(nil)
