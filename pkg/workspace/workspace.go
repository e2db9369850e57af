// Package workspace remembers the open project between CLI invocations.
//
// Each sceneforge command is a separate process, so the current project
// path and the backend it lives in are recorded in a small JSON file,
// ~/.config/sceneforge/workspace.json by default:
//
//	ws, err := workspace.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	st, err := ws.Get(ctx)
//	if st == nil {
//	    // nothing open
//	}
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the workspace file inside the config directory.
const FileName = "workspace.json"

// State is what a workspace remembers.
type State struct {
	// Project is the path of the open project within its backend.
	Project string `json:"project"`
	// Backend names the storage backend the project was opened from.
	Backend string `json:"backend"`
	// Scene is the id of the scene commands act on.
	Scene     string    `json:"scene,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfigDir returns the sceneforge configuration directory:
// $XDG_CONFIG_HOME/sceneforge when set, ~/.config/sceneforge otherwise.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sceneforge"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "sceneforge"), nil
}

// FileStore keeps the workspace state in a JSON file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store in dir, defaulting to ConfigDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, FileName)}, nil
}

// Get returns the recorded state, or nil when nothing is open.
func (s *FileStore) Get(ctx context.Context) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if st.Project == "" {
		return nil, nil
	}
	return &st, nil
}

// Set records st, stamping UpdatedAt.
func (s *FileStore) Set(ctx context.Context, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	return nil
}

// Clear forgets the open project.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

// Path returns the workspace file path.
func (s *FileStore) Path() string { return s.path }
