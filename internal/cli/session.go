package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/sceneforge/pkg/persist"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/storage"
	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/workspace"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// =============================================================================
// Session - one invocation's editor state
// =============================================================================

// session is the App of one command together with the workspace record
// that names the project it works on.
type session struct {
	app      *store.App
	cfg      Config
	backend  persist.Backend
	ws       *workspace.FileStore
	state    *workspace.State
	shutdown func()
}

// sessionOptions controls how a session is opened.
type sessionOptions struct {
	// project opens the workspace project. Commands that create or pick
	// their own project leave it false.
	project bool

	// path answers the open and save pickers; empty falls back to a prompt.
	// Directory paths are made absolute first.
	path string
}

// openSession loads config, connects the storage backend and, when asked,
// opens the workspace project.
func (c *CLI) openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	wsDir := c.workspaceDir
	if wsDir == "" {
		if wsDir, err = workspace.ConfigDir(); err != nil {
			return nil, err
		}
	}
	ws, err := workspace.NewFileStore(wsDir)
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	path, err := resolvePath(cfg.Storage, opts.path)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	picker := c.picker(path)
	s := &session{
		app: store.NewApp(store.Options{
			Repository: persist.New(backend, picker),
			Importer:   persist.FileImporter{Picker: picker},
			Logger:     c.Logger,
		}),
		cfg:      cfg,
		backend:  backend,
		ws:       ws,
		shutdown: c.startTracing(cfg.Trace),
	}

	settings, err := cfg.Viewport.Settings()
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := s.app.Viewport.Apply(settings); err != nil {
		s.Close()
		return nil, err
	}

	if s.state, err = ws.Get(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if opts.project {
		if err := s.openWorkspaceProject(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) openWorkspaceProject(ctx context.Context) error {
	if s.state == nil || s.state.Project == "" {
		return sferrors.New(sferrors.ErrCodeNoProject, "no project is open (run `%s new` or `%s open`)", appName, appName)
	}
	if s.state.Backend != s.backend.Name() {
		return sferrors.New(sferrors.ErrCodeInvalidInput,
			"open project %s lives in the %s backend, but storage.backend is %s",
			s.state.Project, s.state.Backend, s.backend.Name())
	}
	if err := s.app.Project.OpenProject(ctx, s.state.Project); err != nil {
		return err
	}
	if s.state.Scene != "" && s.app.Project.Project().FindScene(s.state.Scene) != nil {
		if err := s.app.Project.SwitchScene(s.state.Scene); err != nil {
			return err
		}
	}
	return nil
}

// commit saves a modified project and records it as the workspace project.
func (s *session) commit(ctx context.Context) error {
	if s.app.Project.Project() == nil {
		return nil
	}
	if s.app.Project.Modified() {
		if err := s.app.Project.SaveProject(ctx); err != nil {
			return err
		}
	}
	return s.remember(ctx)
}

// remember points the workspace at the current project.
func (s *session) remember(ctx context.Context) error {
	p := s.app.Project.Project()
	if p == nil || s.app.Project.Path() == "" {
		return nil
	}
	return s.ws.Set(ctx, &workspace.State{
		Project: s.app.Project.Path(),
		Backend: s.backend.Name(),
		Scene:   p.ActiveSceneID(),
	})
}

// Close releases the app, the backend connection and the tracer.
func (s *session) Close() {
	_ = s.app.Close()
	if s.shutdown != nil {
		s.shutdown()
	}
}

// project returns the open project. Sessions opened with project set
// always have one.
func (s *session) project() *scene.Project {
	return s.app.Project.Project()
}

// resolvePath makes directory paths absolute so the workspace record stays
// valid from any working directory. Paths under a configured root and keys
// of the other backends are kept as given.
func resolvePath(cfg StorageConfig, path string) (string, error) {
	if path == "" || cfg.Backend != backendDir || cfg.Dir != "" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", sferrors.Wrap(sferrors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	return abs, nil
}

// =============================================================================
// Backends
// =============================================================================

// openBackend connects the configured storage backend.
func openBackend(ctx context.Context, cfg StorageConfig) (persist.Backend, error) {
	switch cfg.Backend {
	case backendDir:
		return persist.NewDirBackend(cfg.Dir), nil
	case backendKV:
		dir := cfg.KVDir
		if dir == "" {
			d, err := dataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(d, "projects")
		}
		fs, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return persist.NewKVBackend(fs), nil
	case backendRedis:
		rs, err := storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return persist.NewKVBackend(storage.Scoped(rs, "projects/")), nil
	case backendMongo:
		return persist.ConnectMongo(ctx, persist.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case backendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			d, err := dataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(d, "projects.db")
		}
		return persist.OpenSQLite(ctx, path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// dataDir returns the data directory using XDG standard (~/.local/share/sceneforge/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Pickers
// =============================================================================

// argPicker answers with a path given on the command line and prompts
// when there is none.
type argPicker struct {
	path   string
	prompt persist.Picker
}

func (c *CLI) picker(path string) persist.Picker {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return argPicker{path: path, prompt: persist.NewPromptPicker(in, os.Stderr)}
}

func (p argPicker) OpenPath(ctx context.Context) (string, error) {
	if p.path != "" {
		return p.path, nil
	}
	return p.prompt.OpenPath(ctx)
}

func (p argPicker) SavePath(ctx context.Context, suggested string) (string, error) {
	if p.path != "" {
		return p.path, nil
	}
	return p.prompt.SavePath(ctx, suggested)
}
