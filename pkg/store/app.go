package store

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sceneforge/pkg/persist"
)

// Options configures an App.
type Options struct {
	// Repository loads and saves projects. Without one, only in-memory
	// projects can be created.
	Repository persist.Repository

	// Importer picks and reads asset files. Without one, ImportAsset fails
	// with UNSUPPORTED.
	Importer persist.AssetImporter

	// Logger receives debug records for every mutation. Defaults to a
	// discarding logger.
	Logger *log.Logger
}

// App is the application context. It owns every store and wires them
// together; nothing in this package is global.
type App struct {
	Project   *ProjectStore
	Scene     *SceneStore
	Selection *SelectionStore
	Viewport  *ViewportStore
	Assets    *AssetStore

	logger *log.Logger
	cancel []func()
}

// NewApp builds the stores and their cross-store subscriptions.
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	a := &App{logger: logger}
	a.Project = &ProjectStore{app: a, repo: opts.Repository}
	a.Scene = &SceneStore{app: a}
	a.Selection = &SelectionStore{app: a}
	a.Viewport = newViewportStore(a)
	a.Assets = &AssetStore{app: a, importer: opts.Importer}

	// Any edit to the scene marks the project dirty.
	a.cancel = append(a.cancel, a.Scene.Subscribe(func(e SceneEvent) {
		if e.Kind != SceneLoaded {
			a.Project.markModified()
		}
	}))
	a.cancel = append(a.cancel, a.Project.Subscribe(func(e ProjectEvent) {
		switch e.Kind {
		case ProjectOpened, ProjectClosed, ProjectSaved:
			a.Assets.reload()
		}
	}))
	return a
}

// Logger returns the logger shared by the stores.
func (a *App) Logger() *log.Logger { return a.logger }

// Close drops the cross-store subscriptions, detaches the render adapter
// and closes the repository when it holds resources.
func (a *App) Close() error {
	for _, cancel := range a.cancel {
		cancel()
	}
	a.cancel = nil
	a.Viewport.InitializeAdapter(nil)
	if c, ok := a.Project.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
