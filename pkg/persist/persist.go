// Package persist loads and saves projects through swappable backends.
//
// A [Repository] implements the four operations the editor needs: create,
// load, save and save-as. [DocumentRepository] implements it once on top of
// a [Backend] that only stores raw project documents:
//
//   - [DirBackend]: a project directory holding index.json
//   - [KVBackend]: a storage.Store, the local-storage style fallback
//   - [MongoBackend]: one MongoDB document per project
//   - [SQLiteBackend]: one row per project in an embedded database
//
// Interactive choices (which file to open, where to save) go through a
// [Picker]. A picker that is dismissed returns an error wrapping
// [ErrCanceled] with the CANCELED code; callers treat it as a silent no-op,
// distinct from I/O failures.
package persist

import (
	"context"
	"errors"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// ErrCanceled is the cause of every user-canceled outcome.
var ErrCanceled = errors.New("canceled by user")

// Canceled returns a CANCELED error for the named interaction.
func Canceled(what string) error {
	return sferrors.Wrap(sferrors.ErrCodeCanceled, ErrCanceled, "%s canceled", what)
}

// Repository is the persistence contract used by the project store.
type Repository interface {
	// Create writes a new project at path. It fails if one already exists.
	Create(ctx context.Context, path string, p *scene.Project) error

	// Load reads the project at path. An empty path asks the picker first.
	// It returns the project and the path it was read from.
	Load(ctx context.Context, path string) (*scene.Project, string, error)

	// Save overwrites the project at path.
	Save(ctx context.Context, path string, p *scene.Project) error

	// SaveAs asks the picker for a location, writes the project there and
	// returns the chosen path.
	SaveAs(ctx context.Context, p *scene.Project) (string, error)
}

// Backend stores raw project documents by path.
type Backend interface {
	// Name identifies the backend in logs and traces ("dir", "kv", ...).
	Name() string

	// Read returns the document at path. A missing document is reported
	// with the PROJECT_NOT_FOUND code.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores the document at path, replacing any previous one.
	Write(ctx context.Context, path string, data []byte) error

	// Exists reports whether a document is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the known project paths, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases connections held by the backend.
	Close() error
}

// Picker stands in for the open and save dialogs.
type Picker interface {
	// OpenPath returns the location of an existing project.
	OpenPath(ctx context.Context) (string, error)

	// SavePath returns a location for a new file; suggested is the project name.
	SavePath(ctx context.Context, suggested string) (string, error)
}
