package persist

import (
	"context"
	"time"

	"github.com/matzehuels/sceneforge/pkg/observability"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/service"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// DocumentRepository implements Repository on top of a Backend.
type DocumentRepository struct {
	backend  Backend
	picker   Picker
	projects service.ProjectService
}

// New returns a repository storing documents in backend. A nil picker
// cancels every interactive request.
func New(backend Backend, picker Picker) *DocumentRepository {
	if picker == nil {
		picker = StaticPicker{}
	}
	return &DocumentRepository{backend: backend, picker: picker}
}

// Backend returns the underlying backend.
func (r *DocumentRepository) Backend() Backend { return r.backend }

// Create implements Repository.
func (r *DocumentRepository) Create(ctx context.Context, path string, p *scene.Project) (err error) {
	start := time.Now()
	size := 0
	defer func() { observability.Persist().OnSave(ctx, r.backend.Name(), path, size, time.Since(start), err) }()

	if err := sferrors.ValidatePath(path); err != nil {
		return err
	}
	exists, err := r.backend.Exists(ctx, path)
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeIO, err, "check %s", path)
	}
	if exists {
		return sferrors.New(sferrors.ErrCodeInvalidPath, "a project already exists at %s", path)
	}
	size, err = r.write(ctx, path, p)
	return err
}

// Load implements Repository.
func (r *DocumentRepository) Load(ctx context.Context, path string) (p *scene.Project, resolved string, err error) {
	start := time.Now()
	defer func() { observability.Persist().OnLoad(ctx, r.backend.Name(), resolved, time.Since(start), err) }()

	resolved = path
	if resolved == "" {
		if resolved, err = r.picker.OpenPath(ctx); err != nil {
			return nil, "", err
		}
	}
	if err := sferrors.ValidatePath(resolved); err != nil {
		return nil, "", err
	}

	data, err := r.backend.Read(ctx, resolved)
	if err != nil {
		if sferrors.GetCode(err) != "" {
			return nil, "", err
		}
		return nil, "", sferrors.Wrap(sferrors.ErrCodeIO, err, "read %s", resolved)
	}
	p, err = r.projects.LoadProject(data)
	if err != nil {
		return nil, "", err
	}
	return p, resolved, nil
}

// Save implements Repository.
func (r *DocumentRepository) Save(ctx context.Context, path string, p *scene.Project) (err error) {
	start := time.Now()
	size := 0
	defer func() { observability.Persist().OnSave(ctx, r.backend.Name(), path, size, time.Since(start), err) }()

	if err := sferrors.ValidatePath(path); err != nil {
		return err
	}
	size, err = r.write(ctx, path, p)
	return err
}

// SaveAs implements Repository.
func (r *DocumentRepository) SaveAs(ctx context.Context, p *scene.Project) (path string, err error) {
	start := time.Now()
	size := 0
	defer func() { observability.Persist().OnSave(ctx, r.backend.Name(), path, size, time.Since(start), err) }()

	path, err = r.picker.SavePath(ctx, p.Name)
	if err != nil {
		return "", err
	}
	if err := sferrors.ValidatePath(path); err != nil {
		return "", err
	}
	if size, err = r.write(ctx, path, p); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the project paths known to the backend.
func (r *DocumentRepository) List(ctx context.Context) ([]string, error) {
	return r.backend.List(ctx)
}

// ProjectDir returns the directory holding the project at path, when the
// backend keeps projects in directories.
func (r *DocumentRepository) ProjectDir(path string) (string, bool) {
	d, ok := r.backend.(interface{ Dir(string) string })
	if !ok || path == "" {
		return "", false
	}
	return d.Dir(path), true
}

// Close closes the backend.
func (r *DocumentRepository) Close() error {
	return r.backend.Close()
}

func (r *DocumentRepository) write(ctx context.Context, path string, p *scene.Project) (int, error) {
	data, err := r.projects.ExportProject(p)
	if err != nil {
		return 0, err
	}
	if err := r.backend.Write(ctx, path, data); err != nil {
		return 0, sferrors.Wrap(sferrors.ErrCodeIO, err, "write %s", path)
	}
	return len(data), nil
}

var _ Repository = (*DocumentRepository)(nil)
