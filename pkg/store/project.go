package store

import (
	"context"

	"github.com/matzehuels/sceneforge/pkg/observability"
	"github.com/matzehuels/sceneforge/pkg/persist"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/service"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// ProjectStore owns the current project and where it is stored.
type ProjectStore struct {
	app      *App
	repo     persist.Repository
	projects service.ProjectService
	tags     service.TagService

	project  *scene.Project
	path     string
	modified bool
	notifier Notifier[ProjectEvent]
}

// Subscribe registers fn for project events.
func (s *ProjectStore) Subscribe(fn func(ProjectEvent)) (cancel func()) {
	return s.notifier.Subscribe(fn)
}

// Project returns the open project, or nil.
func (s *ProjectStore) Project() *scene.Project { return s.project }

// Path returns where the project is stored; empty until it is first saved.
func (s *ProjectStore) Path() string { return s.path }

// Modified reports whether the project changed since it was last loaded or
// saved.
func (s *ProjectStore) Modified() bool { return s.modified }

// Repository returns the persistence backend, which may be nil.
func (s *ProjectStore) Repository() persist.Repository { return s.repo }

// CreateNewProject replaces the current project with a new in-memory one
// containing a single empty scene.
func (s *ProjectStore) CreateNewProject(name string) (*scene.Project, error) {
	p, err := s.projects.CreateNewProject(name)
	if err != nil {
		return nil, err
	}
	s.app.logger.Debug("created project", "id", p.ID(), "name", p.Name)
	s.open(p, "")
	s.modified = true
	return p, nil
}

// CreateProjectAt creates a new project and writes it at path. The current
// project is only replaced once the write succeeded.
func (s *ProjectStore) CreateProjectAt(ctx context.Context, path, name string) (*scene.Project, error) {
	if s.repo == nil {
		return nil, errNoRepository()
	}
	p, err := s.projects.CreateNewProject(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, path, p); err != nil {
		return nil, s.persistError(ctx, "create", err)
	}
	s.app.logger.Debug("created project", "id", p.ID(), "name", p.Name, "path", path)
	s.open(p, path)
	return p, nil
}

// OpenProject loads the project at path, or asks the picker when path is
// empty. On failure or cancellation the current project is kept.
func (s *ProjectStore) OpenProject(ctx context.Context, path string) error {
	if s.repo == nil {
		return errNoRepository()
	}
	p, resolved, err := s.repo.Load(ctx, path)
	if err != nil {
		return s.persistError(ctx, "open", err)
	}
	s.app.logger.Debug("opened project", "id", p.ID(), "name", p.Name, "path", resolved)
	s.open(p, resolved)
	return nil
}

// SaveProject writes the project to its path, or behaves like
// SaveProjectAs when it has none yet.
func (s *ProjectStore) SaveProject(ctx context.Context) error {
	if s.project == nil {
		return errNoProject()
	}
	if s.path == "" {
		_, err := s.SaveProjectAs(ctx)
		return err
	}
	if s.repo == nil {
		return errNoRepository()
	}
	if err := s.repo.Save(ctx, s.path, s.project); err != nil {
		return s.persistError(ctx, "save", err)
	}
	s.saved(s.path)
	return nil
}

// SaveProjectAs asks for a new location, writes the project there and
// adopts it as the project's path.
func (s *ProjectStore) SaveProjectAs(ctx context.Context) (string, error) {
	if s.project == nil {
		return "", errNoProject()
	}
	if s.repo == nil {
		return "", errNoRepository()
	}
	path, err := s.repo.SaveAs(ctx, s.project)
	if err != nil {
		return "", s.persistError(ctx, "save as", err)
	}
	s.saved(path)
	return path, nil
}

// SetCurrentProject adopts an already loaded project.
func (s *ProjectStore) SetCurrentProject(p *scene.Project, path string) {
	if p == nil {
		s.ClearProject()
		return
	}
	s.open(p, path)
}

// ClearProject closes the current project.
func (s *ProjectStore) ClearProject() {
	if s.project == nil {
		return
	}
	s.app.logger.Debug("closed project", "id", s.project.ID())
	s.project = nil
	s.path = ""
	s.modified = false
	s.app.Scene.SetCurrentScene(nil)
	s.notifier.Notify(ProjectEvent{Kind: ProjectClosed})
}

// SwitchScene makes the scene with id active and loads it into the
// SceneStore.
func (s *ProjectStore) SwitchScene(id string) error {
	if s.project == nil {
		return errNoProject()
	}
	if s.project.ActiveSceneID() == id {
		return nil
	}
	if !s.project.SetActiveScene(id) {
		return sferrors.New(sferrors.ErrCodeSceneNotFound, "scene %s not found", id)
	}
	s.app.logger.Debug("switched scene", "id", id)
	s.app.Scene.SetCurrentScene(s.project.ActiveScene())
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: SceneSwitched, Path: s.path})
	return nil
}

// AddScene appends a new empty scene to the project.
func (s *ProjectStore) AddScene(name string) (*scene.Scene, error) {
	if s.project == nil {
		return nil, errNoProject()
	}
	hadActive := s.project.ActiveScene() != nil
	sc, err := s.projects.AddScene(s.project, name)
	if err != nil {
		return nil, err
	}
	s.app.logger.Debug("added scene", "id", sc.ID(), "name", sc.Name)
	if !hadActive {
		s.app.Scene.SetCurrentScene(s.project.ActiveScene())
	}
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: ScenesChanged, Path: s.path})
	return sc, nil
}

// RemoveScene removes a scene. When it was active, the first remaining
// scene (or none) becomes active.
func (s *ProjectStore) RemoveScene(id string) error {
	if s.project == nil {
		return errNoProject()
	}
	wasActive := s.project.ActiveSceneID() == id
	if !s.project.RemoveScene(id) {
		return sferrors.New(sferrors.ErrCodeSceneNotFound, "scene %s not found", id)
	}
	s.app.logger.Debug("removed scene", "id", id)
	if wasActive {
		s.app.Scene.SetCurrentScene(s.project.ActiveScene())
	}
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: ScenesChanged, Path: s.path})
	return nil
}

// Tags returns every tag in use: project tags and object tags, sorted.
func (s *ProjectStore) Tags() []string {
	if s.project == nil {
		return nil
	}
	return s.tags.GetAllProjectTags(s.project)
}

// AddTag registers a project-level tag.
func (s *ProjectStore) AddTag(tag string) error {
	if s.project == nil {
		return errNoProject()
	}
	if s.project.HasTag(tag) {
		return nil
	}
	if err := s.tags.AddTagToProject(s.project, tag); err != nil {
		return err
	}
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: ProjectTags, Path: s.path})
	return nil
}

// RemoveTag drops a project-level tag. Object tags are not touched.
func (s *ProjectStore) RemoveTag(tag string) bool {
	if s.project == nil || !s.tags.RemoveTagFromProject(s.project, tag) {
		return false
	}
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: ProjectTags, Path: s.path})
	return true
}

// FindObjectsWithTag searches every scene of the project.
func (s *ProjectStore) FindObjectsWithTag(tag string) []*scene.GameObject {
	if s.project == nil {
		return nil
	}
	return s.tags.FindObjectsWithTag(s.project, tag)
}

func (s *ProjectStore) open(p *scene.Project, path string) {
	s.project = p
	s.path = path
	s.modified = false
	s.app.Scene.SetCurrentScene(p.ActiveScene())
	s.notifier.Notify(ProjectEvent{Kind: ProjectOpened, Path: path})
}

func (s *ProjectStore) saved(path string) {
	s.path = path
	s.modified = false
	s.app.logger.Debug("saved project", "id", s.project.ID(), "path", path)
	s.notifier.Notify(ProjectEvent{Kind: ProjectSaved, Path: path})
}

func (s *ProjectStore) markModified() {
	if s.project == nil || s.modified {
		return
	}
	s.modified = true
	s.notifier.Notify(ProjectEvent{Kind: ProjectModified, Path: s.path})
}

// persistError logs a failed persistence operation. Cancellations are
// logged at debug level only and returned unchanged so callers can
// suppress them.
func (s *ProjectStore) persistError(ctx context.Context, op string, err error) error {
	observability.Editor().OnMutation(ctx, "project."+op, "", err)
	if sferrors.IsCanceled(err) {
		s.app.logger.Debug("project "+op+" canceled")
		return err
	}
	s.app.logger.Debug("project "+op+" failed", "error", err)
	return err
}

func errNoProject() error {
	return sferrors.New(sferrors.ErrCodeNoProject, "no project is open")
}

func errNoRepository() error {
	return sferrors.New(sferrors.ErrCodeUnsupported, "no project storage is configured")
}
