package store

import (
	"context"

	"github.com/matzehuels/sceneforge/pkg/observability"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/service"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// SceneStore owns the scene being edited. Every mutation goes through the
// scene service, then pushes the result to the viewport: a full resync for
// structural changes, a single transform update for transform edits.
type SceneStore struct {
	app      *App
	svc      service.SceneService
	tags     service.TagService
	current  *scene.Scene
	notifier Notifier[SceneEvent]
}

// Subscribe registers fn for scene events.
func (s *SceneStore) Subscribe(fn func(SceneEvent)) (cancel func()) {
	return s.notifier.Subscribe(fn)
}

// Scene returns the scene being edited, or nil.
func (s *SceneStore) Scene() *scene.Scene { return s.current }

// SetCurrentScene switches the edited scene, clears the selection and
// resyncs the viewport.
func (s *SceneStore) SetCurrentScene(sc *scene.Scene) {
	s.current = sc
	s.app.Selection.Clear()
	s.app.Viewport.SyncScene()
	s.notifier.Notify(SceneEvent{Kind: SceneLoaded})
}

// CreateGameObject adds a new object as a root, or as the last child of
// parentID when it is not empty.
func (s *SceneStore) CreateGameObject(name, parentID string) (*scene.GameObject, error) {
	if s.current == nil {
		return nil, errNoScene()
	}
	obj, err := s.svc.CreateGameObject(s.current, name, parentID)
	mutated("create", parentID, err)
	if err != nil {
		return nil, err
	}
	s.app.logger.Debug("created object", "id", obj.ID(), "name", name, "parent", parentID)
	s.changed(ObjectCreated, obj.ID())
	return obj, nil
}

// DeleteGameObject removes an object and its subtree. The selection is
// cleared when any selected id was inside the removed subtree. It reports
// false when the id is unknown.
func (s *SceneStore) DeleteGameObject(id string) bool {
	if s.current == nil {
		return false
	}
	removed := s.svc.DeleteGameObject(s.current, id)
	if removed == nil {
		mutated("delete", id, notFound(id))
		return false
	}
	mutated("delete", id, nil)
	s.app.logger.Debug("deleted object", "id", id, "name", removed.Name)

	if s.app.Selection.anyIn(removed) {
		s.app.Selection.Clear()
	}
	s.changed(ObjectDeleted, id)
	return true
}

// DuplicateGameObject copies an object's subtree next to it and returns the
// copy, or nil when the id is unknown.
func (s *SceneStore) DuplicateGameObject(id string) *scene.GameObject {
	if s.current == nil {
		return nil
	}
	cp := s.svc.DuplicateGameObject(s.current, id)
	if cp == nil {
		mutated("duplicate", id, notFound(id))
		return nil
	}
	mutated("duplicate", id, nil)
	s.app.logger.Debug("duplicated object", "id", id, "copy", cp.ID())
	s.changed(ObjectDuplicated, cp.ID())
	return cp
}

// ReparentObject moves an object under newParentID, or to the root list
// when newParentID is empty. On error the tree is unchanged.
func (s *SceneStore) ReparentObject(id, newParentID string) error {
	if s.current == nil {
		return errNoScene()
	}
	err := s.svc.ReparentGameObject(s.current, id, newParentID)
	mutated("reparent", id, err)
	if err != nil {
		return err
	}
	s.app.logger.Debug("reparented object", "id", id, "parent", newParentID)
	s.changed(ObjectReparented, id)
	return nil
}

// UpdateObjectTransform overwrites the non-nil components of an object's
// transform and pushes only that object's transform to the viewport.
func (s *SceneStore) UpdateObjectTransform(id string, position, rotation, scale *scene.Vector3) bool {
	obj := s.FindObjectByID(id)
	if obj == nil {
		mutated("transform", id, notFound(id))
		return false
	}
	s.svc.UpdateTransform(obj, position, rotation, scale)
	mutated("transform", id, nil)
	s.app.Viewport.UpdateObjectTransform(id)
	s.notifier.Notify(SceneEvent{Kind: ObjectMoved, ObjectID: id})
	return true
}

// RenameObject changes an object's name.
func (s *SceneStore) RenameObject(id, name string) error {
	if s.current == nil {
		return errNoScene()
	}
	err := s.svc.RenameGameObject(s.current, id, name)
	mutated("rename", id, err)
	if err != nil {
		return err
	}
	s.app.logger.Debug("renamed object", "id", id, "name", name)
	s.app.Viewport.SyncScene()
	s.notifier.Notify(SceneEvent{Kind: ObjectRenamed, ObjectID: id})
	return nil
}

// AddTag tags an object. Adding a tag it already has is a no-op.
func (s *SceneStore) AddTag(id, tag string) error {
	obj := s.FindObjectByID(id)
	if obj == nil {
		return notFound(id)
	}
	if obj.HasTag(tag) {
		return nil
	}
	if err := s.tags.AddTagToObject(obj, tag); err != nil {
		return err
	}
	s.app.logger.Debug("tagged object", "id", id, "tag", tag)
	s.notifier.Notify(SceneEvent{Kind: ObjectTagged, ObjectID: id})
	return nil
}

// RemoveTag untags an object and reports whether the tag was present.
func (s *SceneStore) RemoveTag(id, tag string) bool {
	obj := s.FindObjectByID(id)
	if obj == nil || !s.tags.RemoveTagFromObject(obj, tag) {
		return false
	}
	s.app.logger.Debug("untagged object", "id", id, "tag", tag)
	s.notifier.Notify(SceneEvent{Kind: ObjectTagged, ObjectID: id})
	return true
}

// GetAllObjects returns the scene's objects in pre-order.
func (s *SceneStore) GetAllObjects() []*scene.GameObject {
	if s.current == nil {
		return nil
	}
	return s.svc.GetAllObjects(s.current)
}

// FindObjectByID returns the object with id in the current scene, or nil.
func (s *SceneStore) FindObjectByID(id string) *scene.GameObject {
	if s.current == nil {
		return nil
	}
	return s.svc.FindObjectByID(s.current, id)
}

func (s *SceneStore) changed(kind SceneEventKind, id string) {
	s.app.Viewport.SyncScene()
	s.notifier.Notify(SceneEvent{Kind: kind, ObjectID: id})
}

func mutated(op, id string, err error) {
	observability.Editor().OnMutation(context.Background(), op, id, err)
}

func notFound(id string) error {
	return sferrors.New(sferrors.ErrCodeObjectNotFound, "object %s not found", id)
}

func errNoScene() error {
	return sferrors.New(sferrors.ErrCodeNoProject, "no scene is open")
}
