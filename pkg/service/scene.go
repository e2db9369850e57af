package service

import (
	"errors"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// CopySuffix is appended to the name of a duplicated object.
const CopySuffix = " (Copy)"

// SceneService mutates the objects of a scene.
type SceneService struct{}

// CreateGameObject builds an object with a fresh id and the identity
// transform. With an empty parentID the object becomes a new root; otherwise
// it is appended to that parent's children.
//
// A parentID that does not resolve is an error (OBJECT_NOT_FOUND) and nothing
// is created, the same policy ReparentGameObject applies to its target.
func (SceneService) CreateGameObject(s *scene.Scene, name, parentID string) (*scene.GameObject, error) {
	if err := sferrors.ValidateName(name); err != nil {
		return nil, err
	}
	var parent *scene.GameObject
	if parentID != "" {
		if parent = s.FindObjectByID(parentID); parent == nil {
			return nil, sferrors.New(sferrors.ErrCodeObjectNotFound, "parent %s not found", parentID)
		}
	}

	obj := scene.NewGameObject(name)
	if parent != nil {
		if err := parent.AddChild(obj); err != nil {
			return nil, sferrors.Wrap(sferrors.ErrCodeInternal, err, "attach %s", obj.ID())
		}
	} else {
		s.AddObject(obj)
	}
	return obj, nil
}

// DeleteGameObject removes the object and its subtree from the scene.
// It returns the removed object, or nil if the id was not found.
// Selection and render state are left for the caller to clean up.
func (SceneService) DeleteGameObject(s *scene.Scene, id string) *scene.GameObject {
	obj := s.FindObjectByID(id)
	if obj == nil {
		return nil
	}
	if p := obj.Parent(); p != nil {
		p.RemoveChild(obj)
	} else {
		s.RemoveObject(obj)
	}
	return obj
}

// DuplicateGameObject deep-copies the object's subtree with fresh ids,
// renames the copy "<name> (Copy)" and appends it next to the original:
// under the same parent, or as a root. It returns nil if the id was not found.
func (SceneService) DuplicateGameObject(s *scene.Scene, id string) *scene.GameObject {
	orig := s.FindObjectByID(id)
	if orig == nil {
		return nil
	}
	cp := orig.Clone()
	cp.Name = orig.Name + CopySuffix

	if p := orig.Parent(); p != nil {
		// A fresh detached subtree can never be an ancestor of p.
		_ = p.AddChild(cp)
	} else {
		s.AddObject(cp)
	}
	return cp
}

// ReparentGameObject moves the object under newParentID, or to the root list
// when newParentID is empty.
//
// Every check runs before the object is detached, so a failure leaves the
// tree untouched:
//   - OBJECT_NOT_FOUND when either id does not resolve
//   - CYCLE when the target is the object itself or one of its descendants
func (SceneService) ReparentGameObject(s *scene.Scene, id, newParentID string) error {
	obj := s.FindObjectByID(id)
	if obj == nil {
		return sferrors.New(sferrors.ErrCodeObjectNotFound, "object %s not found", id)
	}
	if newParentID == "" {
		if obj.Parent() == nil {
			return nil
		}
		s.AddObject(obj)
		return nil
	}

	target := s.FindObjectByID(newParentID)
	if target == nil {
		return sferrors.New(sferrors.ErrCodeObjectNotFound, "parent %s not found", newParentID)
	}
	if target == obj || obj.IsAncestorOf(target) {
		return sferrors.Wrap(sferrors.ErrCodeCycle, scene.ErrCycle, "cannot move %s under %s", id, newParentID)
	}

	wasRoot := obj.Parent() == nil
	if err := target.AddChild(obj); err != nil {
		code := sferrors.ErrCodeInternal
		if errors.Is(err, scene.ErrCycle) || errors.Is(err, scene.ErrSelfParent) {
			code = sferrors.ErrCodeCycle
		}
		return sferrors.Wrap(code, err, "cannot move %s under %s", id, newParentID)
	}
	if wasRoot {
		s.RemoveObject(obj)
	}
	return nil
}

// RenameGameObject changes an object's name.
func (SceneService) RenameGameObject(s *scene.Scene, id, name string) error {
	if err := sferrors.ValidateName(name); err != nil {
		return err
	}
	obj := s.FindObjectByID(id)
	if obj == nil {
		return sferrors.New(sferrors.ErrCodeObjectNotFound, "object %s not found", id)
	}
	obj.Name = name
	return nil
}

// UpdateTransform overwrites the provided components of obj's transform.
// Nil components are left unchanged; provided vectors are copied.
func (SceneService) UpdateTransform(obj *scene.GameObject, position, rotation, scale *scene.Vector3) {
	obj.Transform.Apply(position, rotation, scale)
}

// FindObjectByID returns the object with the given id, or nil.
func (SceneService) FindObjectByID(s *scene.Scene, id string) *scene.GameObject {
	return s.FindObjectByID(id)
}

// GetAllObjects returns the scene's objects in pre-order.
func (SceneService) GetAllObjects(s *scene.Scene) []*scene.GameObject {
	return s.AllObjects()
}
