package service

import (
	"testing"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

func TestCreateDuplicateScenario(t *testing.T) {
	var svc SceneService
	p := scene.NewProject("P")
	s := scene.NewScene("S")
	p.AddScene(s)

	cube, err := svc.CreateGameObject(s, "Cube", "")
	if err != nil {
		t.Fatalf("CreateGameObject: %v", err)
	}
	if len(s.RootObjects()) != 1 || cube.Parent() != nil {
		t.Fatal("Cube should be the single root")
	}

	child, err := svc.CreateGameObject(s, "Child", cube.ID())
	if err != nil {
		t.Fatalf("CreateGameObject(child): %v", err)
	}
	if cube.ChildCount() != 1 || child.Parent().ID() != cube.ID() {
		t.Fatal("Child not attached to Cube")
	}

	dup := svc.DuplicateGameObject(s, cube.ID())
	if dup == nil {
		t.Fatal("DuplicateGameObject returned nil")
	}
	roots := s.RootObjects()
	if len(roots) != 2 || roots[1] != dup {
		t.Fatalf("roots = %d, want duplicate appended as second root", len(roots))
	}
	if dup.Name != "Cube (Copy)" {
		t.Errorf("Name = %q, want %q", dup.Name, "Cube (Copy)")
	}
	if dup.ChildCount() != 1 || dup.Children()[0] == child {
		t.Error("duplicate should have its own cloned child")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("project invalid after duplicate: %v", err)
	}
}

func TestCreateGameObjectUnknownParent(t *testing.T) {
	var svc SceneService
	s := scene.NewScene("S")

	obj, err := svc.CreateGameObject(s, "orphan", "missing")
	if obj != nil || !sferrors.Is(err, sferrors.ErrCodeObjectNotFound) {
		t.Fatalf("CreateGameObject() = %v, %v; want nil, OBJECT_NOT_FOUND", obj, err)
	}
	if s.ObjectCount() != 0 {
		t.Error("object created despite error")
	}
}

func TestCreateGameObjectInvalidName(t *testing.T) {
	var svc SceneService
	s := scene.NewScene("S")
	if _, err := svc.CreateGameObject(s, " ", ""); !sferrors.Is(err, sferrors.ErrCodeInvalidName) {
		t.Errorf("error = %v, want INVALID_NAME", err)
	}
}

func TestDeleteGameObject(t *testing.T) {
	var svc SceneService
	s := scene.NewScene("S")
	root, _ := svc.CreateGameObject(s, "root", "")
	child, _ := svc.CreateGameObject(s, "child", root.ID())
	_, _ = svc.CreateGameObject(s, "grandchild", child.ID())

	if svc.DeleteGameObject(s, "missing") != nil {
		t.Error("deleting a missing id should return nil")
	}
	if s.ObjectCount() != 3 {
		t.Errorf("ObjectCount() = %d after failed delete, want 3", s.ObjectCount())
	}

	if got := svc.DeleteGameObject(s, child.ID()); got != child {
		t.Fatal("DeleteGameObject(child) did not return the child")
	}
	if child.Parent() != nil || root.ChildCount() != 0 {
		t.Error("child not detached from parent")
	}
	if s.ObjectCount() != 1 {
		t.Errorf("ObjectCount() = %d, want 1", s.ObjectCount())
	}

	svc.DeleteGameObject(s, root.ID())
	if len(s.RootObjects()) != 0 {
		t.Error("root not removed")
	}
}

func TestDuplicateNestedKeepsParent(t *testing.T) {
	var svc SceneService
	s := scene.NewScene("S")
	root, _ := svc.CreateGameObject(s, "root", "")
	child, _ := svc.CreateGameObject(s, "child", root.ID())
	child.Transform.Position = scene.Vec3(3, 0, 0)
	child.AddTag("t")

	dup := svc.DuplicateGameObject(s, child.ID())
	if dup.Parent() != root || root.ChildCount() != 2 {
		t.Fatal("duplicate should be a sibling under the same parent")
	}
	if dup.ID() == child.ID() {
		t.Error("duplicate kept the original id")
	}
	if dup.Transform != child.Transform {
		t.Error("duplicate transform differs")
	}

	dup.Transform.Position.X = 99
	dup.AddTag("only-copy")
	if child.Transform.Position.X != 3 || child.HasTag("only-copy") {
		t.Error("mutating the duplicate affected the original")
	}
	if svc.DuplicateGameObject(s, "missing") != nil {
		t.Error("duplicating a missing id should return nil")
	}
}

func TestReparentGameObject(t *testing.T) {
	build := func() (*scene.Scene, map[string]*scene.GameObject) {
		var svc SceneService
		s := scene.NewScene("S")
		a, _ := svc.CreateGameObject(s, "a", "")
		b, _ := svc.CreateGameObject(s, "b", a.ID())
		c, _ := svc.CreateGameObject(s, "c", b.ID())
		d, _ := svc.CreateGameObject(s, "d", "")
		return s, map[string]*scene.GameObject{"a": a, "b": b, "c": c, "d": d}
	}

	tests := []struct {
		name     string
		obj      string
		target   string
		wantCode sferrors.Code
		check    func(t *testing.T, s *scene.Scene, o map[string]*scene.GameObject)
	}{
		{
			name: "root under root", obj: "d", target: "a",
			check: func(t *testing.T, s *scene.Scene, o map[string]*scene.GameObject) {
				if o["d"].Parent() != o["a"] || len(s.RootObjects()) != 1 {
					t.Error("d not moved under a")
				}
			},
		},
		{
			name: "nested to root", obj: "c", target: "",
			check: func(t *testing.T, s *scene.Scene, o map[string]*scene.GameObject) {
				if o["c"].Parent() != nil || o["b"].ChildCount() != 0 || len(s.RootObjects()) != 3 {
					t.Error("c not promoted to root")
				}
			},
		},
		{name: "unknown object", obj: "zzz", target: "a", wantCode: sferrors.ErrCodeObjectNotFound},
		{name: "unknown target", obj: "b", target: "zzz", wantCode: sferrors.ErrCodeObjectNotFound},
		{name: "self", obj: "b", target: "b", wantCode: sferrors.ErrCodeCycle},
		{name: "under descendant", obj: "a", target: "c", wantCode: sferrors.ErrCodeCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc SceneService
			s, objs := build()
			id := tt.obj
			if o, ok := objs[tt.obj]; ok {
				id = o.ID()
			}
			target := tt.target
			if o, ok := objs[tt.target]; ok {
				target = o.ID()
			}

			err := svc.ReparentGameObject(s, id, target)
			if tt.wantCode != "" {
				if !sferrors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				// Failed reparent leaves the original tree in place.
				if objs["b"].Parent() != objs["a"] || objs["c"].Parent() != objs["b"] || len(s.RootObjects()) != 2 {
					t.Error("tree changed after failed reparent")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReparentGameObject: %v", err)
			}
			tt.check(t, s, objs)
		})
	}
}

func TestUpdateTransformPartial(t *testing.T) {
	var svc SceneService
	obj := scene.NewGameObject("g")
	obj.Transform.Rotation = scene.Vec3(0, 45, 0)

	pos := scene.Vec3(1, 2, 3)
	svc.UpdateTransform(obj, &pos, nil, nil)
	pos.X = 50

	if obj.Transform.Position != scene.Vec3(1, 2, 3) {
		t.Errorf("Position = %v, caller vector aliased", obj.Transform.Position)
	}
	if obj.Transform.Rotation != scene.Vec3(0, 45, 0) || obj.Transform.Scale != scene.Vec3(1, 1, 1) {
		t.Error("untouched components changed")
	}
}

func TestRenameGameObject(t *testing.T) {
	var svc SceneService
	s := scene.NewScene("S")
	g, _ := svc.CreateGameObject(s, "old", "")

	if err := svc.RenameGameObject(s, g.ID(), "new"); err != nil || g.Name != "new" {
		t.Errorf("RenameGameObject = %v, name %q", err, g.Name)
	}
	if err := svc.RenameGameObject(s, "missing", "x"); !sferrors.Is(err, sferrors.ErrCodeObjectNotFound) {
		t.Errorf("error = %v, want OBJECT_NOT_FOUND", err)
	}
}
