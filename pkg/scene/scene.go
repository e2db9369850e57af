package scene

import "slices"

// Scene is an ordered forest of root objects edited and rendered as a unit.
type Scene struct {
	Name string

	id    string
	roots []*GameObject
}

// NewScene creates an empty scene with a fresh id.
func NewScene(name string) *Scene {
	return &Scene{Name: name, id: NewID()}
}

// ID returns the scene identifier.
func (s *Scene) ID() string { return s.id }

// RootObjects returns a copy of the root list in declared order.
func (s *Scene) RootObjects() []*GameObject { return slices.Clone(s.roots) }

// AddObject appends obj to the root list. An object that still has a parent
// is detached from it first; an object that is already a root is left alone.
func (s *Scene) AddObject(obj *GameObject) {
	if obj == nil || slices.Contains(s.roots, obj) {
		return
	}
	if obj.parent != nil {
		obj.parent.RemoveChild(obj)
	}
	s.roots = append(s.roots, obj)
}

// RemoveObject removes a root by identity and reports whether it was one.
// Nested objects are removed through their parent instead.
func (s *Scene) RemoveObject(obj *GameObject) bool {
	i := slices.Index(s.roots, obj)
	if i < 0 {
		return false
	}
	s.roots = slices.Delete(s.roots, i, i+1)
	return true
}

// FindObjectByID scans the roots in order and returns the first object with
// the given id anywhere in the forest, or nil.
func (s *Scene) FindObjectByID(id string) *GameObject {
	for _, r := range s.roots {
		if found := r.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// AllObjects returns every object in pre-order: each root followed by its
// descendants depth-first, roots in declared order.
func (s *Scene) AllObjects() []*GameObject {
	var out []*GameObject
	s.Walk(func(g *GameObject) bool {
		out = append(out, g)
		return true
	})
	return out
}

// Walk visits every object in the same order as AllObjects until fn returns false.
func (s *Scene) Walk(fn func(*GameObject) bool) {
	for _, r := range s.roots {
		if !r.Walk(fn) {
			return
		}
	}
}

// ObjectCount returns the number of objects in the forest.
func (s *Scene) ObjectCount() int {
	n := 0
	s.Walk(func(*GameObject) bool {
		n++
		return true
	})
	return n
}

// Contains reports whether obj belongs to this scene.
func (s *Scene) Contains(obj *GameObject) bool {
	if obj == nil {
		return false
	}
	return slices.Contains(s.roots, obj.Root())
}
