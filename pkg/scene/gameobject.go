package scene

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrSelfParent is returned by [GameObject.AddChild] when an object is
	// asked to become its own child.
	ErrSelfParent = errors.New("object cannot be its own parent")

	// ErrCycle is returned by [GameObject.AddChild] when the child is an
	// ancestor of the receiver. Accepting it would turn the tree into a cycle.
	ErrCycle = errors.New("object cannot be parented to its own descendant")

	// ErrNilObject is returned when a nil object is passed where one is required.
	ErrNilObject = errors.New("nil game object")
)

// maxDepth bounds ancestor walks. A tree deeper than this is treated as
// corrupt rather than walked forever.
const maxDepth = 1 << 16

// NewID returns a fresh identifier for objects, scenes and projects.
func NewID() string {
	return uuid.NewString()
}

// GameObject is a node of the scene tree.
//
// The id is assigned at construction and never changes. Children are owned
// exclusively and kept in insertion order; parent is a non-owning back
// reference that is nil for scene roots.
type GameObject struct {
	Name      string
	Transform Transform

	id       string
	tags     []string
	children []*GameObject
	parent   *GameObject
}

// NewGameObject creates an object with a fresh id and the identity transform.
func NewGameObject(name string) *GameObject {
	return newGameObject(NewID(), name)
}

func newGameObject(id, name string) *GameObject {
	return &GameObject{
		Name:      name,
		Transform: NewTransform(),
		id:        id,
	}
}

// ID returns the object's identifier.
func (g *GameObject) ID() string { return g.id }

// Parent returns the parent object, or nil for a scene root.
func (g *GameObject) Parent() *GameObject { return g.parent }

// Children returns a copy of the ordered child list.
func (g *GameObject) Children() []*GameObject { return slices.Clone(g.children) }

// ChildCount returns the number of direct children.
func (g *GameObject) ChildCount() int { return len(g.children) }

// Depth returns 0 for a root and the number of ancestors otherwise.
func (g *GameObject) Depth() int {
	d := 0
	for p := g.parent; p != nil && d < maxDepth; p = p.parent {
		d++
	}
	return d
}

// Root returns the top-level ancestor of g (g itself for a root).
func (g *GameObject) Root() *GameObject {
	r := g
	for i := 0; r.parent != nil && i < maxDepth; i++ {
		r = r.parent
	}
	return r
}

// IsAncestorOf reports whether g appears on the parent chain of other.
func (g *GameObject) IsAncestorOf(other *GameObject) bool {
	if other == nil {
		return false
	}
	p := other.parent
	for i := 0; p != nil; i++ {
		if p == g || i >= maxDepth {
			return true
		}
		p = p.parent
	}
	return false
}

// AddChild appends child to g's children and sets its parent to g.
//
// A child that already has a parent is detached from it first. AddChild
// returns [ErrSelfParent] or [ErrCycle] and changes nothing if the move would
// break the tree. If child is a scene root, the caller must also remove it
// from the scene's root list.
func (g *GameObject) AddChild(child *GameObject) error {
	if child == nil {
		return ErrNilObject
	}
	if child == g {
		return ErrSelfParent
	}
	if child.IsAncestorOf(g) {
		return ErrCycle
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	g.children = append(g.children, child)
	child.parent = g
	return nil
}

// RemoveChild removes child by identity and clears its parent.
// It returns false, changing nothing, if child is not a direct child of g.
func (g *GameObject) RemoveChild(child *GameObject) bool {
	i := slices.Index(g.children, child)
	if i < 0 {
		return false
	}
	g.children = slices.Delete(g.children, i, i+1)
	child.parent = nil
	return true
}

// FindByID searches g and its descendants depth-first and returns the first
// object with the given id, or nil.
func (g *GameObject) FindByID(id string) *GameObject {
	if g.id == id {
		return g
	}
	for _, c := range g.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits g and its descendants in pre-order. It stops as soon as fn
// returns false and reports whether the walk ran to completion.
func (g *GameObject) Walk(fn func(*GameObject) bool) bool {
	if !fn(g) {
		return false
	}
	for _, c := range g.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Tags returns a copy of the tag list in insertion order.
func (g *GameObject) Tags() []string { return slices.Clone(g.tags) }

// HasTag reports whether tag is attached to g.
func (g *GameObject) HasTag(tag string) bool { return slices.Contains(g.tags, tag) }

// AddTag attaches tag and reports whether it was added.
// Adding a tag that is already present does nothing.
func (g *GameObject) AddTag(tag string) bool {
	if g.HasTag(tag) {
		return false
	}
	g.tags = append(g.tags, tag)
	return true
}

// RemoveTag detaches tag and reports whether it was present.
func (g *GameObject) RemoveTag(tag string) bool {
	i := slices.Index(g.tags, tag)
	if i < 0 {
		return false
	}
	g.tags = slices.Delete(g.tags, i, i+1)
	return true
}

// Clone returns a detached deep copy of g's subtree. Every object in the copy
// gets a fresh id; names, transforms and tags are preserved.
func (g *GameObject) Clone() *GameObject {
	data := g.Data()
	data.StripIDs()
	return GameObjectFromData(data)
}
