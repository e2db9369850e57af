package render

import (
	"context"
	"time"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/observability"
	"github.com/matzehuels/sceneforge/pkg/scene"
)

// Adapter is the identity-keyed mirror of a domain scene. It is not safe
// for concurrent use.
type Adapter struct {
	root    *Node
	objects map[string]*Node
}

// NewAdapter returns an adapter with an empty render tree.
func NewAdapter() *Adapter {
	root := newGroup("scene")
	root.UpdateWorld(nil)
	return &Adapter{root: root, objects: make(map[string]*Node)}
}

// Root returns the render tree's root. Its children are the nodes of the
// scene's root objects.
func (a *Adapter) Root() *Node { return a.root }

// Len returns the number of mapped objects.
func (a *Adapter) Len() int { return len(a.objects) }

// SyncFromDomain discards the render tree and rebuilds it from s, one node
// per object, mirroring the domain hierarchy. A nil scene leaves the tree
// empty.
func (a *Adapter) SyncFromDomain(s *scene.Scene) {
	start := time.Now()
	a.root.Clear()
	clear(a.objects)

	if s != nil {
		for _, obj := range s.RootObjects() {
			a.root.Add(a.build(obj))
		}
	}
	a.root.UpdateWorld(nil)
	observability.Render().OnSync(context.Background(), len(a.objects), time.Since(start))
}

func (a *Adapter) build(obj *scene.GameObject) *Node {
	n := NewNode(obj.ID(), obj.Name)
	t := obj.Transform
	n.SetTransform(&t.Position, &t.Rotation, &t.Scale)
	a.objects[obj.ID()] = n
	for _, c := range obj.Children() {
		n.Add(a.build(c))
	}
	return n
}

// UpdateObjectTransform sets the non-nil components of the node mapped to
// id, in degrees for rotation, and refreshes its subtree's matrices. It
// reports false when id is not mapped.
func (a *Adapter) UpdateObjectTransform(id string, position, rotation, scale *scene.Vector3) bool {
	n, ok := a.objects[id]
	if !ok {
		return false
	}
	n.SetTransform(position, rotation, scale)
	n.refresh()
	return true
}

// RenderObject returns the node mapped to id.
func (a *Adapter) RenderObject(id string) (*Node, bool) {
	n, ok := a.objects[id]
	return n, ok
}

// RemoveObject detaches the node mapped to id and unmaps it together with
// its descendants. It reports false when id is not mapped.
func (a *Adapter) RemoveObject(id string) bool {
	n, ok := a.objects[id]
	if !ok {
		return false
	}
	n.RemoveFromParent()
	n.Walk(func(c *Node) bool {
		if c.ID != "" {
			delete(a.objects, c.ID)
		}
		return true
	})
	return true
}

// Hit is the result of a successful pick.
type Hit struct {
	// ID is the domain id of the top-level node containing the hit.
	ID string
	// Node is the node whose geometry was hit, possibly a descendant.
	Node     *Node
	Point    math32.Vector3
	Distance float32
}

// Pick casts ray against every visible node and returns the nearest hit.
// The hit is attributed to the top-level ancestor of the node that was hit.
func (a *Adapter) Pick(ray math32.Ray) (Hit, bool) {
	start := time.Now()
	var best Hit
	found := false
	for _, top := range a.root.children {
		top.Walk(func(n *Node) bool {
			if !n.Visible {
				return true
			}
			box := n.WorldBounds()
			if box.IsEmpty() {
				return true
			}
			pt, ok := ray.IntersectBox(box)
			if !ok {
				return true
			}
			d := pt.Sub(ray.Origin).Length()
			if !found || d < best.Distance {
				best = Hit{ID: top.ID, Node: n, Point: pt, Distance: d}
				found = true
			}
			return true
		})
	}
	observability.Render().OnPick(context.Background(), found, time.Since(start))
	return best, found
}

// IDs returns the mapped ids in render-tree pre-order.
func (a *Adapter) IDs() []string {
	ids := make([]string, 0, len(a.objects))
	for _, top := range a.root.children {
		top.Walk(func(n *Node) bool {
			if n.ID != "" {
				ids = append(ids, n.ID)
			}
			return true
		})
	}
	return ids
}
