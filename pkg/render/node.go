package render

import (
	"slices"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/scene"
)

// PlaceholderColor is the fill of the cube every object is drawn as.
const PlaceholderColor = "#4488ff"

// Node is one element of the render tree.
type Node struct {
	// ID is the domain object id, empty for helper nodes such as the root.
	ID   string
	Name string

	// Pose relative to the parent. Rotation holds Euler angles in radians.
	Position math32.Vector3
	Rotation math32.Vector3
	Scale    math32.Vector3

	// Bounds is the local bounding box of the node's own geometry.
	Bounds  math32.Box3
	Color   string
	Visible bool

	// Axes, when positive, draws X, Y and Z handles of this length from
	// the node's origin. Gizmos use it.
	Axes float32

	// Matrix is the local transform; WorldMatrix includes every ancestor.
	// Both are refreshed by UpdateWorld.
	Matrix      math32.Matrix4
	WorldMatrix math32.Matrix4

	parent   *Node
	children []*Node
}

// NewNode returns a visible node with unit scale and a unit cube as its
// placeholder geometry.
func NewNode(id, name string) *Node {
	n := &Node{
		ID:      id,
		Name:    name,
		Scale:   math32.Vec3(1, 1, 1),
		Bounds:  math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5),
		Color:   PlaceholderColor,
		Visible: true,
	}
	n.Matrix.SetIdentity()
	n.WorldMatrix.SetIdentity()
	return n
}

// newGroup returns a node without geometry.
func newGroup(name string) *Node {
	n := NewNode("", name)
	n.Bounds = math32.B3Empty()
	return n
}

// Parent returns the parent node, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Add appends child, detaching it from its previous parent.
func (n *Node) Add(child *Node) {
	child.RemoveFromParent()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child and reports whether it was a child of n.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Clear detaches every child.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// SetTransform copies a domain transform, converting rotation from degrees
// to radians. Nil components are left unchanged. Call UpdateWorld
// afterwards to refresh the matrices.
func (n *Node) SetTransform(position, rotation, scale *scene.Vector3) {
	if position != nil {
		n.Position = toVec3(*position)
	}
	if rotation != nil {
		n.Rotation = toVec3(*rotation).MulScalar(math32.DegToRadFactor)
	}
	if scale != nil {
		n.Scale = toVec3(*scale)
	}
}

// Transform converts the node's pose back into a domain transform, with
// rotation in degrees.
func (n *Node) Transform() scene.Transform {
	return scene.Transform{
		Position: fromVec3(n.Position),
		Rotation: fromVec3(n.Rotation.MulScalar(math32.RadToDegFactor)),
		Scale:    fromVec3(n.Scale),
	}
}

// UpdateMatrix recomputes the local matrix from the pose.
func (n *Node) UpdateMatrix() {
	n.Matrix.SetTransform(n.Position, math32.NewQuatEuler(n.Rotation), n.Scale)
}

// UpdateWorld recomputes the local and world matrices of n and its
// subtree. parentWorld is nil for a root.
func (n *Node) UpdateWorld(parentWorld *math32.Matrix4) {
	n.UpdateMatrix()
	if parentWorld == nil {
		n.WorldMatrix = n.Matrix
	} else {
		n.WorldMatrix.MulMatrices(parentWorld, &n.Matrix)
	}
	for _, c := range n.children {
		c.UpdateWorld(&n.WorldMatrix)
	}
}

// refresh recomputes n's matrices in place, using its parent's current
// world matrix.
func (n *Node) refresh() {
	if n.parent == nil {
		n.UpdateWorld(nil)
		return
	}
	n.UpdateWorld(&n.parent.WorldMatrix)
}

// WorldBounds returns the node's own geometry bounds in world space.
// Nodes without geometry return an empty box.
func (n *Node) WorldBounds() math32.Box3 {
	if n.Bounds.IsEmpty() {
		return n.Bounds
	}
	return n.Bounds.MulMatrix4(&n.WorldMatrix)
}

// SubtreeBounds returns the union of the world bounds of n and all its
// visible descendants.
func (n *Node) SubtreeBounds() math32.Box3 {
	box := math32.B3Empty()
	n.Walk(func(c *Node) bool {
		if !c.Visible {
			return true
		}
		if b := c.WorldBounds(); !b.IsEmpty() {
			box.ExpandByBox(b)
		}
		return true
	})
	return box
}

// WorldCorners returns the eight corners of the node's geometry bounds in
// world space, following the node's rotation.
func (n *Node) WorldCorners() [8]math32.Vector3 {
	var out [8]math32.Vector3
	b := n.Bounds
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = n.ToWorld(c)
	}
	return out
}

// ToWorld transforms a point from the node's local space to world space.
func (n *Node) ToWorld(p math32.Vector3) math32.Vector3 {
	return math32.Vector4FromVector3(p, 1).MulMatrix4(&n.WorldMatrix).PerspDiv()
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() math32.Vector3 {
	return math32.Vec3(n.WorldMatrix[12], n.WorldMatrix[13], n.WorldMatrix[14])
}

func toVec3(v scene.Vector3) math32.Vector3 {
	return math32.Vec3(float32(v.X), float32(v.Y), float32(v.Z))
}

func fromVec3(v math32.Vector3) scene.Vector3 {
	return scene.Vec3(float64(v.X), float64(v.Y), float64(v.Z))
}
