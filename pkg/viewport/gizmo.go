package viewport

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/render"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

// Gizmo is an on-screen handle for moving, rotating and scaling the
// selected render node.
type Gizmo interface {
	// Attach targets n, ending any drag on a previous target. A drag
	// continues when n is a rebuilt node for the object being dragged.
	Attach(n *render.Node)
	Detach()
	// Target returns the attached node, or nil.
	Target() *render.Node

	SetMode(mode store.GizmoMode)
	SetSpace(space store.Space)
	SetSnap(enabled bool, value float64)

	// Node returns the gizmo's own render node, placed at the target, or
	// nil while detached. It is drawn as an overlay, never part of the
	// mirrored scene.
	Node() *render.Node

	// HitTest reports whether ray hits one of the handles.
	HitTest(ray math32.Ray) bool

	// BeginDrag starts a drag on the handle under ray and reports whether
	// there was one.
	BeginDrag(ray math32.Ray) bool
	// Drag applies a pointer movement of dx, dy pixels to the target and
	// reports whether its pose changed.
	Drag(dx, dy float32, view View) bool
	// Edit returns the change the current drag made, relative to the
	// pose the target had when it began.
	Edit() (Edit, bool)
	EndDrag()
	Dragging() bool
}

// Edit is a drag's change in domain units. Only the component of Axis
// that Mode acts on changes.
type Edit struct {
	Mode store.GizmoMode
	Axis int

	// Amount is in degrees when rotating and in scale units when scaling.
	Amount float64

	// Offset is the translation in the parent's space.
	Offset scene.Vector3
}

// View is the camera and viewport size that pointer movement is measured
// in.
type View struct {
	Camera *render.Camera
	Width  int
	Height int
}

// Axis gizmo defaults.
const (
	DefaultGizmoSize = 1.5

	// RotationSnap is the rotation step, in degrees, while snapping.
	RotationSnap = 15

	gizmoRotateSpeed = 0.5 // degrees per pixel
	minScale         = 0.01
)

const noAxis = -1

var unitAxes = [3]math32.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// AxisGizmo has one handle per axis. Dragging a handle moves, rotates or
// scales the target along that axis depending on the mode. Handles follow
// the target's orientation in local space and in scale mode, and stay
// world-aligned otherwise.
type AxisGizmo struct {
	Size float32

	mode      store.GizmoMode
	space     store.Space
	snap      bool
	snapValue float32

	target *render.Node
	node   *render.Node
	drag   *gizmoDrag
}

// gizmoDrag records the target's pose when the drag began; every Drag
// re-applies the accumulated motion to that pose.
type gizmoDrag struct {
	mode   store.GizmoMode
	axis   int
	dir    math32.Vector3
	origin math32.Vector3
	amount float32

	// applied is the snapped amount last applied; offset is the matching
	// parent-space translation.
	applied float32
	offset  math32.Vector3

	position math32.Vector3
	rotation math32.Vector3
	scale    math32.Vector3
}

var _ Gizmo = (*AxisGizmo)(nil)

// NewAxisGizmo returns a detached gizmo in translate mode, global space.
func NewAxisGizmo() *AxisGizmo {
	node := render.NewNode("", "gizmo")
	node.Bounds = math32.B3Empty()
	return &AxisGizmo{
		Size:      DefaultGizmoSize,
		mode:      store.ModeTranslate,
		space:     store.SpaceGlobal,
		snapValue: store.DefaultSnapValue,
		node:      node,
	}
}

func (g *AxisGizmo) Attach(n *render.Node) {
	if n == g.target {
		return
	}
	if g.drag == nil || g.target == nil || n == nil || n.ID == "" || n.ID != g.target.ID {
		g.drag = nil
	}
	g.target = n
}

func (g *AxisGizmo) Detach() {
	g.drag = nil
	g.target = nil
}

func (g *AxisGizmo) Target() *render.Node { return g.target }

func (g *AxisGizmo) SetMode(mode store.GizmoMode) { g.mode = mode }

// Mode returns the current mode.
func (g *AxisGizmo) Mode() store.GizmoMode { return g.mode }

func (g *AxisGizmo) SetSpace(space store.Space) { g.space = space }

// Space returns the current space.
func (g *AxisGizmo) Space() store.Space { return g.space }

// SetSnap turns snapping on or off. Translation and scale snap to
// multiples of value; rotation snaps to RotationSnap degrees. A
// non-positive value keeps the previous one.
func (g *AxisGizmo) SetSnap(enabled bool, value float64) {
	g.snap = enabled
	if value > 0 {
		g.snapValue = float32(value)
	}
}

// Snap returns whether snapping is on and the step used for translation
// and scale.
func (g *AxisGizmo) Snap() (bool, float32) { return g.snap, g.snapValue }

func (g *AxisGizmo) Node() *render.Node {
	if g.target == nil {
		return nil
	}
	g.place()
	return g.node
}

// place moves the gizmo node onto the target's world position.
func (g *AxisGizmo) place() {
	pos, quat, _ := g.target.WorldMatrix.Decompose()
	g.node.Position = pos
	g.node.Rotation = math32.Vector3{}
	if g.oriented() {
		g.node.Rotation = quat.ToEuler()
	}
	g.node.Axes = g.Size
	g.node.UpdateWorld(nil)
}

func (g *AxisGizmo) oriented() bool {
	return g.space == store.SpaceLocal || g.mode == store.ModeScale
}

func (g *AxisGizmo) HitTest(ray math32.Ray) bool {
	return g.hit(ray) != noAxis
}

// hit returns the nearest handle under ray, or noAxis.
func (g *AxisGizmo) hit(ray math32.Ray) int {
	node := g.Node()
	if node == nil {
		return noAxis
	}
	inv, err := node.WorldMatrix.Inverse()
	if err != nil {
		return noAxis
	}
	local := math32.Ray{
		Origin: ray.Origin.MulMatrix4AsVector4(inv, 1),
		Dir:    ray.Dir.MulMatrix4AsVector4(inv, 0).Normal(),
	}

	best, bestDist := noAxis, float32(0)
	for axis := range unitAxes {
		pt, ok := local.IntersectBox(g.handleBox(axis))
		if !ok {
			continue
		}
		d := pt.Sub(local.Origin).Length()
		if best == noAxis || d < bestDist {
			best, bestDist = axis, d
		}
	}
	return best
}

// handleBox is the pickable volume of one handle in gizmo space.
func (g *AxisGizmo) handleBox(axis int) math32.Box3 {
	h := g.Size * 0.08
	box := math32.B3(-h, -h, -h, h, h, h)
	box.Min = withDim(box.Min, axis, g.Size*0.1)
	box.Max = withDim(box.Max, axis, g.Size*1.15)
	return box
}

func (g *AxisGizmo) BeginDrag(ray math32.Ray) bool {
	axis := g.hit(ray)
	if axis == noAxis {
		return false
	}
	t := g.target
	g.drag = &gizmoDrag{
		mode:     g.mode,
		axis:     axis,
		dir:      unitAxes[axis].MulMatrix4AsVector4(&g.node.WorldMatrix, 0).Normal(),
		origin:   g.node.WorldPosition(),
		position: t.Position,
		rotation: t.Rotation,
		scale:    t.Scale,
	}
	return true
}

func (g *AxisGizmo) Drag(dx, dy float32, view View) bool {
	d := g.drag
	if d == nil || g.target == nil {
		return false
	}
	switch d.mode {
	case store.ModeRotate:
		d.amount += (dx - dy) * gizmoRotateSpeed
	default:
		d.amount += screenAlong(view, d.origin, d.dir, dx, dy)
	}

	t := g.target
	before := [3]math32.Vector3{t.Position, t.Rotation, t.Scale}
	g.apply()
	return before != [3]math32.Vector3{t.Position, t.Rotation, t.Scale}
}

// apply sets the target's pose to its drag-start pose plus the
// accumulated drag.
func (g *AxisGizmo) apply() {
	d, t := g.drag, g.target
	t.Position, t.Rotation, t.Scale = d.position, d.rotation, d.scale

	switch d.mode {
	case store.ModeRotate:
		deg := d.amount
		if g.snap {
			deg = snapTo(deg, RotationSnap)
		}
		d.applied = deg
		t.Rotation = withDim(t.Rotation, d.axis, dim(t.Rotation, d.axis)+deg*math32.DegToRadFactor)
	case store.ModeScale:
		amount := d.amount
		if g.snap {
			amount = snapTo(amount, g.snapValue)
		}
		d.applied = amount
		t.Scale = withDim(t.Scale, d.axis, max(dim(t.Scale, d.axis)+amount, minScale))
	default:
		amount := d.amount
		if g.snap {
			amount = snapTo(amount, g.snapValue)
		}
		delta := d.dir.MulScalar(amount)
		if p := t.Parent(); p != nil {
			if inv, err := p.WorldMatrix.Inverse(); err == nil {
				delta = delta.MulMatrix4AsVector4(inv, 0)
			}
		}
		d.applied, d.offset = amount, delta
		t.Position = t.Position.Add(delta)
	}

	if p := t.Parent(); p != nil {
		t.UpdateWorld(&p.WorldMatrix)
	} else {
		t.UpdateWorld(nil)
	}
}

func (g *AxisGizmo) Edit() (Edit, bool) {
	d := g.drag
	if d == nil {
		return Edit{}, false
	}
	return Edit{
		Mode:   d.mode,
		Axis:   d.axis,
		Amount: float64(d.applied),
		Offset: scene.Vec3(float64(d.offset.X), float64(d.offset.Y), float64(d.offset.Z)),
	}, true
}

func (g *AxisGizmo) EndDrag() { g.drag = nil }

func (g *AxisGizmo) Dragging() bool { return g.drag != nil }

// screenAlong converts a pointer movement into world units along dir, by
// measuring how far one unit of dir spans on screen.
func screenAlong(view View, origin, dir math32.Vector3, dx, dy float32) float32 {
	cam := view.Camera
	tip := origin.Add(dir)
	if cam == nil || !cam.InFront(origin) || !cam.InFront(tip) {
		return 0
	}
	ax, ay := cam.ToScreen(origin, view.Width, view.Height)
	bx, by := cam.ToScreen(tip, view.Width, view.Height)
	sx, sy := bx-ax, by-ay
	l2 := sx*sx + sy*sy
	if l2 < 1e-6 {
		return 0
	}
	return (dx*sx + dy*sy) / l2
}

func snapTo(v, step float32) float32 {
	if step <= 0 {
		return v
	}
	return float32(math.Round(float64(v/step))) * step
}

func dim(v math32.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func withDim(v math32.Vector3, axis int, x float32) math32.Vector3 {
	switch axis {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}
