package viewport

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/render"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

// frontView looks at the origin from +Z, so world X is screen right.
func frontView() View {
	cam := render.NewCamera(1)
	cam.Position = math32.Vec3(0, 0, 10)
	cam.Update()
	return View{Camera: cam, Width: 200, Height: 200}
}

func rayDown(x, y float32) math32.Ray {
	return math32.Ray{Origin: math32.Vec3(x, y, 10), Dir: math32.Vec3(0, 0, -1)}
}

func attached(t *testing.T) (*AxisGizmo, *render.Node) {
	t.Helper()
	n := render.NewNode("obj", "Obj")
	n.UpdateWorld(nil)
	g := NewAxisGizmo()
	g.Attach(n)
	return g, n
}

func TestAxisGizmoHitTest(t *testing.T) {
	g, _ := attached(t)

	tests := []struct {
		name string
		ray  math32.Ray
		axis int
	}{
		{"x handle", rayDown(0.8, 0), 0},
		{"y handle", rayDown(0, 1.2), 1},
		{"past the tip", rayDown(2, 0), noAxis},
		{"empty space", rayDown(1, 1), noAxis},
		{"z handle end on", math32.Ray{Origin: math32.Vec3(0.05, 0.05, 10), Dir: math32.Vec3(0, 0, -1)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.hit(tt.ray); got != tt.axis {
				t.Errorf("hit = %d, want %d", got, tt.axis)
			}
			if got := g.HitTest(tt.ray); got != (tt.axis != noAxis) {
				t.Errorf("HitTest = %v", got)
			}
		})
	}

	g.Detach()
	if g.HitTest(rayDown(0.8, 0)) {
		t.Error("detached gizmo reports a hit")
	}
	if g.Node() != nil {
		t.Error("detached gizmo has a node")
	}
}

func TestAxisGizmoTranslate(t *testing.T) {
	view := frontView()

	t.Run("free", func(t *testing.T) {
		g, n := attached(t)
		if !g.BeginDrag(rayDown(0.8, 0)) {
			t.Fatal("BeginDrag missed the x handle")
		}
		// One world unit at distance 10 spans about 17.3 pixels.
		if !g.Drag(30, 0, view) {
			t.Fatal("Drag reported no change")
		}
		if n.Position.X < 1.6 || n.Position.X > 1.9 {
			t.Errorf("Position.X = %v, want about 1.73", n.Position.X)
		}
		if n.Position.Y != 0 || n.Position.Z != 0 {
			t.Errorf("Position = %v, want movement along x only", n.Position)
		}
		g.EndDrag()
		if g.Dragging() {
			t.Error("still dragging after EndDrag")
		}
	})

	t.Run("snapped", func(t *testing.T) {
		g, n := attached(t)
		g.SetSnap(true, 1)
		g.BeginDrag(rayDown(0.8, 0))
		g.Drag(30, 0, view)
		if n.Position.X != 2 {
			t.Errorf("Position.X = %v, want 2", n.Position.X)
		}
	})

	t.Run("child of moved parent", func(t *testing.T) {
		parent := render.NewNode("p", "P")
		parent.Position = math32.Vec3(3, 0, 0)
		child := render.NewNode("c", "C")
		parent.Add(child)
		parent.UpdateWorld(nil)

		g := NewAxisGizmo()
		g.Attach(child)
		if !g.BeginDrag(rayDown(3.8, 0)) {
			t.Fatal("BeginDrag missed the handle at the child's world position")
		}
		g.Drag(30, 0, view)
		if child.Position.X < 1.6 || child.Position.X > 1.9 {
			t.Errorf("local Position.X = %v, want about 1.73", child.Position.X)
		}
	})
}

func TestAxisGizmoRotate(t *testing.T) {
	view := frontView()
	g, n := attached(t)
	g.SetMode(store.ModeRotate)

	g.BeginDrag(rayDown(0.8, 0))
	g.Drag(10, 0, view)
	if want := float32(5 * math32.DegToRadFactor); !near(n.Rotation.X, want, 1e-5) {
		t.Errorf("Rotation.X = %v, want %v", n.Rotation.X, want)
	}
	g.EndDrag()

	n.Rotation = math32.Vector3{}
	g.SetSnap(true, 1)
	g.BeginDrag(rayDown(0.8, 0))
	if g.Drag(10, 0, view) {
		t.Error("5 degree drag changed a snapped rotation")
	}
	if !g.Drag(10, 0, view) {
		t.Error("10 degree drag did not reach the 15 degree step")
	}
	if want := float32(RotationSnap * math32.DegToRadFactor); !near(n.Rotation.X, want, 1e-5) {
		t.Errorf("Rotation.X = %v, want %v", n.Rotation.X, want)
	}
}

func TestAxisGizmoScale(t *testing.T) {
	view := frontView()
	g, n := attached(t)
	g.SetMode(store.ModeScale)

	g.BeginDrag(rayDown(0.8, 0))
	g.Drag(-10000, 0, view)
	if n.Scale.X != minScale {
		t.Errorf("Scale.X = %v, want %v", n.Scale.X, minScale)
	}
	if n.Scale.Y != 1 || n.Scale.Z != 1 {
		t.Errorf("Scale = %v, want only x changed", n.Scale)
	}
}

func TestAxisGizmoLocalSpace(t *testing.T) {
	n := render.NewNode("obj", "Obj")
	n.Rotation = math32.Vec3(0, 0, math32.Pi/2)
	n.UpdateWorld(nil)

	g := NewAxisGizmo()
	g.Attach(n)

	// Global handles ignore the rotation.
	if got := g.hit(rayDown(0.8, 0)); got != 0 {
		t.Errorf("global hit = %d, want x", got)
	}

	g.SetSpace(store.SpaceLocal)
	if got := g.hit(rayDown(0, 0.8)); got != 0 {
		t.Errorf("local hit = %d, want x rotated onto world y", got)
	}
	if !g.BeginDrag(rayDown(0, 0.8)) {
		t.Fatal("BeginDrag missed")
	}
	if d := g.drag.dir; !near(d.Y, 1, 1e-4) || !near(d.X, 0, 1e-4) {
		t.Errorf("drag dir = %v, want world +y", d)
	}
}

func TestAxisGizmoEdit(t *testing.T) {
	view := frontView()

	tests := []struct {
		name string
		mode store.GizmoMode
		want Edit
	}{
		{"translate", store.ModeTranslate, Edit{Mode: store.ModeTranslate, Axis: 0, Amount: 2, Offset: scene.Vec3(2, 0, 0)}},
		{"rotate", store.ModeRotate, Edit{Mode: store.ModeRotate, Axis: 0, Amount: RotationSnap}},
		{"scale", store.ModeScale, Edit{Mode: store.ModeScale, Axis: 0, Amount: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := attached(t)
			g.SetMode(tt.mode)
			g.SetSnap(true, 1)
			if _, ok := g.Edit(); ok {
				t.Fatal("Edit reported a change before any drag")
			}
			if !g.BeginDrag(rayDown(0.8, 0)) {
				t.Fatal("BeginDrag missed the x handle")
			}

			// A mode change during the drag does not reinterpret it.
			g.SetMode(store.ModeTranslate)
			g.Drag(30, 0, view)

			got, ok := g.Edit()
			if !ok || got != tt.want {
				t.Errorf("Edit = %+v %v, want %+v", got, ok, tt.want)
			}
		})
	}
}

func TestAxisGizmoAttachKeepsDragOnRebuiltNode(t *testing.T) {
	view := frontView()
	g, _ := attached(t)
	g.BeginDrag(rayDown(0.8, 0))
	g.Drag(30, 0, view)

	rebuilt := render.NewNode("obj", "Obj")
	rebuilt.UpdateWorld(nil)
	g.Attach(rebuilt)
	if !g.Dragging() || g.Target() != rebuilt {
		t.Fatal("drag lost when the same object's node was rebuilt")
	}
	g.Drag(0, 0, view)
	if rebuilt.Position.X < 1.6 || rebuilt.Position.X > 1.9 {
		t.Errorf("rebuilt Position.X = %v, want the drag re-applied", rebuilt.Position.X)
	}

	other := render.NewNode("other", "Other")
	other.UpdateWorld(nil)
	g.Attach(other)
	if g.Dragging() {
		t.Error("drag survived attaching a different object")
	}
}

func TestAxisGizmoSettings(t *testing.T) {
	g := NewAxisGizmo()
	if g.Mode() != store.ModeTranslate || g.Space() != store.SpaceGlobal {
		t.Errorf("defaults = %v %v", g.Mode(), g.Space())
	}
	g.SetSnap(true, 0.25)
	g.SetSnap(true, 0)
	if on, v := g.Snap(); !on || v != 0.25 {
		t.Errorf("Snap = %v %v, want true 0.25", on, v)
	}
}
