package viewport

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

func newTestController(t *testing.T) (*Controller, *store.App, *scene.GameObject) {
	t.Helper()
	app := store.NewApp(store.Options{})
	if _, err := app.Project.CreateNewProject("Demo"); err != nil {
		t.Fatal(err)
	}
	cube, err := app.Scene.CreateGameObject("Cube", "")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := NewController(app, Options{Width: 200, Height: 200})
	t.Cleanup(func() {
		ctrl.Close()
		_ = app.Close()
	})
	return ctrl, app, cube
}

func TestControllerInstallsAdapter(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	if app.Viewport.Adapter() == nil {
		t.Fatal("adapter not installed")
	}
	if _, ok := ctrl.Adapter().RenderObject(cube.ID()); !ok {
		t.Error("existing scene not synced into the adapter")
	}

	ctrl.Close()
	if app.Viewport.Adapter() != nil {
		t.Error("Close left the adapter installed")
	}
}

func TestControllerClick(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	// Hits on the child are attributed to its top-level parent.
	if _, err := app.Scene.CreateGameObject("Child", cube.ID()); err != nil {
		t.Fatal(err)
	}

	id, ok := ctrl.Click(100, 100)
	if !ok || id != cube.ID() {
		t.Fatalf("Click = %q %v, want %q", id, ok, cube.ID())
	}
	if first, _ := app.Selection.First(); first != cube.ID() {
		t.Errorf("selected %q, want %q", first, cube.ID())
	}
	node, _ := ctrl.Adapter().RenderObject(cube.ID())
	if ctrl.Gizmo().Target() != node {
		t.Error("gizmo not attached to the picked object")
	}

	if _, ok := ctrl.Click(2, 2); ok {
		t.Error("click on empty space hit something")
	}
	if app.Selection.Len() != 0 {
		t.Errorf("selection = %v, want empty after a miss", app.Selection.Selected())
	}
	if ctrl.Gizmo().Target() != nil {
		t.Error("gizmo still attached after a miss")
	}
}

func TestControllerFollowsStores(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	app.Selection.Select(cube.ID())

	if err := app.Scene.RenameObject(cube.ID(), "Box"); err != nil {
		t.Fatal(err)
	}
	node, _ := ctrl.Adapter().RenderObject(cube.ID())
	if ctrl.Gizmo().Target() != node {
		t.Error("gizmo not reattached after resync")
	}

	if err := app.Viewport.SetMode(store.ModeRotate); err != nil {
		t.Fatal(err)
	}
	app.Viewport.SetSnapValue(0.5)
	app.Viewport.SetSnapEnabled(true)
	g := ctrl.Gizmo().(*AxisGizmo)
	if g.Mode() != store.ModeRotate {
		t.Errorf("gizmo mode = %v, want rotate", g.Mode())
	}
	if on, v := g.Snap(); !on || v != 0.5 {
		t.Errorf("gizmo snap = %v %v, want true 0.5", on, v)
	}

	app.Scene.DeleteGameObject(cube.ID())
	if ctrl.Gizmo().Target() != nil {
		t.Error("gizmo still attached to a deleted object")
	}
}

func TestControllerGizmoDragWritesBack(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	cam := ctrl.Camera()
	cam.Position = math32.Vec3(0, 0, 10)
	cam.Update()
	app.Selection.Select(cube.ID())

	// The x handle sits right of the center pixel.
	ctrl.PointerDown(114, 100, ButtonPrimary)
	if !ctrl.Gizmo().Dragging() {
		t.Fatal("press on the x handle did not start a drag")
	}
	if ctrl.Controls().Enabled {
		t.Error("orbit controls enabled during a gizmo drag")
	}

	ctrl.PointerMove(122, 100)
	first := cube.Transform.Position.X
	if first <= 0 {
		t.Errorf("after first move X = %v, want > 0", first)
	}
	ctrl.PointerMove(131, 100)
	if x := cube.Transform.Position.X; x < 0.9 || x > 1.1 {
		t.Errorf("domain X = %v, want about 1", x)
	}
	if cube.Transform.Position.Y != 0 || cube.Transform.Position.Z != 0 {
		t.Errorf("domain position = %v, want x only", cube.Transform.Position)
	}

	ctrl.PointerUp(131, 100)
	if ctrl.Gizmo().Dragging() || !ctrl.Controls().Enabled {
		t.Error("drag state not reset on release")
	}
	if first, _ := app.Selection.First(); first != cube.ID() {
		t.Error("drag release changed the selection")
	}
	if !app.Project.Modified() {
		t.Error("drag did not mark the project modified")
	}
}

// frontController looks at the origin from +Z with cube selected, so its
// x handle lies right of the center pixel.
func frontController(t *testing.T) (*Controller, *store.App, *scene.GameObject) {
	t.Helper()
	ctrl, app, cube := newTestController(t)
	cam := ctrl.Camera()
	cam.Position = math32.Vec3(0, 0, 10)
	cam.Update()
	app.Selection.Select(cube.ID())
	return ctrl, app, cube
}

func TestControllerDragWritesOnlyTheEditedComponent(t *testing.T) {
	rot := scene.Vec3(33.3, 12.7, 0.1)
	scale := scene.Vec3(1.1, 2.3, 0.7)
	pos := scene.Vec3(0.25, 0.5, 0.75)

	tests := []struct {
		name  string
		mode  store.GizmoMode
		check func(t *testing.T, got scene.Transform)
	}{
		{
			name: "translate",
			mode: store.ModeTranslate,
			check: func(t *testing.T, got scene.Transform) {
				if got.Position.X <= pos.X || got.Position.Y != pos.Y || got.Position.Z != pos.Z {
					t.Errorf("position = %v, want x moved from %v", got.Position, pos)
				}
				if got.Rotation != rot || got.Scale != scale {
					t.Errorf("rotation, scale = %v, %v; want exactly %v, %v", got.Rotation, got.Scale, rot, scale)
				}
			},
		},
		{
			name: "rotate",
			mode: store.ModeRotate,
			check: func(t *testing.T, got scene.Transform) {
				if want := rot.WithComponent(0, rot.X+RotationSnap); got.Rotation != want {
					t.Errorf("rotation = %v, want exactly %v", got.Rotation, want)
				}
				if got.Position != pos || got.Scale != scale {
					t.Errorf("position, scale = %v, %v; want exactly %v, %v", got.Position, got.Scale, pos, scale)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, app, cube := frontController(t)
			if err := app.Viewport.SetMode(tt.mode); err != nil {
				t.Fatal(err)
			}
			app.Viewport.SetSnapEnabled(tt.mode == store.ModeRotate)
			app.Scene.UpdateObjectTransform(cube.ID(), &pos, &rot, &scale)

			// A point on the x handle, which starts at the object's position.
			x, y := ctrl.Camera().ToScreen(math32.Vec3(1.05, 0.5, 0.75), 200, 200)
			ctrl.PointerDown(x, y, ButtonPrimary)
			if !ctrl.Gizmo().Dragging() {
				t.Fatal("press on the x handle did not start a drag")
			}
			ctrl.PointerMove(x+10, y)
			ctrl.PointerMove(x+20, y)
			ctrl.PointerUp(x+20, y)

			tt.check(t, cube.Transform)
		})
	}
}

func TestControllerDragSurvivesResync(t *testing.T) {
	ctrl, app, cube := frontController(t)

	ctrl.PointerDown(114, 100, ButtonPrimary)
	ctrl.PointerMove(122, 100)
	if err := app.Scene.RenameObject(cube.ID(), "Box"); err != nil {
		t.Fatal(err)
	}
	if !ctrl.Gizmo().Dragging() {
		t.Fatal("drag ended by a resync of the dragged object")
	}
	if ctrl.Controls().Enabled {
		t.Error("orbit controls re-enabled during the drag")
	}

	camera := ctrl.Camera().Position
	ctrl.PointerMove(131, 100)
	if x := cube.Transform.Position.X; x < 0.9 || x > 1.1 {
		t.Errorf("domain X = %v, want about 1", x)
	}
	ctrl.Tick()
	if ctrl.Camera().Position != camera {
		t.Error("camera moved during the drag")
	}
	ctrl.PointerUp(131, 100)
	if !ctrl.Controls().Enabled {
		t.Error("orbit controls not restored on release")
	}
}

func TestControllerDragTargetDeleted(t *testing.T) {
	ctrl, app, cube := frontController(t)

	ctrl.PointerDown(114, 100, ButtonPrimary)
	app.Scene.DeleteGameObject(cube.ID())

	camera := ctrl.Camera().Position
	ctrl.PointerMove(160, 130)
	if ctrl.Controls().Enabled {
		t.Error("orbit controls enabled before release")
	}
	ctrl.Tick()
	if ctrl.Camera().Position != camera {
		t.Error("rest of the gesture orbited the camera")
	}
	ctrl.PointerUp(160, 130)
	if !ctrl.Controls().Enabled {
		t.Error("orbit controls not restored on release")
	}
}

func TestControllerOrbitIsNotAClick(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	app.Selection.Select(cube.ID())
	start := ctrl.Camera().Position

	ctrl.PointerDown(10, 10, ButtonPrimary)
	ctrl.PointerMove(60, 30)
	ctrl.PointerUp(60, 30)

	if app.Selection.Len() != 1 {
		t.Error("orbit gesture was treated as a click")
	}
	if !ctrl.Tick() {
		t.Fatal("Tick = false after an orbit gesture")
	}
	if ctrl.Camera().Position == start {
		t.Error("camera did not move")
	}
}

func TestControllerFocusAndResize(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	pos := scene.Vec3(4, 0, 0)
	app.Scene.UpdateObjectTransform(cube.ID(), &pos, nil, nil)

	if ctrl.Focus() {
		t.Error("Focus with an empty selection = true")
	}
	app.Selection.Select(cube.ID())
	if !ctrl.Focus() {
		t.Fatal("Focus = false")
	}
	if got := ctrl.Camera().Target; got != math32.Vec3(4, 0, 0) {
		t.Errorf("Target = %v, want (4, 0, 0)", got)
	}

	ctrl.Resize(400, 100)
	if w, h := ctrl.Size(); w != 400 || h != 100 {
		t.Errorf("Size = %d x %d", w, h)
	}
	if ctrl.Camera().Aspect != 4 {
		t.Errorf("Aspect = %v, want 4", ctrl.Camera().Aspect)
	}
}

func TestControllerFramePNG(t *testing.T) {
	ctrl, app, cube := newTestController(t)
	app.Selection.Select(cube.ID())

	var buf bytes.Buffer
	if err := ctrl.FramePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("frame size = %v", b)
	}
}

func TestControllerRun(t *testing.T) {
	app := store.NewApp(store.Options{})
	defer app.Close()
	ctrl := NewController(app, Options{Width: 100, Height: 100, FPS: 200})
	defer ctrl.Close()

	ctrl.Controls().Rotate(50, 0)
	start := ctrl.Camera().Position

	loop := store.NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()
	if err := ctrl.Run(ctx, loop); err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-loopDone

	if ctrl.Camera().Position == start {
		t.Error("Run never ticked the controls")
	}
}
