package viewport

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/render"
)

func near(a, b, eps float32) bool { return math32.Abs(a-b) <= eps }

func TestOrbitControlsRotateKeepsDistance(t *testing.T) {
	cam := render.NewCamera(1)
	o := NewOrbitControls(cam)
	o.Damping = 0

	start := cam.Position
	dist := cam.Distance()
	o.Rotate(40, 20)
	if !o.Update() {
		t.Fatal("Update = false, want true")
	}
	if cam.Position == start {
		t.Error("camera did not move")
	}
	if !near(cam.Distance(), dist, 1e-3) {
		t.Errorf("Distance = %v, want %v", cam.Distance(), dist)
	}
	if o.Moving() {
		t.Error("undamped controls still moving after one update")
	}
	if o.Update() {
		t.Error("second Update = true, want false")
	}
}

func TestOrbitControlsDamping(t *testing.T) {
	cam := render.NewCamera(1)
	o := NewOrbitControls(cam)

	o.Zoom(5) // 50% further away
	dist := cam.Distance()
	o.Update()
	first := cam.Distance() - dist
	if want := dist * 0.5 * DefaultDamping; !near(first, want, 1e-3) {
		t.Errorf("first step = %v, want %v", first, want)
	}

	frames := 1
	for o.Update() {
		frames++
		if frames > 1000 {
			t.Fatal("damped motion never settles")
		}
	}
	if frames < 10 {
		t.Errorf("settled after %d frames, want a gradual ease out", frames)
	}
}

func TestOrbitControlsDisabled(t *testing.T) {
	cam := render.NewCamera(1)
	o := NewOrbitControls(cam)
	o.Damping = 0

	o.Rotate(10, 10)
	o.Enabled = false
	o.Pan(10, 10)
	start := cam.Position
	if o.Update() {
		t.Error("disabled Update = true")
	}
	if cam.Position != start {
		t.Error("disabled controls moved the camera")
	}
	o.Enabled = true
	if o.Update() {
		t.Error("motion queued before disabling survived")
	}
}

func TestOrbitControlsPanAndZoomLimits(t *testing.T) {
	cam := render.NewCamera(1)
	o := NewOrbitControls(cam)
	o.Damping = 0

	offset := cam.Position.Sub(cam.Target)
	o.Pan(100, 0)
	o.Update()
	if cam.Target == (math32.Vector3{}) {
		t.Error("pan did not move the target")
	}
	if got := cam.Position.Sub(cam.Target); !near(got.Sub(offset).Length(), 0, 1e-3) {
		t.Errorf("pan changed the view offset: %v, want %v", got, offset)
	}

	o.Zoom(-100)
	o.Update()
	if !near(cam.Distance(), o.MinDistance, 1e-3) {
		t.Errorf("Distance = %v, want MinDistance %v", cam.Distance(), o.MinDistance)
	}
}

func TestOrbitControlsPoles(t *testing.T) {
	cam := render.NewCamera(1)
	o := NewOrbitControls(cam)
	o.Damping = 0

	// Dragging far down would tilt past straight above the target.
	o.Rotate(0, 1000)
	o.Update()
	dir := cam.Position.Sub(cam.Target).Normal()
	if dir.Y < 0.99 {
		t.Errorf("dir = %v, want the camera right above the target", dir)
	}
	if dir.X <= 0 || dir.Z <= 0 {
		t.Errorf("dir = %v, camera flipped over the pole", dir)
	}
}
