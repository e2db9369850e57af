package viewport

import (
	"cogentcore.org/core/math32"

	"github.com/matzehuels/sceneforge/pkg/render"
)

// Orbit control defaults.
const (
	DefaultDamping     = 0.05
	DefaultRotateSpeed = 0.5   // degrees per pixel
	DefaultPanSpeed    = 0.002 // target distances per pixel
	DefaultZoomSpeed   = 0.1   // fraction of the distance per wheel step
)

// minPolar is the closest angle, in radians, the view direction gets to
// the up vector; the camera never tilts over the poles.
const minPolar = 0.01

// settleEpsilon is the pending motion below which damping stops.
const settleEpsilon = 1e-4

// OrbitControls moves a camera around its target.
//
// Input methods queue motion; Update applies it. With damping, each Update
// applies the Damping fraction of what is pending, so motion eases out
// over several frames.
type OrbitControls struct {
	Camera  *render.Camera
	Enabled bool

	// Damping is the fraction of pending motion applied per Update. Zero
	// applies everything at once.
	Damping float32

	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32

	MinDistance float32
	MaxDistance float32

	orbitX, orbitY float32
	panX, panY     float32
	zoom           float32
}

// NewOrbitControls returns enabled, damped controls for cam.
func NewOrbitControls(cam *render.Camera) *OrbitControls {
	return &OrbitControls{
		Camera:      cam,
		Enabled:     true,
		Damping:     DefaultDamping,
		RotateSpeed: DefaultRotateSpeed,
		PanSpeed:    DefaultPanSpeed,
		ZoomSpeed:   DefaultZoomSpeed,
		MinDistance: 0.5,
		MaxDistance: 500,
	}
}

// Rotate queues an orbit for a pointer movement of dx, dy pixels.
func (o *OrbitControls) Rotate(dx, dy float32) {
	if !o.Enabled {
		return
	}
	o.orbitX -= dx * o.RotateSpeed
	o.orbitY -= dy * o.RotateSpeed
}

// Pan queues a sideways move of camera and target for a pointer movement
// of dx, dy pixels.
func (o *OrbitControls) Pan(dx, dy float32) {
	if !o.Enabled {
		return
	}
	o.panX += dx
	o.panY += dy
}

// Zoom queues a dolly for delta wheel steps. Positive steps move away
// from the target.
func (o *OrbitControls) Zoom(delta float32) {
	if !o.Enabled {
		return
	}
	o.zoom += delta * o.ZoomSpeed
}

// Moving reports whether motion is pending.
func (o *OrbitControls) Moving() bool {
	return math32.Abs(o.orbitX) > settleEpsilon || math32.Abs(o.orbitY) > settleEpsilon ||
		math32.Abs(o.panX) > settleEpsilon || math32.Abs(o.panY) > settleEpsilon ||
		math32.Abs(o.zoom) > settleEpsilon
}

// Stop drops pending motion.
func (o *OrbitControls) Stop() {
	o.orbitX, o.orbitY, o.panX, o.panY, o.zoom = 0, 0, 0, 0, 0
}

// Update applies pending motion to the camera and reports whether it
// moved. Disabled controls drop pending motion.
func (o *OrbitControls) Update() bool {
	if !o.Enabled || !o.Moving() {
		o.Stop()
		return false
	}

	f := float32(1)
	if o.Damping > 0 && o.Damping < 1 {
		f = o.Damping
	}
	ox, oy := o.orbitX*f, o.orbitY*f
	px, py := o.panX*f, o.panY*f
	z := o.zoom * f

	o.orbit(ox, oy)
	o.pan(px, py)
	o.dolly(z)
	o.Camera.Update()

	o.orbitX -= ox
	o.orbitY -= oy
	o.panX -= px
	o.panY -= py
	o.zoom -= z
	return true
}

// orbit rotates the camera around its target by delX degrees about the up
// vector and delY degrees about the camera's right vector.
func (o *OrbitControls) orbit(delX, delY float32) {
	c := o.Camera
	view := c.Position.Sub(c.Target)
	if view.Length() == 0 {
		view = math32.Vec3(0, 0, 1)
	}
	up := c.Up.Normal()

	next := view.MulQuat(math32.NewQuatAxisAngle(up, math32.DegToRad(delX)))
	right := up.Cross(next.Normal()).Normal()

	// A positive turn about right moves the camera away from up.
	phi := math32.Acos(min(max(next.Normal().Dot(up), -1), 1))
	tilt := min(max(phi+math32.DegToRad(delY), minPolar), math32.Pi-minPolar) - phi
	next = next.MulQuat(math32.NewQuatAxisAngle(right, tilt))
	c.Position = c.Target.Add(next)
}

func (o *OrbitControls) pan(dx, dy float32) {
	c := o.Camera
	_, right, up := c.Basis()
	scale := c.Distance() * o.PanSpeed
	td := right.MulScalar(-dx * scale).Add(up.MulScalar(dy * scale))
	c.Position.SetAdd(td)
	c.Target.SetAdd(td)
}

func (o *OrbitControls) dolly(pct float32) {
	if pct == 0 {
		return
	}
	c := o.Camera
	view := c.Position.Sub(c.Target)
	dist := view.Length()
	if dist == 0 {
		return
	}
	next := dist * (1 + pct)
	next = max(next, o.MinDistance)
	if o.MaxDistance > 0 {
		next = min(next, o.MaxDistance)
	}
	c.Position = c.Target.Add(view.MulScalar(next / dist))
}
