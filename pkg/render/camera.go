package render

import (
	"cogentcore.org/core/math32"
)

// Camera defaults.
const (
	DefaultFOV  = 60
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position math32.Vector3
	Target   math32.Vector3
	Up       math32.Vector3

	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	// View and Projection are refreshed by Update.
	View       math32.Matrix4
	Projection math32.Matrix4
}

// NewCamera returns a camera at (10, 10, 10) looking at the origin.
func NewCamera(aspect float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	c := &Camera{
		Position: math32.Vec3(10, 10, 10),
		Up:       math32.Vec3(0, 1, 0),
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
	c.Update()
	return c
}

// Update recomputes the view and projection matrices.
func (c *Camera) Update() {
	var look math32.Quat
	look.SetFromRotationMatrix(math32.NewLookAt(c.Position, c.Target, c.Up))
	var pose math32.Matrix4
	pose.SetTransform(c.Position, look, math32.Vec3(1, 1, 1))
	if view, err := pose.Inverse(); err == nil {
		c.View = *view
	}
	c.Projection.SetPerspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// SetAspect changes the aspect ratio, as on a viewport resize.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.Aspect = aspect
	c.Update()
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float32 {
	return c.Position.Sub(c.Target).Length()
}

// Basis returns the camera's forward, right and up unit vectors.
func (c *Camera) Basis() (forward, right, up math32.Vector3) {
	forward = c.Target.Sub(c.Position).Normal()
	right = forward.Cross(c.Up).Normal()
	up = right.Cross(forward).Normal()
	return forward, right, up
}

// Ray returns the world-space ray through a point given in normalized
// device coordinates: x and y in [-1, 1], y pointing up.
func (c *Camera) Ray(ndcX, ndcY float32) math32.Ray {
	forward, right, up := c.Basis()
	tanHalf := math32.Tan(math32.DegToRad(c.FOV * 0.5))
	dir := forward.
		Add(right.MulScalar(ndcX * tanHalf * c.Aspect)).
		Add(up.MulScalar(ndcY * tanHalf))
	return math32.Ray{Origin: c.Position, Dir: dir.Normal()}
}

// Project maps a world point to normalized device coordinates. The
// returned Z is in [-1, 1] for points between the near and far planes.
func (c *Camera) Project(p math32.Vector3) math32.Vector3 {
	var vp math32.Matrix4
	vp.MulMatrices(&c.Projection, &c.View)
	return math32.Vector4FromVector3(p, 1).MulMatrix4(&vp).PerspDiv()
}

// InFront reports whether p lies in front of the camera.
func (c *Camera) InFront(p math32.Vector3) bool {
	forward, _, _ := c.Basis()
	return p.Sub(c.Position).Dot(forward) > c.Near
}

// ToScreen maps a world point to pixel coordinates in a width x height
// viewport, origin top left.
func (c *Camera) ToScreen(p math32.Vector3, width, height int) (x, y float32) {
	ndc := c.Project(p)
	x = (ndc.X + 1) * 0.5 * float32(width)
	y = (1 - ndc.Y) * 0.5 * float32(height)
	return x, y
}

// NDC converts pixel coordinates to normalized device coordinates.
func NDC(x, y float32, width, height int) (float32, float32) {
	return x/float32(width)*2 - 1, -(y/float32(height))*2 + 1
}
