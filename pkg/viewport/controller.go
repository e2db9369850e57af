package viewport

import (
	"context"
	"errors"
	"image"
	"io"
	"time"

	"cogentcore.org/core/math32"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sceneforge/pkg/render"
	"github.com/matzehuels/sceneforge/pkg/render/raster"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

var _ store.SceneAdapter = (*render.Adapter)(nil)

// Button identifies a pointer button.
type Button int

const (
	// ButtonPrimary picks, drags the gizmo and orbits.
	ButtonPrimary Button = iota
	// ButtonSecondary pans.
	ButtonSecondary
)

// DefaultFPS is the tick rate of Run.
const DefaultFPS = 60

// clickSlop is how far, in pixels, the pointer may travel between press
// and release for the gesture to still count as a click.
const clickSlop = 4

// Options configures a Controller.
type Options struct {
	Width  int
	Height int
	FPS    int

	// Gizmo defaults to an AxisGizmo.
	Gizmo Gizmo

	// Logger defaults to the app's logger.
	Logger *log.Logger
}

// Controller connects pointer input, the camera, the gizmo and the stores
// of one App.
type Controller struct {
	app      *store.App
	adapter  *render.Adapter
	camera   *render.Camera
	controls *OrbitControls
	gizmo    Gizmo
	renderer *raster.Renderer
	fps      int
	logger   *log.Logger
	cancel   []func()

	pointer pointerState
}

type pointerState struct {
	down           bool
	button         Button
	startX, startY float32
	lastX, lastY   float32
	moved          bool

	// dragging is set for the whole gesture once it grabbed a gizmo
	// handle, even if the gizmo loses its target midway.
	dragging  bool
	dragID    string
	dragStart scene.Transform
}

// NewController creates the render adapter, installs it into the app's
// viewport store and starts following the stores.
func NewController(app *store.App, opts Options) *Controller {
	renderer := raster.New(raster.Options{Width: opts.Width, Height: opts.Height})
	camera := render.NewCamera(renderer.Aspect())

	c := &Controller{
		app:      app,
		adapter:  render.NewAdapter(),
		camera:   camera,
		controls: NewOrbitControls(camera),
		gizmo:    opts.Gizmo,
		renderer: renderer,
		fps:      opts.FPS,
		logger:   opts.Logger,
	}
	if c.gizmo == nil {
		c.gizmo = NewAxisGizmo()
	}
	if c.fps <= 0 {
		c.fps = DefaultFPS
	}
	if c.logger == nil {
		c.logger = app.Logger()
	}
	c.applySettings(app.Viewport.Settings())

	c.cancel = append(c.cancel,
		app.Selection.Subscribe(func(store.SelectionEvent) { c.reconcile() }),
		app.Viewport.Subscribe(c.onViewport),
	)
	app.Viewport.InitializeAdapter(c.adapter)
	return c
}

// Close stops following the stores and uninstalls the adapter if it is
// still the viewport's.
func (c *Controller) Close() {
	for _, cancel := range c.cancel {
		cancel()
	}
	c.cancel = nil
	if c.app.Viewport.Adapter() == store.SceneAdapter(c.adapter) {
		c.app.Viewport.InitializeAdapter(nil)
	}
}

// Adapter returns the render adapter.
func (c *Controller) Adapter() *render.Adapter { return c.adapter }

// Camera returns the camera.
func (c *Controller) Camera() *render.Camera { return c.camera }

// Controls returns the orbit controls.
func (c *Controller) Controls() *OrbitControls { return c.controls }

// Gizmo returns the transform gizmo.
func (c *Controller) Gizmo() Gizmo { return c.gizmo }

// Size returns the viewport size in pixels.
func (c *Controller) Size() (int, int) { return c.renderer.Size() }

func (c *Controller) onViewport(e store.ViewportEvent) {
	switch e.Kind {
	case store.ModeChanged, store.SpaceChanged, store.SnapChanged:
		c.applySettings(e.Settings)
	case store.SceneSynced, store.AdapterChanged:
		c.reconcile()
	}
}

func (c *Controller) applySettings(s store.ViewportSettings) {
	c.gizmo.SetMode(s.Mode)
	c.gizmo.SetSpace(s.Space)
	c.gizmo.SetSnap(s.SnapEnabled, s.SnapValue)
}

// reconcile attaches the gizmo to the first selected object's node, or
// detaches it when that object has no node.
func (c *Controller) reconcile() {
	id, ok := c.app.Selection.First()
	if !ok {
		c.gizmo.Detach()
	} else if node, ok := c.adapter.RenderObject(id); !ok {
		c.gizmo.Detach()
	} else if c.gizmo.Target() != node {
		c.gizmo.Attach(node)
	}
	if !c.pointer.dragging {
		c.controls.Enabled = true
	}
}

func (c *Controller) view() View {
	w, h := c.renderer.Size()
	return View{Camera: c.camera, Width: w, Height: h}
}

func (c *Controller) ray(x, y float32) math32.Ray {
	w, h := c.renderer.Size()
	nx, ny := render.NDC(x, y, w, h)
	return c.camera.Ray(nx, ny)
}

// Click picks the object under pixel (x, y) and selects it. A miss clears
// the selection and detaches the gizmo.
func (c *Controller) Click(x, y float32) (string, bool) {
	hit, ok := c.adapter.Pick(c.ray(x, y))
	if !ok {
		c.app.Selection.Clear()
		c.gizmo.Detach()
		return "", false
	}
	c.logger.Debug("picked", "id", hit.ID, "distance", hit.Distance)
	c.app.Selection.Select(hit.ID)
	return hit.ID, true
}

// PointerDown starts a gesture. A primary press on a gizmo handle starts a
// drag and disables the orbit controls until release.
func (c *Controller) PointerDown(x, y float32, b Button) {
	c.pointer = pointerState{down: true, button: b, startX: x, startY: y, lastX: x, lastY: y}
	target := c.gizmo.Target()
	if b != ButtonPrimary || target == nil || !c.gizmo.BeginDrag(c.ray(x, y)) {
		return
	}
	c.pointer.dragging = true
	if obj := c.app.Scene.FindObjectByID(target.ID); obj != nil {
		c.pointer.dragID = obj.ID()
		c.pointer.dragStart = obj.Transform.Clone()
	}
	c.controls.Enabled = false
	c.controls.Stop()
}

// PointerMove continues a gesture: a gizmo drag writes the new transform
// back to the scene on every move; otherwise the camera orbits or pans.
func (c *Controller) PointerMove(x, y float32) {
	p := &c.pointer
	if !p.down {
		return
	}
	dx, dy := x-p.lastX, y-p.lastY
	p.lastX, p.lastY = x, y
	if math32.Abs(x-p.startX) > clickSlop || math32.Abs(y-p.startY) > clickSlop {
		p.moved = true
	}

	if p.dragging {
		if c.gizmo.Dragging() && c.gizmo.Drag(dx, dy, c.view()) {
			c.writeBack()
		}
		return
	}
	switch p.button {
	case ButtonPrimary:
		c.controls.Rotate(dx, dy)
	case ButtonSecondary:
		c.controls.Pan(dx, dy)
	}
}

// PointerUp ends a gesture. A primary press and release without movement
// is a click.
func (c *Controller) PointerUp(x, y float32) {
	p := c.pointer
	c.pointer = pointerState{}
	if !p.down {
		return
	}
	if p.dragging {
		c.gizmo.EndDrag()
		c.controls.Enabled = true
		return
	}
	if p.button == ButtonPrimary && !p.moved {
		c.Click(x, y)
	}
}

// Wheel zooms by delta steps; positive steps move away.
func (c *Controller) Wheel(delta float32) {
	c.controls.Zoom(delta)
}

// writeBack applies the gizmo's edit to the domain pose captured when the
// drag began. Only the edited component is written; the others keep their
// exact domain values.
func (c *Controller) writeBack() {
	p := &c.pointer
	e, ok := c.gizmo.Edit()
	if !ok || p.dragID == "" {
		return
	}
	start := p.dragStart
	var position, rotation, scale *scene.Vector3
	switch e.Mode {
	case store.ModeRotate:
		r := start.Rotation.WithComponent(e.Axis, start.Rotation.Component(e.Axis)+e.Amount)
		rotation = &r
	case store.ModeScale:
		v := max(start.Scale.Component(e.Axis)+e.Amount, minScale)
		sc := start.Scale.WithComponent(e.Axis, v)
		scale = &sc
	default:
		pos := start.Position.Add(e.Offset)
		position = &pos
	}
	if !c.app.Scene.UpdateObjectTransform(p.dragID, position, rotation, scale) {
		c.logger.Debug("drag target vanished", "id", p.dragID)
	}
}

// Focus moves the camera target onto the first selected object, keeping
// the viewing direction and distance.
func (c *Controller) Focus() bool {
	id, ok := c.app.Selection.First()
	if !ok {
		return false
	}
	node, ok := c.adapter.RenderObject(id)
	if !ok {
		return false
	}
	offset := c.camera.Position.Sub(c.camera.Target)
	c.camera.Target = node.WorldPosition()
	c.camera.Position = c.camera.Target.Add(offset)
	c.camera.Update()
	return true
}

// Resize changes the viewport size and the camera's aspect ratio.
func (c *Controller) Resize(width, height int) {
	c.renderer.Resize(width, height)
	c.camera.SetAspect(c.renderer.Aspect())
}

// Tick advances the camera controls by one frame and reports whether the
// camera moved.
func (c *Controller) Tick() bool {
	return c.controls.Update()
}

// Frame renders the current state.
func (c *Controller) Frame() (image.Image, error) {
	return c.renderer.Render(c.frame())
}

// FramePNG renders the current state as PNG into w.
func (c *Controller) FramePNG(w io.Writer) error {
	return c.renderer.RenderPNG(w, c.frame())
}

func (c *Controller) frame() raster.Frame {
	f := raster.Frame{
		Camera:   c.camera,
		Root:     c.adapter.Root(),
		Selected: c.app.Selection.Selected(),
	}
	if n := c.gizmo.Node(); n != nil {
		f.Overlays = append(f.Overlays, n)
	}
	return f
}

// Run ticks the controller on loop until ctx is done or the loop stops.
func (c *Controller) Run(ctx context.Context, loop *store.Loop) error {
	ticker := time.NewTicker(time.Second / time.Duration(c.fps))
	defer ticker.Stop()

	tick := func() error {
		c.Tick()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-loop.Stopped():
			return nil
		case <-ticker.C:
			if err := loop.Do(ctx, tick); err != nil {
				if ctx.Err() != nil || errors.Is(err, store.ErrLoopStopped) {
					return nil
				}
				return err
			}
		}
	}
}
