// Package raster draws the render tree into PNG frames.
//
// The renderer is a wireframe preview: a ground grid and, for every visible
// node, the edges of its bounding box as seen through a [render.Camera].
// Selected nodes are outlined in the highlight color and nodes with axis
// handles (gizmos) draw them in red, green and blue.
package raster

import (
	"image"
	"io"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gg"

	"github.com/matzehuels/sceneforge/pkg/render"
)

// Colors used by the renderer.
const (
	BackgroundColor = "#1a1a1a"
	GridCenterColor = "#444444"
	GridColor       = "#2a2a2a"
	HighlightColor  = "#ffd24d"
)

var axisColors = [3]string{"#e5484d", "#46a758", "#3e63dd"}

var axisDirs = [3]math32.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// Options configures frame rendering.
type Options struct {
	Width  int
	Height int

	// GridSize is the grid's edge length in world units; GridDivisions
	// the number of cells along each edge.
	GridSize      float32
	GridDivisions int
}

// DefaultOptions returns an 800x600 frame with a 20x20 grid.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, GridSize: 20, GridDivisions: 20}
}

// boxEdges indexes Node.WorldCorners pairs forming the twelve box edges.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Renderer draws frames of a render tree.
type Renderer struct {
	opts Options
}

// New returns a renderer. Zero fields in opts take their defaults.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.GridSize <= 0 {
		opts.GridSize = def.GridSize
	}
	if opts.GridDivisions <= 0 {
		opts.GridDivisions = def.GridDivisions
	}
	return &Renderer{opts: opts}
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() (int, int) { return r.opts.Width, r.opts.Height }

// Aspect returns the frame's width over height.
func (r *Renderer) Aspect() float32 { return float32(r.opts.Width) / float32(r.opts.Height) }

// Resize changes the frame size. Non-positive values are ignored.
func (r *Renderer) Resize(width, height int) {
	if width > 0 && height > 0 {
		r.opts.Width, r.opts.Height = width, height
	}
}

// Frame is the input of one render: the tree, extra overlay nodes such as
// a gizmo, and the selected domain ids.
type Frame struct {
	Camera   *render.Camera
	Root     *render.Node
	Overlays []*render.Node
	Selected []string
}

// Render draws f and returns the image.
func (r *Renderer) Render(f Frame) (image.Image, error) {
	dc, err := r.draw(f)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// RenderPNG draws f and writes it to w as PNG.
func (r *Renderer) RenderPNG(w io.Writer, f Frame) error {
	dc, err := r.draw(f)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func (r *Renderer) draw(f Frame) (*gg.Context, error) {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.ClearWithColor(gg.Hex(BackgroundColor))

	if err := r.drawGrid(dc, f.Camera); err != nil {
		dc.Close()
		return nil, err
	}

	var nodes []*render.Node
	if f.Root != nil {
		f.Root.Walk(func(n *render.Node) bool {
			nodes = append(nodes, n)
			return true
		})
	}
	nodes = append(nodes, f.Overlays...)

	for _, n := range nodes {
		if !n.Visible {
			continue
		}
		selected := n.ID != "" && slices.Contains(f.Selected, n.ID)
		if err := r.drawNode(dc, f.Camera, n, selected); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

func (r *Renderer) drawGrid(dc *gg.Context, cam *render.Camera) error {
	half := r.opts.GridSize / 2
	step := r.opts.GridSize / float32(r.opts.GridDivisions)
	dc.SetLineWidth(1)

	for i := 0; i <= r.opts.GridDivisions; i++ {
		v := -half + float32(i)*step
		color := GridColor
		if math32.Abs(v) < step/2 {
			color = GridCenterColor
		}
		dc.SetHexColor(color)
		r.segment(dc, cam, math32.Vec3(v, 0, -half), math32.Vec3(v, 0, half))
		r.segment(dc, cam, math32.Vec3(-half, 0, v), math32.Vec3(half, 0, v))
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawNode(dc *gg.Context, cam *render.Camera, n *render.Node, selected bool) error {
	if !n.Bounds.IsEmpty() {
		corners := n.WorldCorners()
		dc.SetHexColor(n.Color)
		dc.SetLineWidth(1.5)
		if selected {
			dc.SetHexColor(HighlightColor)
			dc.SetLineWidth(3)
		}
		for _, e := range boxEdges {
			r.segment(dc, cam, corners[e[0]], corners[e[1]])
		}
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	if n.Axes > 0 {
		origin := n.WorldPosition()
		dc.SetLineWidth(2.5)
		for axis, color := range axisColors {
			dc.SetHexColor(color)
			r.segment(dc, cam, origin, n.ToWorld(axisDirs[axis].MulScalar(n.Axes)))
			if err := dc.Stroke(); err != nil {
				return err
			}
		}
	}
	return nil
}

// segment adds a line to the current path when both ends are in front of
// the camera.
func (r *Renderer) segment(dc *gg.Context, cam *render.Camera, a, b math32.Vector3) {
	if !cam.InFront(a) || !cam.InFront(b) {
		return
	}
	x1, y1 := cam.ToScreen(a, r.opts.Width, r.opts.Height)
	x2, y2 := cam.ToScreen(b, r.opts.Width, r.opts.Height)
	dc.MoveTo(float64(x1), float64(y1))
	dc.LineTo(float64(x2), float64(y2))
}
