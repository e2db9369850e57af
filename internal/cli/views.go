package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/render/nodelink"
	"github.com/matzehuels/sceneforge/pkg/viewport"
)

// maxSettleFrames bounds the frames a snapshot waits for damped camera motion.
const maxSettleFrames = 600

// treeCommand prints the active scene's hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the active scene's hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := selectObjects(s, selected); err != nil {
				return err
			}
			sc := s.app.Scene.Scene()
			fmt.Fprintln(cmd.OutOrStdout(), hierarchyTree(sc, s.app.Selection.Selected()).String())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&selected, "select", nil, "objects to highlight")
	return cmd
}

// graphCommand exports the hierarchy as a Graphviz diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		selected []string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the active scene's hierarchy as a node-link diagram",
		Example: `  sceneforge graph -o scene.svg
  sceneforge graph --format dot | dot -Tpng > scene.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := selectObjects(s, selected); err != nil {
				return err
			}
			dot := nodelink.ToDOT(s.app.Scene.Scene(), nodelink.Options{
				Detailed: detailed,
				Selected: s.app.Selection.Selected(),
			})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				prog := newProgress(loggerFromContext(ctx))
				spinner := newSpinnerWithContext(ctx, "Rendering graph...")
				spinner.Start()
				data, err = nodelink.RenderSVG(ctx, dot)
				spinner.Stop()
				if err != nil {
					return err
				}
				prog.done("Rendered graph")
			default:
				return fmt.Errorf("unknown format %q (want svg or dot)", format)
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg or dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add tags and positions to labels")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "objects to highlight")
	return cmd
}

// snapshotCommand renders one viewport frame to PNG.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		output   string
		width    int
		height   int
		selected []string
		orbit    string
		zoom     float32
		focus    bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the viewport to a PNG image",
		Long: `Render the active scene as the viewport shows it: the ground grid, every
object's bounds, the selection and the gizmo of the current mode.`,
		Example: `  sceneforge snapshot -o view.png --select Cube --focus
  sceneforge snapshot -o top.png --orbit 0,-200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			if width == 0 {
				width = s.cfg.Viewport.Width
			}
			if height == 0 {
				height = s.cfg.Viewport.Height
			}
			ctrl := viewport.NewController(s.app, viewport.Options{
				Width:  width,
				Height: height,
				FPS:    s.cfg.Viewport.FPS,
				Logger: c.Logger,
			})
			defer ctrl.Close()

			if err := selectObjects(s, selected); err != nil {
				return err
			}
			if focus && !ctrl.Focus() {
				printer{w: cmd.ErrOrStderr()}.warning("Nothing selected to focus")
			}
			if orbit != "" {
				var dx, dy float32
				if _, err := fmt.Sscanf(orbit, "%g,%g", &dx, &dy); err != nil {
					return fmt.Errorf("--orbit wants dx,dy: %w", err)
				}
				ctrl.Controls().Rotate(dx, dy)
			}
			if zoom != 0 {
				ctrl.Controls().Zoom(zoom)
			}
			settle(ctrl)

			prog := newProgress(loggerFromContext(ctx))
			var buf bytes.Buffer
			if err := ctrl.FramePNG(&buf); err != nil {
				return err
			}
			prog.done("Rendered frame")
			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&width, "width", 0, "frame width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "frame height (default from config)")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "objects to select")
	cmd.Flags().StringVar(&orbit, "orbit", "", "orbit the camera by dx,dy pixels")
	cmd.Flags().Float32Var(&zoom, "zoom", 0, "wheel delta to zoom by (negative zooms in)")
	cmd.Flags().BoolVar(&focus, "focus", false, "center the camera on the selection")
	return cmd
}

// settle ticks the controller until the damped camera comes to rest.
func settle(ctrl *viewport.Controller) {
	for range maxSettleFrames {
		if !ctrl.Tick() {
			return
		}
	}
}

// selectObjects replaces the selection with the given object references.
func selectObjects(s *session, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		obj, err := findObject(s.app.Scene, ref)
		if err != nil {
			return err
		}
		ids = append(ids, obj.ID())
	}
	s.app.Selection.SetSelection(ids)
	return nil
}

// writeOutput writes data to path, or to the command's output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printer{w: cmd.ErrOrStderr()}.file(path)
	return nil
}
