package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// newCommand creates a project and makes it the workspace project.
func (c *CLI) newCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a project",
		Long: `Create a project with one empty scene and open it.

The path is a directory for the dir backend and a key for the others. Without
a path you are asked where to save the project.`,
		Example: `  sceneforge new ./castle
  sceneforge new levels/castle --name "Castle"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if name == "" {
				name = "Untitled"
				if path != "" {
					name = filepath.Base(path)
				}
			}

			s, err := c.openSession(ctx, sessionOptions{path: path})
			if err != nil {
				return err
			}
			defer s.Close()

			if path == "" {
				if _, err := s.app.Project.CreateNewProject(name); err != nil {
					return err
				}
				if err := s.app.Project.SaveProject(ctx); err != nil {
					return c.quiet(cmd, err)
				}
			} else {
				resolved, _ := resolvePath(s.cfg.Storage, path)
				if _, err := s.app.Project.CreateProjectAt(ctx, resolved, name); err != nil {
					return err
				}
			}
			if err := s.remember(ctx); err != nil {
				return err
			}

			out := printer{w: cmd.OutOrStdout()}
			out.success("Created project %s", StyleHighlight.Render(name))
			out.file(s.app.Project.Path())
			out.nextStep("Add an object", appName+" add Cube")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (default: last path element)")
	return cmd
}

// openCommand makes an existing project the workspace project.
func (c *CLI) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open a project",
		Long:  `Open a project and make it the target of later commands. Without a path you are asked for one.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			s, err := c.openSession(ctx, sessionOptions{path: path})
			if err != nil {
				return err
			}
			defer s.Close()

			resolved, _ := resolvePath(s.cfg.Storage, path)
			if err := s.app.Project.OpenProject(ctx, resolved); err != nil {
				return c.quiet(cmd, err)
			}
			if err := s.remember(ctx); err != nil {
				return err
			}

			p := s.project()
			out := printer{w: cmd.OutOrStdout()}
			out.success("Opened %s", StyleHighlight.Render(p.Name))
			out.file(s.app.Project.Path())
			return nil
		},
	}
}

// closeCommand forgets the workspace project.
func (c *CLI) closeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Forget the open project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.ws.Clear(cmd.Context()); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.info("No project open")
			return nil
		},
	}
}

// infoCommand summarizes the workspace project.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the open project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.project()
			out := printer{w: cmd.OutOrStdout()}
			fmt.Fprintln(out.w, StyleTitle.Render(p.Name))
			out.keyValue("ID", p.ID())
			out.keyValue("Version", p.Version)
			out.keyValue("Path", s.app.Project.Path())
			out.keyValue("Backend", s.backend.Name())
			if sc := p.ActiveScene(); sc != nil {
				out.keyValue("Scene", fmt.Sprintf("%s (%d objects)", sc.Name, sc.ObjectCount()))
			}
			out.keyValue("Scenes", fmt.Sprint(len(p.Scenes())))
			if tags := s.app.Project.Tags(); len(tags) > 0 {
				out.keyValue("Tags", strings.Join(tags, ", "))
			}
			if assets := s.app.Assets.Assets(); len(assets) > 0 {
				out.keyValue("Assets", fmt.Sprint(len(assets)))
			}
			return nil
		},
	}
}

// saveAsCommand copies the project to a new location and switches to it.
func (c *CLI) saveAsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save-as [path]",
		Short: "Save the project under a new path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			s, err := c.openSession(ctx, sessionOptions{project: true, path: path})
			if err != nil {
				return err
			}
			defer s.Close()

			saved, err := s.app.Project.SaveProjectAs(ctx)
			if err != nil {
				return c.quiet(cmd, err)
			}
			if err := s.remember(ctx); err != nil {
				return err
			}
			out := printer{w: cmd.OutOrStdout()}
			out.success("Saved %s", StyleHighlight.Render(s.project().Name))
			out.file(saved)
			return nil
		},
	}
}

// sceneCommand groups the scene subcommands.
func (c *CLI) sceneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Manage the project's scenes",
	}
	cmd.AddCommand(c.sceneListCommand())
	cmd.AddCommand(c.sceneAddCommand())
	cmd.AddCommand(c.sceneRemoveCommand())
	cmd.AddCommand(c.sceneSwitchCommand())
	return cmd
}

func (c *CLI) sceneListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scenes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), sceneTable(s.project()).Render())
			return nil
		},
	}
}

func (c *CLI) sceneAddCommand() *cobra.Command {
	var activate bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an empty scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := s.app.Project.AddScene(args[0])
			if err != nil {
				return err
			}
			if activate {
				if err := s.app.Project.SwitchScene(sc.ID()); err != nil {
					return err
				}
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Added scene %s %s", StyleHighlight.Render(sc.Name), StyleDim.Render(sc.ID()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&activate, "switch", false, "make the new scene active")
	return cmd
}

func (c *CLI) sceneRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <scene>",
		Aliases: []string{"rm"},
		Short:   "Remove a scene",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := findScene(s.project(), args[0])
			if err != nil {
				return err
			}
			if err := s.app.Project.RemoveScene(sc.ID()); err != nil {
				return err
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Removed scene %s", StyleHighlight.Render(sc.Name))
			return nil
		},
	}
}

func (c *CLI) sceneSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <scene>",
		Short: "Make a scene active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := findScene(s.project(), args[0])
			if err != nil {
				return err
			}
			if err := s.app.Project.SwitchScene(sc.ID()); err != nil {
				return err
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Switched to %s", StyleHighlight.Render(sc.Name))
			return nil
		},
	}
}

// findScene resolves a scene by id, unique id prefix or unique name.
func findScene(p *scene.Project, ref string) (*scene.Scene, error) {
	if sc := p.FindScene(ref); sc != nil {
		return sc, nil
	}
	var matches []*scene.Scene
	for _, sc := range p.Scenes() {
		if sc.Name == ref || strings.HasPrefix(sc.ID(), ref) {
			matches = append(matches, sc)
		}
	}
	switch len(matches) {
	case 0:
		return nil, sferrors.New(sferrors.ErrCodeSceneNotFound, "scene %q not found", ref)
	case 1:
		return matches[0], nil
	}
	return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "%q matches %d scenes; use the id", ref, len(matches))
}

// quiet turns a canceled picker into an info line and a zero exit status.
func (c *CLI) quiet(cmd *cobra.Command, err error) error {
	if sferrors.IsCanceled(err) {
		printer{w: cmd.OutOrStdout()}.info("Canceled")
		return nil
	}
	return err
}
