package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// =============================================================================
// Object Commands
// =============================================================================

// addCommand creates a game object in the active scene.
func (c *CLI) addCommand() *cobra.Command {
	var (
		parent string
		tags   []string
		tf     transformFlags
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a game object to the active scene",
		Example: `  sceneforge add Cube
  sceneforge add Wheel --parent Car --position 1,0,2 --tag vehicle`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := defaultObjectName
			if len(args) > 0 {
				name = args[0]
			}

			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			parentID := ""
			if parent != "" {
				p, err := findObject(s.app.Scene, parent)
				if err != nil {
					return err
				}
				parentID = p.ID()
			}
			obj, err := s.app.Scene.CreateGameObject(name, parentID)
			if err != nil {
				return err
			}
			if tf.set() {
				s.app.Scene.UpdateObjectTransform(obj.ID(), tf.position.ptr(), tf.rotation.ptr(), tf.scale.ptr())
			}
			for _, tag := range tags {
				if err := s.app.Scene.AddTag(obj.ID(), tag); err != nil {
					return err
				}
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Added %s %s", StyleHighlight.Render(obj.Name), StyleDim.Render(obj.ID()))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent object (id, id prefix or name)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to add (repeatable)")
	tf.register(cmd)
	return cmd
}

// deleteCommand removes objects with their children.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <object>...",
		Aliases: []string{"rm"},
		Short:   "Delete objects and their children",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			out := printer{w: cmd.OutOrStdout()}
			for _, ref := range args {
				obj, err := findObject(s.app.Scene, ref)
				if err != nil {
					return err
				}
				s.app.Scene.DeleteGameObject(obj.ID())
				out.success("Deleted %s", StyleHighlight.Render(obj.Name))
			}
			return s.commit(ctx)
		},
	}
}

// duplicateCommand clones an object next to the original.
func (c *CLI) duplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <object>",
		Aliases: []string{"dup"},
		Short:   "Duplicate an object and its children",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			dup := s.app.Scene.DuplicateGameObject(obj.ID())
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Duplicated %s as %s", obj.Name, StyleDim.Render(dup.ID()))
			return nil
		},
	}
}

// reparentCommand moves an object under another one or to the root.
func (c *CLI) reparentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reparent <object> [parent]",
		Short: "Move an object under a new parent",
		Long:  `Move an object under a new parent, or to the scene root when no parent is given.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			parentID, parentName := "", "the scene root"
			if len(args) == 2 {
				p, err := findObject(s.app.Scene, args[1])
				if err != nil {
					return err
				}
				parentID, parentName = p.ID(), p.Name
			}
			if err := s.app.Scene.ReparentObject(obj.ID(), parentID); err != nil {
				return err
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Moved %s under %s", obj.Name, StyleHighlight.Render(parentName))
			return nil
		},
	}
}

// renameCommand renames an object.
func (c *CLI) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <object> <name>",
		Short: "Rename an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			old := obj.Name
			if err := s.app.Scene.RenameObject(obj.ID(), args[1]); err != nil {
				return err
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Renamed %s to %s", old, StyleHighlight.Render(args[1]))
			return nil
		},
	}
}

// transformCommand sets or prints an object's transform.
func (c *CLI) transformCommand() *cobra.Command {
	var tf transformFlags

	cmd := &cobra.Command{
		Use:   "transform <object>",
		Short: "Show or change an object's transform",
		Long: `Show an object's transform, or change the components given as flags.
Vectors are written as x,y,z; rotations are Euler angles in degrees.`,
		Example: `  sceneforge transform Cube
  sceneforge transform Cube --position 0,1,0 --rotation 0,45,0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			if tf.set() {
				s.app.Scene.UpdateObjectTransform(obj.ID(), tf.position.ptr(), tf.rotation.ptr(), tf.scale.ptr())
				if err := s.commit(ctx); err != nil {
					return err
				}
			}

			out := printer{w: cmd.OutOrStdout()}
			fmt.Fprintln(out.w, StyleTitle.Render(obj.Name))
			out.keyValue("Position", formatVec(obj.Transform.Position))
			out.keyValue("Rotation", formatVec(obj.Transform.Rotation))
			out.keyValue("Scale", formatVec(obj.Transform.Scale))
			return nil
		},
	}

	tf.register(cmd)
	return cmd
}

// =============================================================================
// Tag Commands
// =============================================================================

// tagCommand groups the tag subcommands.
func (c *CLI) tagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage project and object tags",
	}
	cmd.AddCommand(c.tagAddCommand())
	cmd.AddCommand(c.tagRemoveCommand())
	cmd.AddCommand(c.tagListCommand())
	cmd.AddCommand(c.tagFindCommand())
	return cmd
}

func (c *CLI) tagAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [object] <tag>",
		Short: "Tag an object, or define a project tag",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			out := printer{w: cmd.OutOrStdout()}
			if len(args) == 1 {
				if err := s.app.Project.AddTag(args[0]); err != nil {
					return err
				}
				out.success("Defined tag %s", styleTag.Render(args[0]))
				return s.commit(ctx)
			}
			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			if err := s.app.Scene.AddTag(obj.ID(), args[1]); err != nil {
				return err
			}
			out.success("Tagged %s with %s", obj.Name, styleTag.Render(args[1]))
			return s.commit(ctx)
		},
	}
}

func (c *CLI) tagRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [object] <tag>",
		Short: "Untag an object, or drop a project tag",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			out := printer{w: cmd.OutOrStdout()}
			if len(args) == 1 {
				if !s.app.Project.RemoveTag(args[0]) {
					out.warning("Tag %s is not defined", args[0])
					return nil
				}
				out.success("Dropped tag %s", styleTag.Render(args[0]))
				return s.commit(ctx)
			}
			obj, err := findObject(s.app.Scene, args[0])
			if err != nil {
				return err
			}
			if !s.app.Scene.RemoveTag(obj.ID(), args[1]) {
				out.warning("%s has no tag %s", obj.Name, args[1])
				return nil
			}
			out.success("Removed %s from %s", styleTag.Render(args[1]), obj.Name)
			return s.commit(ctx)
		},
	}
}

func (c *CLI) tagListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every tag used in the project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			for _, tag := range s.app.Project.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), styleTag.Render(tag))
			}
			return nil
		},
	}
}

func (c *CLI) tagFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <tag>",
		Short: "List objects carrying a tag in any scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			objs := s.app.Project.FindObjectsWithTag(args[0])
			out := printer{w: cmd.OutOrStdout()}
			if len(objs) == 0 {
				out.info("No objects tagged %s", args[0])
				return nil
			}
			for _, obj := range objs {
				fmt.Fprintf(out.w, "%s %s\n", StyleValue.Render(obj.Name), StyleDim.Render(obj.ID()))
			}
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

// findObject resolves an object in the current scene by id, unique id
// prefix or unique name.
func findObject(ss *store.SceneStore, ref string) (*scene.GameObject, error) {
	if obj := ss.FindObjectByID(ref); obj != nil {
		return obj, nil
	}
	var matches []*scene.GameObject
	for _, obj := range ss.GetAllObjects() {
		if obj.Name == ref || strings.HasPrefix(obj.ID(), ref) {
			matches = append(matches, obj)
		}
	}
	switch len(matches) {
	case 0:
		return nil, sferrors.New(sferrors.ErrCodeObjectNotFound, "object %q not found", ref)
	case 1:
		return matches[0], nil
	}
	return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "%q matches %d objects; use the id", ref, len(matches))
}

// vecFlag is a pflag.Value holding an optional x,y,z vector.
type vecFlag struct {
	v     scene.Vector3
	isSet bool
}

func (f *vecFlag) String() string {
	if !f.isSet {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vecFlag) Set(s string) error {
	v, err := parseVec(s)
	if err != nil {
		return err
	}
	f.v, f.isSet = v, true
	return nil
}

func (f *vecFlag) Type() string { return "x,y,z" }

func (f *vecFlag) ptr() *scene.Vector3 {
	if !f.isSet {
		return nil
	}
	v := f.v
	return &v
}

// parseVec parses "x,y,z".
func parseVec(s string) (scene.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return scene.Vector3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return scene.Vector3{}, fmt.Errorf("component %d of %q: %w", i+1, s, err)
		}
		xyz[i] = f
	}
	return scene.Vec3(xyz[0], xyz[1], xyz[2]), nil
}

// transformFlags are the --position, --rotation and --scale flags.
type transformFlags struct {
	position, rotation, scale vecFlag
}

func (tf *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().Var(&tf.position, "position", "position as x,y,z")
	cmd.Flags().Var(&tf.rotation, "rotation", "Euler rotation in degrees as x,y,z")
	cmd.Flags().Var(&tf.scale, "scale", "scale as x,y,z")
}

func (tf *transformFlags) set() bool {
	return tf.position.isSet || tf.rotation.isSet || tf.scale.isSet
}
