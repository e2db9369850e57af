// Package cli implements the sceneforge command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sceneforge"

	// defaultObjectName names objects created without an explicit name.
	defaultObjectName = "GameObject"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config file location.
	configPath string

	// workspaceDir overrides the directory holding workspace.json.
	workspaceDir string

	// in and out back interactive prompts.
	in  io.Reader
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetInput sets the reader interactive prompts read answers from.
func (c *CLI) SetInput(r io.Reader) {
	c.in = r
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sceneforge edits 3D scene projects",
		Long: `Sceneforge is the editing core of a 3D scene editor. It manages projects made of
scenes, each holding a hierarchy of game objects with transforms and tags, and
offers a viewport for picking and gizmo manipulation over the CLI, a terminal
UI and an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/sceneforge/config.toml)")

	// Projects
	root.AddCommand(c.newCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.closeCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.saveAsCommand())
	root.AddCommand(c.sceneCommand())

	// Objects
	root.AddCommand(c.addCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.duplicateCommand())
	root.AddCommand(c.reparentCommand())
	root.AddCommand(c.renameCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.tagCommand())

	// Views
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())

	root.AddCommand(c.assetCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
