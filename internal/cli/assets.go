package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// assetCommand groups the asset subcommands.
func (c *CLI) assetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Import and list project assets",
		Long: `Import and list project assets. Assets are copied into the project's assets
directory, so only the dir storage backend supports them. Accepted files are
images (png, jpg, jpeg) and models (gltf, glb, obj, fbx).`,
	}
	cmd.AddCommand(c.assetImportCommand())
	cmd.AddCommand(c.assetListCommand())
	return cmd
}

func (c *CLI) assetImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Copy a file into the project's assets",
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

			info, err := s.app.Assets.ImportAsset(ctx)
			if err != nil {
				return c.quiet(cmd, err)
			}
			out := printer{w: cmd.OutOrStdout()}
			out.success("Imported %s %s", StyleHighlight.Render(info.Name), StyleDim.Render(string(info.Kind)))
			out.file(info.Path)
			return nil
		},
	}
}

func (c *CLI) assetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the project's assets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			assets := s.app.Assets.Assets()
			if len(assets) == 0 {
				printer{w: cmd.OutOrStdout()}.info("No assets")
				return nil
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{a.Name, string(a.Kind), a.MIME, humanize.Bytes(uint64(a.Size))})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(StyleDim).
				Headers("Asset", "Kind", "Type", "Size").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleHeader
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
