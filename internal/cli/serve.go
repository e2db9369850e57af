package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/server"
	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/viewport"
)

// serveCommand runs the HTTP API over one editor session.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over HTTP",
		Long: `Serve the editor over HTTP. The workspace project is opened when there is one;
otherwise create or open a project with POST /project or POST /project/open.
Every request runs on a single editor loop, in arrival order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			if s.state != nil && s.state.Project != "" {
				if err := s.openWorkspaceProject(ctx); err != nil {
					c.Logger.Warn("workspace project not opened", "path", s.state.Project, "err", err)
				}
			}
			if addr == "" {
				addr = s.cfg.Server.Addr
			}

			ctrl := viewport.NewController(s.app, viewport.Options{
				Width:  s.cfg.Viewport.Width,
				Height: s.cfg.Viewport.Height,
				FPS:    s.cfg.Viewport.FPS,
				Logger: c.Logger,
			})
			defer ctrl.Close()

			loop := store.NewLoop()
			srv := server.New(s.app, loop, ctrl, server.Options{Logger: c.Logger})

			if err := serve(ctx, loop, ctrl, srv, addr); err != nil {
				return err
			}

			// The loop has stopped, so the stores are ours again.
			if err := s.remember(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			if s.app.Project.Modified() {
				printer{w: cmd.ErrOrStderr()}.warning("Unsaved changes were discarded")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs the editor loop, the frame ticker and the HTTP server until
// ctx is done or one of them fails.
func serve(ctx context.Context, loop *store.Loop, ctrl *viewport.Controller, srv *server.Server, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 3)
	go func() { errc <- loop.Run(ctx) }()
	go func() { errc <- ctrl.Run(ctx, loop) }()
	go func() { errc <- srv.ListenAndServe(ctx, addr) }()

	var first error
	for range 3 {
		err := <-errc
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) && first == nil {
			first = err
		}
	}
	return first
}
