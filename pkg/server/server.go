package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/viewport"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Logger receives one record per request. Defaults to discarding.
	Logger *log.Logger
}

// Server serves the HTTP API of one editor session.
type Server struct {
	app    *store.App
	loop   *store.Loop
	ctrl   *viewport.Controller
	logger *log.Logger
	router chi.Router
}

// New returns a server for app. Every handler runs its work on loop,
// which the caller must run.
func New(app *store.App, loop *store.Loop, ctrl *viewport.Controller, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{app: app, loop: loop, ctrl: ctrl, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/project", func(r chi.Router) {
		r.Get("/", s.handleGetProject)
		r.Post("/", s.handleCreateProject)
		r.Post("/open", s.handleOpenProject)
		r.Post("/save", s.handleSaveProject)
	})

	r.Get("/scene", s.handleGetScene)
	r.Route("/scene/objects", func(r chi.Router) {
		r.Post("/", s.handleCreateObject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetObject)
			r.Delete("/", s.handleDeleteObject)
			r.Post("/duplicate", s.handleDuplicateObject)
			r.Put("/parent", s.handleReparentObject)
			r.Put("/name", s.handleRenameObject)
			r.Patch("/transform", s.handleTransformObject)
			r.Put("/tags/{tag}", s.handleTagObject)
			r.Delete("/tags/{tag}", s.handleUntagObject)
		})
	})

	r.Get("/selection", s.handleGetSelection)
	r.Put("/selection", s.handleSetSelection)

	r.Route("/viewport", func(r chi.Router) {
		r.Get("/", s.handleGetViewport)
		r.Patch("/", s.handlePatchViewport)
		r.Post("/click", s.handleClick)
		r.Get("/frame.png", s.handleFrame)
	})

	r.Get("/tags", s.handleGetTags)
	r.Post("/tags", s.handleAddTag)
	r.Delete("/tags/{tag}", s.handleRemoveTag)

	r.Get("/graph.svg", s.handleGraph)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// do runs fn on the editor loop.
func (s *Server) do(r *http.Request, fn func() error) error {
	return s.loop.Do(r.Context(), fn)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond))
	})
}
