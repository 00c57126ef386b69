// Package server exposes one floor-plan graph over HTTP.
//
// The graph is read from and saved to a single JSON file. Every handler
// holds the server's lock for its whole resolve-and-mutate cycle, so the
// unsynchronized [floorplan.Graph] is never touched by two requests at once.
// With watching enabled, external edits to the file are picked up through a
// staged reload: the served graph is replaced only when the new document
// loads.
//
// Routes:
//
//	GET    /health
//	GET    /api/v1/graph          export document
//	GET    /api/v1/stats
//	POST   /api/v1/nodes          {x, y, id?, attributes?}
//	PATCH  /api/v1/nodes/{id}     {x, y}
//	DELETE /api/v1/nodes/{id}
//	POST   /api/v1/edges          {source, target, attributes?}
//	DELETE /api/v1/edges          {source, target}
//	POST   /api/v1/hit            {canvas, image, zoom, pan, point}
//	POST   /api/v1/save
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/spatial"
	"github.com/matzehuels/floorgraph/pkg/view"
)

const (
	defaultAddr     = ":8080"
	defaultDebounce = 250 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithEngine sets the hit-test engine used by /api/v1/hit.
func WithEngine(e *spatial.Engine) Option { return func(s *Server) { s.engine = e } }

// WithLimits sets the zoom range applied to /api/v1/hit requests.
func WithLimits(l view.Limits) Option { return func(s *Server) { s.limits = l } }

// WithDefaultFloor sets the floor given to rooms created without one. An
// empty floor keeps [floorplan.DefaultFloor].
func WithDefaultFloor(floor string) Option { return func(s *Server) { s.defaultFloor = floor } }

// WithAddr sets the listen address for Run.
func WithAddr(addr string) Option { return func(s *Server) { s.addr = addr } }

// WithWatch makes Run reload the graph when its file changes.
func WithWatch(watch bool) Option { return func(s *Server) { s.watch = watch } }

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) Option { return func(s *Server) { s.debounce = d } }

// Server serves a graph loaded from path.
type Server struct {
	mu    sync.RWMutex
	graph *floorplan.Graph
	path  string

	engine       *spatial.Engine
	limits       view.Limits
	defaultFloor string
	addr         string
	watch        bool
	debounce     time.Duration
	logger       *log.Logger
}

// New returns a server for g, which was loaded from path. An empty path
// disables /api/v1/save and watching.
func New(g *floorplan.Graph, path string, opts ...Option) *Server {
	if g == nil {
		g = floorplan.New()
	}
	s := &Server{
		graph:    g,
		path:     path,
		engine:   spatial.New(),
		limits:   view.DefaultLimits(),
		addr:     defaultAddr,
		debounce: defaultDebounce,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the served file.
func (s *Server) Path() string { return s.path }

// Stats returns counts for the served graph.
func (s *Server) Stats() floorplan.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Stats()
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/graph", s.getGraph)
		r.Get("/stats", s.getStats)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.createNode)
			r.Patch("/{id}", s.moveNode)
			r.Delete("/{id}", s.deleteNode)
		})
		r.Post("/edges", s.createEdge)
		r.Delete("/edges", s.deleteEdge)
		r.Post("/hit", s.hit)
		r.Post("/save", s.save)
	})
	return r
}

// Reload replaces the served graph with the current file contents. On
// failure the served graph is kept.
func (s *Server) Reload(ctx context.Context) error {
	g, rep, err := fgio.ImportJSON(ctx, s.path)
	if err != nil {
		s.logger.Error("reload failed, keeping current graph", "file", s.path, "err", err)
		return err
	}
	for _, issue := range rep.Issues() {
		s.logger.Warn("entry not loaded", "file", s.path, "entry", issue.String())
	}

	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	s.logger.Info("reloaded", "file", s.path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watch && s.path != "" {
		w, err := NewWatcher(s.path, s.debounce)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx, func() { _ = s.Reload(ctx) }); err != nil {
				s.logger.Error("watcher stopped", "err", err)
			}
		}()
		s.logger.Info("watching for changes", "file", s.path)
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.addr, "file", s.path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
