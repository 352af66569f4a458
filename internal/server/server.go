// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST /v1/solve    pipeline.Options        -> pipeline.Solution
//	POST /v1/compare  compareRequest          -> compareResponse
//	POST /v1/render   pipeline.RenderOptions  -> DOT or SVG
//	GET  /healthz
//	GET  /metrics     (when a Gatherer is configured)
//
// Errors are returned as {"code": ..., "message": ...} with the status from
// errors.HTTPStatus.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/pipeline"
)

// Default limits applied when Config leaves them zero.
const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64

	// GraphDir is the directory graph_file requests are resolved against.
	// Empty rejects graph_file requests.
	GraphDir string

	// DefaultStrategy and MaxExpansions apply to requests that leave them
	// unset. MaxExpansions also caps requests that ask for more.
	DefaultStrategy string
	MaxExpansions   int
	// Timeout caps the per-request search timeout.
	Timeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the searchlab HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server. Runner is required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	s := &Server{cfg: cfg}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.wrap(s.handleHealth))
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.wrap(s.handleSolve))
		r.Post("/compare", s.wrap(s.handleCompare))
		r.Post("/render", s.wrap(s.handleRender))
	})
	r.NotFound(s.wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New(errors.ErrCodeNotFound, "no such route")
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.cfg.Logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.cfg.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// resolveGraphFile maps an API graph_file onto GraphDir.
func (s *Server) resolveGraphFile(o *pipeline.Options) error {
	if o.GraphFile == "" {
		return nil
	}
	if s.cfg.GraphDir == "" {
		return errors.New(errors.ErrCodeUnsupported, "graph_file is disabled on this server")
	}
	if err := errors.ValidatePath(o.GraphFile); err != nil {
		return err
	}
	if filepath.IsAbs(o.GraphFile) {
		return errors.New(errors.ErrCodeInvalidInput, "graph_file must be relative")
	}
	o.GraphFile = filepath.Join(s.cfg.GraphDir, filepath.Clean(o.GraphFile))
	return nil
}

// applyLimits fills request defaults from the server config and caps the
// requested limits.
func (s *Server) applyLimits(o *pipeline.Options) {
	if o.Strategy == "" {
		o.Strategy = s.cfg.DefaultStrategy
	}
	if limit := s.cfg.MaxExpansions; limit > 0 && (o.MaxExpansions == 0 || o.MaxExpansions > limit) {
		o.MaxExpansions = limit
	}
	if limit := s.cfg.Timeout; limit > 0 && (o.Timeout == 0 || o.Timeout > limit) {
		o.Timeout = limit
	}
}
