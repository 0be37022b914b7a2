// Package server is the HTTP relay behind `yamlviz serve`.
//
// Routes:
//
//	POST /api/visualize  text → visualization (graphs and error records)
//	POST /api/export     text + document index + format → rendered bytes
//	POST /api/fix        text + parser message → suggested correction
//	GET  /metrics        Prometheus exposition
//	GET  /healthz        liveness probe
//
// Every failure is answered with a JSON body {"code", "error"} and the
// status returned by [errors.HTTPStatus].
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/metrics"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

// Deps are the collaborators a server needs. Runner is required; a nil
// Fixer makes /api/fix answer FIX_UNAVAILABLE and a nil Metrics disables
// /metrics and request metrics.
type Deps struct {
	Runner  *pipeline.Runner
	Fixer   fix.Fixer
	Metrics *metrics.Registry
	Logger  *log.Logger

	// Options are the defaults requests start from; request fields override
	// them.
	Options pipeline.Options

	// MaxBytes caps request bodies; 0 selects errors.MaxDocumentBytes.
	MaxBytes int
}

// Server routes requests to the pipeline and the fixer.
type Server struct {
	deps     Deps
	validate *validator.Validate
	router   chi.Router
}

// New builds the router.
func New(deps Deps) (*Server, error) {
	if deps.Runner == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server requires a pipeline runner")
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.MaxBytes <= 0 {
		deps.MaxBytes = errors.MaxDocumentBytes
	}
	s := &Server{deps: deps, validate: validator.New(validator.WithRequiredStructEnabled())}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.recoverer)
	r.Use(s.logRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorStatus(w, r, http.StatusNotFound,
			errors.New(errors.ErrCodeInvalidPath, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorStatus(w, r, http.StatusMethodNotAllowed,
			errors.New(errors.ErrCodeInvalidInput, "method %s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(s.limitBody)
		r.Post("/visualize", s.handleVisualize)
		r.Post("/export", s.handleExport)
		r.Post("/fix", s.handleFix)
	})

	return r
}

// Config is the listener configuration used by ListenAndServe.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves h on cfg.Addr until ctx is cancelled, then shuts
// down gracefully, giving in-flight requests up to ten seconds.
func ListenAndServe(ctx context.Context, cfg Config, h http.Handler, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", cfg.Addr)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}
