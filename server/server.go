// Package server exposes a research.Researcher over HTTP.
//
// Routes:
//
//	GET|POST /chat/query     question as raw body (or ?q=), plain-text answer
//	POST     /api/research   AG-UI RunAgentInput, AG-UI events over SSE
//	GET      /health         liveness
//	GET      /metrics        Prometheus
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/delve/event"
	"github.com/spetersoncode/delve/internal/metrics"
	"github.com/spetersoncode/delve/workflow"
)

// maxQueryBytes bounds the request body read by the query endpoints.
const maxQueryBytes = 1 << 20

// Researcher answers questions. *research.Researcher satisfies it.
type Researcher interface {
	Answer(ctx context.Context, query string) (string, error)
	AnswerStream(ctx context.Context, query string, opts ...workflow.Option) <-chan event.Event
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// Server is the HTTP server for research requests.
type Server struct {
	router     *chi.Mux
	researcher Researcher
	logger     *slog.Logger
	origins    []string
	srv        *http.Server
}

// New creates a server listening on addr.
func New(addr string, r Researcher, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:     chi.NewRouter(),
		researcher: r,
		logger:     logger,
		origins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	// No write timeout: a research run can take minutes.
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/chat", func(r chi.Router) {
		r.Get("/query", s.handleQuery)
		r.Post("/query", s.handleQuery)
	})
	s.router.Post("/api/research", s.handleResearch)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger returns a logger tagged with the chi request id.
func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path)
}
