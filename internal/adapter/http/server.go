package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/pipeline"
)

// ReadinessChecker reports whether the analysis has produced anything yet.
// The pipeline satisfies it: readiness flips once the first stage completes.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes diagnostics for a pipeline run: health, readiness, metrics,
// and the latest run summary.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	summary    atomic.Pointer[pipeline.RunSummary]
}

// NewServer creates an HTTP server with /healthz, /readyz, /runz, and
// /metrics routes.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.HandleFunc("GET /runz", s.handleRun)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("diagnostics server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// SetSummary publishes a finished run for /runz.
func (s *Server) SetSummary(sum *pipeline.RunSummary) {
	s.summary.Store(sum)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "crime-etl"})
}

// handleRun serves the last completed run summary, or a running marker while
// the stages are still going.
func (s *Server) handleRun(w http.ResponseWriter, _ *http.Request) {
	if sum := s.summary.Load(); sum != nil {
		writeJSON(w, http.StatusOK, sum)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
