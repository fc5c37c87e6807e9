package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhannywi/surfwax-iss/internal/domain"
	"github.com/dhannywi/surfwax-iss/internal/observability"
	"github.com/dhannywi/surfwax-iss/internal/store"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReloadService refreshes the in-memory dataset from the upstream feed.
type ReloadService interface {
	ReadinessChecker
	Reload(ctx context.Context) (*domain.Dataset, error)
}

// Server exposes the ephemeris API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	reload     ReloadService
	geocoder   domain.Geocoder
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with all ephemeris routes registered.
// The geocoder may be nil, in which case locations keep their fallback place.
func NewServer(addr string, st *store.Store, reload ReloadService, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withMetrics(metrics, withLogging(logger, mux)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:    st,
		reload:   reload,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}

	mux.HandleFunc("GET /{$}", s.handleReload)
	mux.HandleFunc("POST /post-data", s.handleReload)
	mux.HandleFunc("DELETE /delete-data", s.handleDeleteData)
	mux.HandleFunc("GET /epochs", s.handleEpochs)
	mux.HandleFunc("GET /epochs/{epoch}", s.handleEpoch)
	mux.HandleFunc("GET /epochs/{epoch}/speed", s.handleSpeed)
	mux.HandleFunc("GET /epochs/{epoch}/location", s.handleLocation)
	mux.HandleFunc("GET /now", s.handleNow)
	mux.HandleFunc("GET /comment", s.handleComment)
	mux.HandleFunc("GET /header", s.handleHeader)
	mux.HandleFunc("GET /metadata", s.handleMetadata)
	mux.HandleFunc("GET /help", s.handleHelp)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(s.reload))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
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
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
