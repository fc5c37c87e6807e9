package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dhannywi/surfwax-iss/internal/observability"
)

// statusRecorder captures the response status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

func withMetrics(metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := metricPath(r.URL.Path)
		metrics.HTTPRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if quietPath(r.URL.Path) {
			level = slog.LevelDebug
		}
		logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// quietPath reports probe and scrape paths, which log at debug to keep
// steady-state output readable.
func quietPath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

// metricPath collapses epoch-specific paths into their route patterns and
// unmatched paths into "other" so the path label stays low-cardinality.
func metricPath(path string) string {
	switch path {
	case "/", "/epochs", "/now", "/comment", "/header", "/metadata", "/help",
		"/post-data", "/delete-data", "/healthz", "/readyz", "/metrics":
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/epochs/"); ok && rest != "" {
		switch {
		case strings.HasSuffix(rest, "/speed"):
			return "/epochs/{epoch}/speed"
		case strings.HasSuffix(rest, "/location"):
			return "/epochs/{epoch}/location"
		default:
			return "/epochs/{epoch}"
		}
	}
	return "other"
}
