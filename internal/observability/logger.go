// Package observability provides the service logger and Prometheus metrics.
package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/dhannywi/surfwax-iss/internal/config"
)

// NewLogger builds the service logger from config. LOG_FORMAT selects
// JSON or text output; LOG_LEVEL sets the floor, and debug mode forces
// it down to debug.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
