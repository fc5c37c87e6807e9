package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/dhannywi/surfwax-iss/internal/adapter/http"
	kafkaadapter "github.com/dhannywi/surfwax-iss/internal/adapter/kafka"
	"github.com/dhannywi/surfwax-iss/internal/adapter/nasa"
	"github.com/dhannywi/surfwax-iss/internal/adapter/nominatim"
	"github.com/dhannywi/surfwax-iss/internal/config"
	"github.com/dhannywi/surfwax-iss/internal/domain"
	"github.com/dhannywi/surfwax-iss/internal/observability"
	"github.com/dhannywi/surfwax-iss/internal/refresh"
	"github.com/dhannywi/surfwax-iss/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	st := store.New()
	fetcher := nasa.NewFetcher(cfg.OEMSourceURL, cfg.FetchTimeout, logger)

	// Reverse geocoding is feature-flagged via GEOCODE_ENABLED.
	var geocoder domain.Geocoder
	if cfg.GeocodeEnabled {
		client := nominatim.NewClient(cfg, logger, metrics)
		geocoder = nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("reverse geocoding enabled", "url", cfg.GeocodeURL, "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.GeocodeTimeout)
	} else {
		logger.Info("reverse geocoding disabled")
	}

	// Refresh announcements are feature-flagged via KAFKA_ENABLED.
	var announcer refresh.Announcer
	var kafkaAnnouncer *kafkaadapter.Announcer
	if cfg.KafkaEnabled {
		kafkaAnnouncer = kafkaadapter.NewAnnouncer(cfg, logger)
		announcer = kafkaAnnouncer
		logger.Info("refresh announcements enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("refresh announcements disabled")
	}

	svc := refresh.New(st, fetcher, announcer, logger, metrics, cfg.RefreshInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, st, svc, geocoder, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the dataset before serving. Startup continues on failure; the
	// handlers report NoData until a reload succeeds.
	if cfg.FetchOnStart {
		if _, err := svc.Reload(ctx); err != nil {
			logger.Warn("initial ephemeris load failed, serving without data", "error", err)
		}
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start periodic refresher.
	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaAnnouncer != nil {
		if err := kafkaAnnouncer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
