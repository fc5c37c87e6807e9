// Package refresh owns the fetch-parse-swap reload path for the
// ephemeris dataset, shared by the HTTP handlers and the periodic
// refresher.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dhannywi/surfwax-iss/internal/domain"
	"github.com/dhannywi/surfwax-iss/internal/observability"
	"github.com/dhannywi/surfwax-iss/internal/store"
)

// Fetcher retrieves the raw upstream ephemeris document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	SourceURL() string
}

// Announcer publishes a notification after a successful reload.
type Announcer interface {
	AnnounceRefresh(ctx context.Context, ds *domain.Dataset) error
}

// Service drives dataset reloads: fetch the feed, parse it, and swap the
// result into the store as one unit.
type Service struct {
	store     *store.Store
	fetcher   Fetcher
	announcer Announcer // nil disables announcements
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration

	// mu serializes reloads so concurrent triggers do not race the fetch.
	mu sync.Mutex
}

// New creates a Service. A nil announcer disables refresh announcements;
// a zero interval disables the periodic loop.
func New(st *store.Store, fetcher Fetcher, announcer Announcer, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Service {
	return &Service{
		store:     st,
		fetcher:   fetcher,
		announcer: announcer,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// Reload fetches and parses the upstream feed and installs the result as
// the active dataset. A fetch or parse failure leaves the current dataset
// untouched. Concurrent reloads are serialized; each caller still
// performs its own fetch, so it observes a dataset at least as fresh as
// its request.
func (s *Service) Reload(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.metrics.FeedFetches.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	ds, err := domain.ParseOEM(raw)
	if err != nil {
		s.metrics.FeedFetches.WithLabelValues("parse_error").Inc()
		s.logger.Error("ephemeris document rejected", "source", s.fetcher.SourceURL(), "error", err)
		return nil, err
	}

	ds.Source = s.fetcher.SourceURL()
	ds.FetchedAt = time.Now().UTC()
	s.store.Replace(ds)

	s.metrics.FeedFetches.WithLabelValues("success").Inc()
	s.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	s.metrics.DatasetStateVectors.Set(float64(len(ds.StateVectors)))
	s.metrics.DatasetLastRefresh.SetToCurrentTime()

	s.logger.Info("ephemeris dataset reloaded",
		"state_vectors", len(ds.StateVectors),
		"first_epoch", ds.StateVectors[0].Epoch,
		"last_epoch", ds.StateVectors[len(ds.StateVectors)-1].Epoch,
		"duration", time.Since(start),
	)

	s.announce(ctx, ds)
	return ds, nil
}

// announce publishes a refresh announcement. Announcement failures are
// logged, never surfaced: the reload itself already succeeded.
func (s *Service) announce(ctx context.Context, ds *domain.Dataset) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.AnnounceRefresh(ctx, ds); err != nil {
		s.metrics.Announcements.WithLabelValues("error").Inc()
		s.logger.Warn("refresh announcement failed", "error", err)
		return
	}
	s.metrics.Announcements.WithLabelValues("success").Inc()
}

// CheckReadiness returns nil once a dataset has been loaded, or an error
// describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.store.Loaded() {
		return errors.New("ephemeris dataset has not been loaded yet")
	}
	return nil
}

// Run reloads the dataset on a fixed cadence until the context is
// cancelled. Failed reloads retry with exponential backoff, then return
// to the regular cadence after the next success.
func (s *Service) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("periodic refresh disabled")
		return nil
	}
	s.logger.Info("periodic refresh started", "interval", s.interval)

	// Backoff starts at one second, doubles each retry, and caps at five
	// minutes so a long feed outage does not hammer the upstream.
	backoff := time.Second
	maxBackoff := 5 * time.Minute

	wait := s.interval
	for {
		if !sleepWithContext(ctx, wait) {
			s.logger.Info("periodic refresh stopping", "reason", ctx.Err())
			return nil
		}

		if _, err := s.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("periodic refresh stopping", "reason", ctx.Err())
				return nil
			}
			s.logger.Error("scheduled reload failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		wait = s.interval
		backoff = time.Second
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
