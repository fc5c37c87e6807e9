package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ephemeris service.
type Metrics struct {
	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec   // labels: path, method, code
	HTTPRequestDuration *prometheus.HistogramVec // labels: path, method

	// Feed refresh metrics.
	FeedFetches         *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error}
	FeedFetchDuration   prometheus.Histogram
	DatasetStateVectors prometheus.Gauge
	DatasetLastRefresh  prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// Refresh announcement metrics.
	Announcements *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfwax",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method, and status code.",
		}, []string{"path", "method", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surfwax",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and method.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"path", "method"}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfwax",
			Name:      "feed_fetches_total",
			Help:      "Ephemeris feed reload attempts by outcome.",
		}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surfwax",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a complete fetch-parse-swap reload cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetStateVectors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "surfwax",
			Name:      "dataset_state_vectors",
			Help:      "State vectors in the currently loaded dataset.",
		}),
		DatasetLastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "surfwax",
			Name:      "dataset_last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful dataset reload.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfwax",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfwax",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surfwax",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "surfwax",
			Name:      "geocode_enabled",
			Help:      "1 when reverse geocoding is enabled, 0 otherwise.",
		}),
		Announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfwax",
			Name:      "refresh_announcements_total",
			Help:      "Kafka refresh announcements by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FeedFetches,
		m.FeedFetchDuration,
		m.DatasetStateVectors,
		m.DatasetLastRefresh,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.Announcements,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		HTTPRequestsTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surfwax", Name: "http_requests_total"}, []string{"path", "method", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "surfwax", Name: "http_request_duration_seconds"}, []string{"path", "method"}),
		FeedFetches:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surfwax", Name: "feed_fetches_total"}, []string{"outcome"}),
		FeedFetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "surfwax", Name: "feed_fetch_duration_seconds"}),
		DatasetStateVectors: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "surfwax", Name: "dataset_state_vectors"}),
		DatasetLastRefresh:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "surfwax", Name: "dataset_last_refresh_timestamp_seconds"}),
		GeocodeRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surfwax", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surfwax", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "surfwax", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "surfwax", Name: "geocode_enabled"}),
		Announcements:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surfwax", Name: "refresh_announcements_total"}, []string{"outcome"}),
	}
}
