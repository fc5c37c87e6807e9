// Package nominatim implements reverse geocoding against the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dhannywi/surfwax-iss/internal/config"
	"github.com/dhannywi/surfwax-iss/internal/domain"
	"github.com/dhannywi/surfwax-iss/internal/observability"
)

// Client implements domain.Geocoder using the Nominatim reverse geocoding API.
type Client struct {
	baseURL    string
	userAgent  string
	language   string
	zoom       int
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Nominatim client from the service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:   cfg.GeocodeURL,
		userAgent: cfg.GeocodeUserAgent,
		language:  cfg.GeocodeLanguage,
		zoom:      cfg.GeocodeZoom,
		httpClient: &http.Client{
			Timeout: cfg.GeocodeTimeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// ReverseGeocode converts coordinates to a place description. Coordinates
// that resolve to nothing (open ocean) return a zero Place and no error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"format":          {"jsonv2"},
		"lat":             {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', 6, 64)},
		"zoom":            {strconv.Itoa(c.zoom)},
		"accept-language": {c.language},
	}

	start := time.Now()
	place, err := c.doRequest(ctx, c.baseURL+"/reverse?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case place.DisplayName == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return place, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Place{}, fmt.Errorf("create request: %w", err)
	}
	// The Nominatim usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Place{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Place{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var nominatimResp response
	if err := json.NewDecoder(resp.Body).Decode(&nominatimResp); err != nil {
		return domain.Place{}, fmt.Errorf("decode response: %w", err)
	}

	// Nominatim reports unresolvable coordinates as an "error" field in a
	// 200 response. That is a no-result, not a failure.
	if nominatimResp.Error != "" || nominatimResp.DisplayName == "" {
		return domain.Place{}, nil
	}

	return domain.Place{DisplayName: nominatimResp.DisplayName}, nil
}

// Nominatim API response types.

type response struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}
