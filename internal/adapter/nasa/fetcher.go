// Package nasa fetches the raw ISS OEM document from NASA's public feed.
package nasa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher downloads the OEM document over HTTP.
type Fetcher struct {
	sourceURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the given feed URL with a request timeout.
func NewFetcher(sourceURL string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SourceURL returns the feed URL this fetcher reads from.
func (f *Fetcher) SourceURL() string {
	return f.sourceURL
}

// Fetch downloads the raw OEM document body.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	f.logger.Debug("fetching ephemeris feed", "url", f.sourceURL)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ephemeris feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ephemeris feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ephemeris feed body: %w", err)
	}
	return data, nil
}
