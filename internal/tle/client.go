package tle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/orbitcast/orbitcast/internal/metrics"
)

// DefaultSourceURL is the Celestrak GP endpoint for the ISS (NORAD 25544).
const DefaultSourceURL = "https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=TLE"

const (
	// DefaultTTL bounds how long a fetched element set is served without
	// going back to the provider. Element sets update ~twice a day, so an
	// hour is conservative without hammering the provider.
	DefaultTTL = time.Hour

	fetchTimeout = 10 * time.Second

	// maxResponseBytes caps the provider response. A single element set is
	// ~200 bytes; anything near this limit is not a TLE.
	maxResponseBytes = 1 << 20
)

// Client retrieves the current element set with time-bounded caching and
// fail-soft fallback: once any set has been fetched, provider outages are
// absorbed by serving the stale entry instead of failing.
type Client struct {
	sourceURL  string
	ttl        time.Duration
	httpClient *http.Client
	store      *Store
	snapshot   *Snapshot
	logger     *slog.Logger
}

// NewClient creates a Client reading through the given store. snapshot may be
// nil to disable the on-disk copy of the last good fetch.
func NewClient(sourceURL string, ttl time.Duration, store *Store, snapshot *Snapshot, logger *slog.Logger) *Client {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		sourceURL:  sourceURL,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: fetchTimeout},
		store:      store,
		snapshot:   snapshot,
		logger:     logger,
	}
}

// SourceURL returns the configured provider URL.
func (c *Client) SourceURL() string {
	return c.sourceURL
}

// Current returns the current element set. A cache entry younger than the TTL
// is returned without network access. Otherwise the provider is queried: a
// valid response replaces the cache unconditionally; a network failure falls
// back to the stale entry when one exists and returns a *FetchError when
// none does. Malformed provider responses surface as *FormatError regardless
// of cache state.
func (c *Client) Current(ctx context.Context) (*ElementSet, error) {
	if e := c.store.Entry(); e != nil && time.Since(e.FetchedAt) < c.ttl {
		metrics.RecordElementFetch("hit")
		return e.Set, nil
	}

	// Single-flight: concurrent expiries queue here and the losers see the
	// winner's fresh entry on the re-check.
	c.store.Lock()
	defer c.store.Unlock()

	if e := c.store.Entry(); e != nil && time.Since(e.FetchedAt) < c.ttl {
		metrics.RecordElementFetch("hit")
		return e.Set, nil
	}

	body, err := c.fetch(ctx)
	if err != nil {
		if e := c.store.Entry(); e != nil {
			metrics.RecordElementFetch("stale")
			c.logger.Warn("element fetch failed, serving stale cache",
				"error", err,
				"age_seconds", int(time.Since(e.FetchedAt).Seconds()),
			)
			return e.Set, nil
		}
		metrics.RecordElementFetch("error")
		return nil, err
	}

	set, err := Parse(string(body))
	if err != nil {
		// A malformed response is a provider contract violation, not an
		// availability problem; it surfaces even when stale data exists.
		metrics.RecordElementFetch("format_error")
		return nil, err
	}

	now := time.Now().UTC()
	c.store.Replace(set, now)
	metrics.RecordElementFetch("fetched")
	metrics.SetElementCacheAge(0)

	if c.snapshot != nil {
		if err := c.snapshot.Write(body, now); err != nil {
			c.logger.Warn("writing element snapshot failed", "error", err)
		}
	}

	c.logger.Info("element set refreshed",
		"name", set.Name,
		"epoch", set.Epoch.Format(time.RFC3339),
		"period_minutes", set.Params.PeriodMinutes,
	)

	return set, nil
}

// fetch performs the HTTP GET. All failure modes are wrapped in *FetchError.
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, &FetchError{URL: c.sourceURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: c.sourceURL, Err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{URL: c.sourceURL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return body, nil
}
