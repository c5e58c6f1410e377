package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// DefaultFeedURL is the USGS summary feed of all events in the past day.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// maxBodyBytes caps the feed document; the daily feed is typically well under 2 MiB.
const maxBodyBytes = 32 << 20

const userAgent = "quake-map/1.0 (+https://github.com/couchcryptid/quake-map)"

// Client fetches the USGS GeoJSON feed.
// It implements pipeline.Extractor.
type Client struct {
	feedURL    string
	httpClient *http.Client
	maxBody    int64
	logger     *slog.Logger
}

// NewClient creates a feed client. A zero timeout leaves requests bounded
// only by the caller's context.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		maxBody: maxBodyBytes,
		logger:  logger,
	}
}

// FetchEvents performs one GET of the feed and returns its events in feed
// order. Every failure is reported as a *domain.FetchError.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, domain.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snip, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, domain.NewFetchError(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snip), nil)
	}

	// One byte past the cap distinguishes an oversized feed from one that
	// fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, domain.NewFetchError("read body", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, domain.NewFetchError(fmt.Sprintf("feed exceeds %d bytes", c.maxBody), nil)
	}

	events, err := domain.ParseFeed(body)
	if err != nil {
		return nil, domain.NewFetchError("decode body", err)
	}

	c.logger.Debug("feed fetched", "url", c.feedURL, "events", len(events), "bytes", len(body))
	return events, nil
}
