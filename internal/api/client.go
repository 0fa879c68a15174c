// internal/api/client.go
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBaseURL is the collector the plugin posts to when none is configured.
const DefaultBaseURL = "https://edf7972db9ea633a52a187e67c8c66d2.m.pipedream.net"

var (
	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pluginfield4_deliveries_total",
		Help: "Event deliveries by event name and result",
	}, []string{"event", "result"})

	deliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pluginfield4_delivery_duration_seconds",
		Help:    "Time spent on a single event delivery request",
		Buckets: prometheus.DefBuckets,
	})
)

// Client posts events to the remote collector.
type Client struct {
	baseURL    string
	apiKey     atomic.Pointer[string]
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithAPIKey sets the initial API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.SetAPIKey(key)
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.SetAPIKey("")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAPIKey replaces the key used by subsequent requests. Requests already
// in flight keep the key they started with.
func (c *Client) SetAPIKey(key string) {
	c.apiKey.Store(&key)
}

// APIKey returns the current key.
func (c *Client) APIKey() string {
	return *c.apiKey.Load()
}

// BaseURL returns the collector base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendEvent posts body to {baseURL}/events/{eventName}. Any non-2xx
// response is an error. The response body is discarded.
func (c *Client) SendEvent(ctx context.Context, eventName, body string) error {
	start := time.Now()
	err := c.sendEvent(ctx, eventName, body)
	deliveryDuration.Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	deliveries.WithLabelValues(eventName, result).Inc()
	return err
}

func (c *Client) sendEvent(ctx context.Context, eventName, body string) error {
	endpoint := c.baseURL + "/events/" + url.PathEscape(eventName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", eventName, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send %s: returned status %d", eventName, resp.StatusCode)
	}
	return nil
}

// Healthcheck checks if the collector is reachable.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}
