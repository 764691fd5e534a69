// Package nsip is a thin client for the public NSIP search API. The API is
// read-only and unauthenticated; the only endpoint the hooks call directly
// is GetLastUpdate, which doubles as the health probe. All calls carry a
// fixed socket timeout and pass through a client-side rate limiter.
package nsip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// userAgent identifies the plugin to the NSIP operators.
const userAgent = "nsipops/1.0"

// LastUpdate is the payload of the GetLastUpdate endpoint.
type LastUpdate struct {
	LastUpdate string `json:"LastUpdate"`
}

// Client calls the public NSIP search API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outbound requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a client for the given API base URL with a fixed timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// HealthEndpoint returns the full URL of the health probe.
func (c *Client) HealthEndpoint() string { return c.baseURL + "/GetLastUpdate" }

// GetLastUpdate fetches the dataset timestamp. A successful call means the
// API is reachable and serving.
func (c *Client) GetLastUpdate(ctx context.Context) (*LastUpdate, error) {
	var out LastUpdate
	if err := c.getJSON(ctx, "/GetLastUpdate", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckHealth probes the API and reports reachability with latency.
func (c *Client) CheckHealth(ctx context.Context) HealthReport {
	start := time.Now()
	update, err := c.GetLastUpdate(ctx)

	report := HealthReport{
		Endpoint:  c.HealthEndpoint(),
		CheckedAt: time.Now().UTC(),
		Latency:   time.Since(start),
	}
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Healthy = true
	report.DataUpdatedAt = update.LastUpdate
	return report
}

// HealthReport summarizes one health probe of the NSIP API.
type HealthReport struct {
	Healthy       bool          `json:"healthy"`
	Endpoint      string        `json:"endpoint"`
	CheckedAt     time.Time     `json:"checked_at"`
	Latency       time.Duration `json:"latency"`
	DataUpdatedAt string        `json:"data_updated_at,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// getJSON performs a rate-limited GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for diagnostics; the API returns
		// plain-text errors.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s: HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
