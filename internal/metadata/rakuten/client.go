// Package rakuten provides access to the Rakuten Books API for book metadata
// lookups by ISBN.
//
// The service is treated as a black box with real latency: lookups are rate
// limited, individually failure-isolated, and cached upstream. Errors from
// this package never reach the search pipeline; the metadata service
// converts them to placeholder results.
package rakuten

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://app.rakuten.co.jp/services/api/BooksBook/Search/20170404"

// Client provides access to the Rakuten Books search API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	appID       string
	baseURL     string
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Rakuten Books client.
// Rate limited to 1 request per second (Rakuten's documented app limit),
// with a small burst for interactive use.
func NewClient(appID string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		appID:       appID,
		baseURL:     defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
