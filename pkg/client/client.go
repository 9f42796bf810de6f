// Package client provides the HTTP client for the Promorang API.
//
// Every verb returns either a populated *api.Response or an *api.Error; the
// client never retries and never returns a silent nil result.
package client

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/promorang/promorang-cli/pkg/logger"
)

// HeaderProvider builds the auth headers for a request. It must be safe for
// concurrent use and must not retain the returned header.
type HeaderProvider func(ctx context.Context) http.Header

// Client is an HTTP client for the Promorang API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	authHeaders HeaderProvider
	limiter     *rate.Limiter
	log         logger.Logger
}

// Option configures the client.
type Option func(*Client)

// New creates a new API client. baseURL is fixed for the lifetime of the
// client; resolve it once with the baseurl package.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar: jar,
		},
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			c.authHeaders = nil
			return
		}
		c.authHeaders = BearerHeaders(token)
	}
}

// WithAuthHeaders sets the auth header provider.
func WithAuthHeaders(p HeaderProvider) Option {
	return func(c *Client) {
		c.authHeaders = p
	}
}

// WithHTTPClient sets a custom HTTP client. A client without a cookie jar
// never sends credentials.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. The default is no timeout; callers are
// expected to bound requests with their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit throttles outgoing requests. Zero rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l == nil {
			l = logger.Nop()
		}
		c.log = l
	}
}

// BearerHeaders returns a HeaderProvider that sends a fixed bearer token.
func BearerHeaders(token string) HeaderProvider {
	return func(context.Context) http.Header {
		h := http.Header{}
		h.Set("Authorization", "Bearer "+token)
		return h
	}
}
