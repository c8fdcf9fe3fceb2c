// Package transport provides the authenticated HTTP layer used for probes.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	apiKey  string
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New creates a new transport client with the specified authenticator and credential.
func New(auth Authenticator, apiKey string, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		apiKey:  apiKey,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAnthropic creates a client that authenticates with x-api-key and
// sends the fixed anthropic-version header.
func NewAnthropic(apiKey string, opts ...Option) *Client {
	opts = append([]Option{WithHeader(constants.VersionHeader, constants.APIVersion)}, opts...)
	return New(&HeaderAuth{Header: constants.APIKeyHeader}, apiKey, opts...)
}

// Timeout returns the per-request timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// CloseIdleConnections releases pooled connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// Do performs an HTTP request with authentication applied and context support.
// A non-nil error is always a *errors.TransportError; HTTP error statuses are
// returned as responses.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	c.auth.Apply(req, c.apiKey)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Classify(err, req.URL.String())
	}
	return resp, nil
}

// ReadBody reads and closes a response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return body, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}
