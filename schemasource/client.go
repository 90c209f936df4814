package schemasource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Defaults for locating the schema source.
const (
	DefaultBaseURL = "http://localhost:8000"
	EnvBaseURL     = "TOOLS_SCHEMA_URL"
	SchemaPath     = "/tools-schema"
)

const defaultMaxBytes = 8 << 20

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	maxBytes   int64
}

// WithHTTPClient sets the HTTP client used for requests (default: a client with a 30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxBytes caps the size of the response body. Larger documents are rejected.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// Client fetches the tools schema document from one base URL.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
	maxBytes int64
}

// New creates a Client for baseURL (e.g. http://localhost:8000). An empty baseURL
// uses DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid schema source URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid schema source URL %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + SchemaPath
	return &Client{
		endpoint: u.String(),
		http:     o.httpClient,
		logger:   o.logger,
		maxBytes: o.maxBytes,
	}, nil
}

// Endpoint returns the full URL that Fetch requests.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch performs one GET request and decodes the whole response. Transport failures
// and non-2xx statuses return a *SourceError; undecodable bodies return an error
// matching ErrMalformedDocument.
func (c *Client) Fetch(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &SourceError{URL: c.endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	c.logger.Debug("fetching tool schemas", "url", c.endpoint)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SourceError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &SourceError{URL: c.endpoint, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &SourceError{URL: c.endpoint, Err: err}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrMalformedDocument, c.maxBytes)
	}
	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched tool schemas", "url", c.endpoint, "tools", len(doc.Tools), "duration", time.Since(start))
	return doc, nil
}
