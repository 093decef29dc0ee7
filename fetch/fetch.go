// Package fetch retrieves HTTPS-hosted policy artifacts referenced by DNS
// records, such as MTA-STS policy files and BIMI logos.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Hosts serving policy artifacts sometimes reject clients without a
// browser-like User-Agent.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// maxBodySize bounds how much of an artifact body is read. Policy files are
// tiny; logos are capped to avoid reading arbitrarily large responses.
const maxBodySize = 1 << 20

// Result is the outcome of an HTTP GET that received a response.
type Result struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the response body, truncated to a bounded size.
	Body string
}

// Fetcher is the interface for retrieving policy artifacts over HTTP(S).
// A nil *Result with a non-nil error means no response was received at all
// (network or TLS failure).
type Fetcher interface {
	Get(ctx context.Context, url string) (*Result, error)
}

// Config contains configuration for the HTTP client.
type Config struct {
	// Timeout is the overall timeout per request. Default is 5 seconds.
	Timeout time.Duration

	// UserAgent overrides the default browser-like User-Agent header.
	UserAgent string
}

// Client implements Fetcher using net/http. Redirects are followed.
type Client struct {
	config Config
	client *http.Client
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a new HTTP client for artifact fetching.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Get performs an HTTP GET against the given URL.
func (c *Client) Get(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: creating request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		// A partial read still carries the status code, which is all the
		// audit checks classify on.
		return &Result{StatusCode: resp.StatusCode}, nil
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
