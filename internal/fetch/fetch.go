// Package fetch provides rate-limited, retrying HTTP fetching for scrapers
// and the processing pipeline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the scraper to source sites.
const DefaultUserAgent = "NextStep Job Advisory Bot 1.0 (+https://nextstep.co.ke)"

// Options configures the fetch client.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	Headers           map[string]string
	MaxConnsPerHost   int
	MaxIdleConns      int
	RequestsPerMinute int
	Backoff           BackoffPolicy
}

// DefaultOptions returns sensible defaults for polite scraping.
func DefaultOptions() *Options {
	return &Options{
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxConnsPerHost:   5,
		MaxIdleConns:      10,
		RequestsPerMinute: 60,
		Backoff:           DefaultBackoffPolicy(),
	}
}

// Client is a pooled HTTP client with retry, backoff, and a minimum
// inter-request spacing derived from the requests-per-minute budget.
// A single Client is shared by all workers in a pipeline run.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       *Options
	logger     *log.Logger
}

// NewClient builds a Client from options.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxConnsPerHost == 0 {
		opts.MaxConnsPerHost = 5
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.Backoff.MaxRetries == 0 && opts.Backoff.Factor == 0 {
		opts.Backoff = DefaultBackoffPolicy()
	}

	transport := &http.Transport{
		MaxConnsPerHost:     opts.MaxConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: limiter,
		opts:    opts,
		logger:  log.New(os.Stderr, "[fetch] ", log.LstdFlags),
	}
}

// Fetch retrieves the body of urlStr, retrying transient failures with
// exponential backoff. A 2xx response returns the body; a 4xx other than
// 429 fails immediately; 5xx and 429 are retried until the policy is
// exhausted, then surfaced as a typed *Error.
func (c *Client) Fetch(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: urlStr, Kind: KindNetwork, Message: "invalid URL", Cause: err}
	}

	return Do(ctx, c.opts.Backoff, func(ctx context.Context) (string, error) {
		return c.fetchOnce(ctx, urlStr)
	})
}

func (c *Client) fetchOnce(ctx context.Context, urlStr string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Kind: KindNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errKind := KindNetwork
		message := "HTTP request failed"
		if isTimeout(err) {
			errKind = KindTimeout
			message = "request timed out"
		}
		c.logger.Printf("GET %s failed: %v", urlStr, err)
		return "", &Error{URL: urlStr, Kind: errKind, Message: message, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Printf("GET %s read failed: %v", urlStr, err)
		return "", &Error{URL: urlStr, Kind: KindNetwork, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Printf("GET %s -> %d", urlStr, resp.StatusCode)
		return "", &Error{URL: urlStr, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	c.logger.Printf("GET %s -> %d (%d bytes)", urlStr, resp.StatusCode, len(body))
	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return false
}

// StatusSnippet describes a fetch failure briefly for status rows.
func StatusSnippet(err error) string {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		if fetchErr.Kind == KindHTTPStatus {
			return fmt.Sprintf("HTTP %d", fetchErr.StatusCode)
		}
		return string(fetchErr.Kind)
	}
	return err.Error()
}
