// Package httpjson issues GET requests against JSON APIs.
package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
)

// StatusError is returned for non-2xx answers.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Retry controls how failed requests are repeated.
type Retry struct {
	// Attempts is the total number of tries, at least 1.
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultRetry tries three times, waiting about 250ms then 500ms.
var DefaultRetry = Retry{Attempts: 3, Initial: 250 * time.Millisecond, Max: 2 * time.Second}

// Option configures a Client.
type Option func(*Client)

// WithRetry replaces DefaultRetry.
func WithRetry(r Retry) Option {
	return func(c *Client) {
		if r.Attempts < 1 {
			r.Attempts = 1
		}
		c.retry = r
	}
}

// Client resolves API paths against a base URL.
type Client struct {
	base   *url.URL
	http   ports.HTTPClient
	logger log.Logger
	retry  Retry
}

// New creates a client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient ports.HTTPClient, logger log.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	c := &Client{base: base, http: httpClient, logger: logger, retry: DefaultRetry}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL builds the absolute URL of path with query q.
func (c *Client) URL(path string, q url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Get fetches path and returns the raw body. When v is non-nil the body is
// also decoded into it. Transport errors, 429 and 5xx answers are retried.
func (c *Client) Get(ctx context.Context, path string, q url.Values, v any) ([]byte, error) {
	target := c.URL(path, q)
	b := newBackoff(c.retry.Initial, c.retry.Max)

	var (
		body []byte
		err  error
	)
	for attempt := 1; ; attempt++ {
		body, err = c.get(ctx, target)
		if err == nil || attempt >= c.retry.Attempts || !retryable(ctx, err) {
			break
		}
		c.logger.Warn("api request failed, retrying",
			log.String("url", redact(target)),
			log.Int("attempt", attempt),
			log.Err(err),
		)
		if b.wait(ctx) != nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return body, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: redact(target), Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request",
		log.String("url", redact(target)),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(body)),
	)
	return body, nil
}

// redact hides the "key" query parameter.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
