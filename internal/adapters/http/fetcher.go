package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
)

// Fetcher implements ports.Fetcher by resolving descriptors against a base URL,
// the way a browser resolves relative fetch paths against the page location.
type Fetcher struct {
	base   *url.URL
	client ports.HTTPClient
	logger log.Logger
}

// NewFetcher creates an HTTP fetcher rooted at baseURL.
func NewFetcher(baseURL string, client ports.HTTPClient, logger log.Logger) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url %q must be http or https", domain.ErrInvalidConfig, baseURL)
	}
	// Relative descriptors resolve below the base path only with a trailing slash.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Fetcher{base: base, client: client, logger: logger}, nil
}

// URL returns the absolute URL a descriptor resolves to.
func (f *Fetcher) URL(d domain.Descriptor) (string, error) {
	ref, err := url.Parse(string(d))
	if err != nil {
		return "", err
	}
	return f.base.ResolveReference(ref).String(), nil
}

// Fetch issues a GET for the descriptor and returns the body on a 2xx answer.
func (f *Fetcher) Fetch(ctx context.Context, d domain.Descriptor) ([]byte, error) {
	target, err := f.URL(d)
	if err != nil {
		return nil, &domain.ResolutionError{Descriptor: d, Reason: "invalid descriptor", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &domain.ResolutionError{Descriptor: d, Reason: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.ResolutionError{Descriptor: d, Reason: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.ResolutionError{
			Descriptor: d,
			Status:     resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ResolutionError{Descriptor: d, Reason: "read body", Err: err}
	}

	f.logger.Debug("fetched resource",
		log.String("descriptor", d.String()),
		log.String("url", target),
		log.Int("bytes", len(body)),
	)
	return body, nil
}
