package dugout

import (
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Fetcher resolves resource descriptors to raw JSON bodies.
type Fetcher = ports.Fetcher

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc = ports.FetcherFunc

// Logger is the interface for structured logging.
type Logger = log.Logger

// Option configures optional behavior of Dugout.
type Option func(*options)

type options struct {
	httpClient HTTPClient
	fetcher    Fetcher
	logger     Logger
	plugins    []Plugin
}

func defaultOptions(client HTTPClient) options {
	return options{
		httpClient: client,
		logger:     log.NewNoopLogger(),
	}
}

// WithHTTPClient sets the HTTP client used when Config.BaseURL is set.
// If not provided, a client bounded only by Config.HTTPTimeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithFetcher replaces resource resolution entirely. Config.BaseURL and the
// HTTP client are ignored when a fetcher is given.
func WithFetcher(f Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPlugin registers a plugin to be initialized when a watch session starts.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
