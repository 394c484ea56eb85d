package sitewatcher

import "github.com/dugout-dev/dugout/pkg/dugout"

// WithSiteWatcher returns a dugout Option that re-renders pages whenever
// JSON in the data directory changes during a watch session.
//
// Usage:
//
//	d, err := dugout.New(cfg,
//	    sitewatcher.WithSiteWatcher(sitewatcher.Config{Debounce: time.Second}),
//	)
func WithSiteWatcher(cfg Config) dugout.Option {
	return dugout.WithPlugin(New(cfg))
}

// WithDefaultSiteWatcher enables site watching with a 500ms debounce.
func WithDefaultSiteWatcher() dugout.Option {
	return WithSiteWatcher(DefaultConfig())
}
