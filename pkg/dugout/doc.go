// Package dugout provides an embeddable renderer for the dugout dashboard.
//
// Dugout fetches JSON resources, routes each one to a container of an HTML
// page and writes the formatted result into the page. It can be used as the
// standalone dugout CLI or embedded as a library in other Go programs.
//
// # Basic Usage
//
// To render every page of the default layout once:
//
//	d, err := dugout.New(dugout.Config{SiteDir: "/srv/dashboard"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reports, err := d.Render(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range reports {
//	    if !r.OK() {
//	        log.Printf("%s: %v", r.Page, r.Err())
//	    }
//	}
//
// A render never fails because one resource is missing or malformed. Those
// failures are shown on the page error surface and listed in the [Report].
// The returned error covers template and output I/O only.
//
// # Configuration
//
// Create a [Config] with at minimum SiteDir. Set BaseURL to fetch resources
// over HTTP instead of from the site directory, and LayoutFile to override
// or extend the built-in pages.
//
// # Dependency Injection
//
// For testing, inject custom implementations of external dependencies:
//
//	d, err := dugout.New(cfg,
//	    dugout.WithFetcher(dugout.FetcherFunc(fake)),
//	    dugout.WithLogger(customLogger),
//	)
//
// # Watching
//
// [Dugout.Start] begins a watch session: registered plugins are initialized
// and may call back into the renderer, for example when the data directory
// changes. [Dugout.Stop] shuts plugins down in reverse order and waits for
// renders in flight.
//
//	import "github.com/dugout-dev/dugout/plugins/sitewatcher"
//
//	d, err := dugout.New(cfg, sitewatcher.WithSiteWatcher(sitewatcher.DefaultConfig()))
//
// # Lifecycle States
//
// A session is in one of five states: [StateStopped], [StateStarting],
// [StateWatching], [StateStopping] or [StateFailed]. Use [Dugout.Status] to
// query the current state.
package dugout
