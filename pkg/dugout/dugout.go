package dugout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dugout-dev/dugout/internal/adapters/fs"
	httpAdapter "github.com/dugout-dev/dugout/internal/adapters/http"
	"github.com/dugout-dev/dugout/internal/adapters/page"
	"github.com/dugout-dev/dugout/internal/app"
	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/layout"
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
	"github.com/dugout-dev/dugout/pkg/state"
)

// Report is the outcome of rendering one page.
type Report = app.Report

// Descriptor names a JSON resource relative to the site, e.g. "./JSON/hourly_weather.json".
type Descriptor = domain.Descriptor

// State is the state of a watch session.
type State = app.State

// Session states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateWatching = app.StateWatching
	StateStopping = app.StateStopping
	StateFailed   = app.StateFailed
)

// Dugout renders dashboard pages. Use New to create an instance.
type Dugout struct {
	config    Config
	pages     []layout.Page
	runner    *app.Runner
	status    state.Repository
	lifecycle *app.Lifecycle
	logger    log.Logger
	plugins   []Plugin

	// mu guards Start and Stop; renderMu serializes whole renders.
	mu       sync.Mutex
	renderMu sync.Mutex
}

// New creates a Dugout instance with the given configuration.
// The layout file, if any, is loaded and validated here.
func New(cfg Config, opts ...Option) (*Dugout, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions(defaultHTTPClient(cfg))
	for _, opt := range opts {
		opt(&o)
	}

	pages, err := loadPages(cfg)
	if err != nil {
		return nil, err
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher, err = newFetcher(cfg, o.httpClient, o.logger)
		if err != nil {
			return nil, err
		}
	}

	runner := app.NewRunner(fetcher, fs.NewSite(cfg.SiteDir), openPage, o.logger,
		app.RunnerConfig{FetchTimeout: cfg.FetchTimeout})

	var status state.Repository
	if cfg.StatusDir != "" {
		status = state.NewFileRepository(cfg.StatusDir)
	}

	return &Dugout{
		config:    cfg,
		pages:     pages,
		runner:    runner,
		status:    status,
		lifecycle: app.NewLifecycle(o.logger),
		logger:    o.logger,
		plugins:   o.plugins,
	}, nil
}

// defaultHTTPClient resolves descriptors over HTTP. Without an HTTPTimeout a
// hung request blocks its group until FetchTimeout or the caller cancels.
func defaultHTTPClient(cfg Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

func loadPages(cfg Config) ([]layout.Page, error) {
	pages := layout.DefaultPages()
	if cfg.LayoutFile != "" {
		custom, err := layout.LoadFile(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		pages = layout.Merge(pages, custom)
	}
	return layout.Select(pages, cfg.Pages)
}

func newFetcher(cfg Config, client HTTPClient, logger log.Logger) (ports.Fetcher, error) {
	if cfg.BaseURL == "" {
		return fs.NewFetcher(cfg.SiteDir), nil
	}
	f, err := httpAdapter.NewFetcher(cfg.BaseURL, client, logger)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openPage(r io.Reader) (ports.Document, error) {
	doc, err := page.Parse(r)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Pages returns the names of the pages this instance renders, in order.
func (d *Dugout) Pages() []string {
	names := make([]string, len(d.pages))
	for i, p := range d.pages {
		names[i] = p.Name
	}
	return names
}

// Render renders every configured page once and returns one report per
// page written. Pipeline failures are only reported; the error covers
// template, output and status I/O.
func (d *Dugout) Render(ctx context.Context) ([]*Report, error) {
	d.renderMu.Lock()
	defer d.renderMu.Unlock()

	reports, err := d.runner.RunAll(ctx, d.pages)
	if d.status != nil && len(reports) > 0 {
		err = multierr.Append(err, d.saveStatus(ctx, reports))
	}
	return reports, err
}

func (d *Dugout) saveStatus(ctx context.Context, reports []*Report) error {
	s, err := d.status.Load(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, r := range reports {
		errs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			errs[i] = e.Error()
		}
		s.Record(state.PageStatus{
			Page:       r.Page,
			RunID:      r.RunID,
			Output:     r.Output,
			Rendered:   r.Rendered,
			Errors:     errs,
			RenderedAt: now,
		})
	}
	return d.status.Save(ctx, s)
}

// rerender is handed to plugins. It renders only while the session watches.
func (d *Dugout) rerender(ctx context.Context) error {
	if d.lifecycle.State() != StateWatching {
		return domain.ErrNotRunning
	}
	var err error
	d.lifecycle.Track(func() {
		var reports []*Report
		reports, err = d.Render(ctx)
		for _, r := range reports {
			if !r.OK() {
				d.logger.Warn("page rendered with errors",
					log.String("page", r.Page),
					log.Int("errors", len(r.Errors)))
			}
		}
	})
	return err
}

// Start begins a watch session and initializes plugins. It returns as soon
// as every plugin is initialized. Cancelling ctx stops the plugins' work;
// Stop ends the session.
func (d *Dugout) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.lifecycle.TransitionTo(StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		SiteDir: d.config.SiteDir,
		DataDir: d.config.DataDir,
		Logger:  d.logger,
		Render:  d.rerender,
	}
	for i, p := range d.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			d.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			d.shutdownPlugins(d.plugins[:i])
			_ = d.lifecycle.TransitionTo(StateFailed, "plugin init failed: "+p.Name())
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		d.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	return d.lifecycle.TransitionTo(StateWatching, "plugins initialized")
}

// Stop ends the watch session. Plugins are shut down first so no new
// renders start, then Stop waits up to app.ShutdownTimeout for renders in
// flight. It returns domain.ErrShutdownTimeout if they do not finish.
func (d *Dugout) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		return err
	}
	d.lifecycle.Cancel()
	d.shutdownPlugins(d.plugins)

	if err := d.lifecycle.Wait(app.ShutdownTimeout); err != nil {
		_ = d.lifecycle.TransitionTo(StateFailed, "shutdown timeout")
		return err
	}
	return d.lifecycle.TransitionTo(StateStopped, "graceful shutdown")
}

// shutdownPlugins stops plugins in reverse order.
func (d *Dugout) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			d.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			continue
		}
		d.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
	}
}

// Status returns the current session state.
// Safe to call concurrently from any goroutine.
func (d *Dugout) Status() State {
	return d.lifecycle.State()
}
