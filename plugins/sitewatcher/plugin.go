// Package sitewatcher re-renders dugout pages when generated data changes.
// It watches the data directory for .json files being created or written
// and, after a quiet period, renders every page again.
package sitewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dugout-dev/dugout/pkg/dugout"
	"github.com/dugout-dev/dugout/pkg/log"
)

// Plugin implements data directory watching.
type Plugin struct {
	debounce time.Duration

	mu      sync.Mutex
	logger  dugout.Logger
	render  func(context.Context) error
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Config holds configuration options for the site watcher plugin.
type Config struct {
	// Debounce is the quiet period after the last change before rendering.
	// Default: 500 milliseconds
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{Debounce: 500 * time.Millisecond}
}

// New creates a site watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	return &Plugin{debounce: cfg.Debounce}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "sitewatcher"
}

// Initialize starts watching cfg.DataDir.
func (p *Plugin) Initialize(ctx context.Context, cfg dugout.PluginConfig) error {
	if cfg.DataDir == "" || cfg.Render == nil {
		return fmt.Errorf("sitewatcher: data dir and render callback are required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(cfg.DataDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", cfg.DataDir, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	watchCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.logger = logger
	p.render = cfg.Render
	p.watcher = watcher
	p.cancel = cancel
	p.mu.Unlock()

	logger.Info("watching data directory",
		log.String("dir", cfg.DataDir),
		log.Duration("debounce", p.debounce))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher and waits for a render in progress.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending []string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			pending = append(pending, filepath.Base(event.Name))
			if timer == nil {
				timer = time.NewTimer(p.debounce)
			} else {
				timer.Reset(p.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			p.logger.Info("data changed, rendering", log.Strings("files", pending))
			pending = nil
			if err := p.render(ctx); err != nil {
				p.logger.Warn("render failed", log.Err(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("watcher error", log.Err(err))
		}
	}
}

// relevant reports whether event creates or writes a .json file.
func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

var _ dugout.Plugin = (*Plugin)(nil)
