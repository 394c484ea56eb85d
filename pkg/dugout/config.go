package dugout

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dugout-dev/dugout/internal/domain"
)

// Config configures a Dugout instance.
type Config struct {
	// SiteDir holds page templates and receives rendered pages. Resources
	// are resolved below it unless BaseURL is set.
	SiteDir string

	// DataDir is where generated JSON lives. Default: SiteDir/JSON.
	DataDir string

	// BaseURL, when set, resolves resources over HTTP against this URL.
	BaseURL string

	// LayoutFile is an optional TOML or YAML file of pages. Its pages
	// replace built-in pages of the same name.
	LayoutFile string

	// Pages selects pages by name. Empty renders all of them.
	Pages []string

	// FetchTimeout bounds each group of a page. Zero means no limit.
	FetchTimeout time.Duration

	// StatusDir, when set, receives status.json describing the last render
	// of every page.
	StatusDir string

	// HTTPTimeout bounds each request of the default HTTP client used when
	// BaseURL is set. Zero means no limit.
	HTTPTimeout time.Duration
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.DataDir == "" && c.SiteDir != "" {
		c.DataDir = filepath.Join(c.SiteDir, "JSON")
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("%w: SiteDir is required", domain.ErrInvalidConfig)
	}
	if c.FetchTimeout < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
