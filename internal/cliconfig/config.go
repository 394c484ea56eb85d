package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/sources/mlb"
	"github.com/dugout-dev/dugout/internal/sources/weather"
)

// DefaultTimezone is the zone game times are shown in.
const DefaultTimezone = "America/Chicago"

// Config holds CLI configuration for dugout.
type Config struct {
	SiteDir    string
	DataDir    string
	BaseURL    string
	LayoutFile string
	Pages      []string
	StatusDir  string

	FetchTimeout time.Duration
	Strict       bool
	Watch        bool
	Debounce     time.Duration
	LogLevel     string

	Timezone        string
	Teams           []string
	Rivals          []string
	WeatherAPIKey   string
	WeatherLocation string
	MLBBaseURL      string
	WeatherBaseURL  string
	HTTPTimeout     time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SiteDir:         ".",
		Debounce:        500 * time.Millisecond,
		LogLevel:        "info",
		Timezone:        DefaultTimezone,
		Teams:           []string{"Brewers"},
		Rivals:          []string{"Cubs"},
		WeatherLocation: "Madison,WI",
		MLBBaseURL:      mlb.DefaultBaseURL,
		WeatherBaseURL:  weather.DefaultBaseURL,
		HTTPTimeout:     15 * time.Second,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("%w: site dir is required", domain.ErrInvalidConfig)
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(c.SiteDir, "JSON")
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Watch && c.BaseURL != "" {
		return fmt.Errorf("%w: watch needs a local site, not --base-url", domain.ErrInvalidConfig)
	}

	if c.FetchTimeout < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", domain.ErrInvalidConfig)
	}
	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive", domain.ErrInvalidConfig)
	}

	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", domain.ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone, UTC if it does not load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, values []string, dst *[]string) {
	if len(values) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), values...)
}

// setStringsFromList splits a comma-separated list, as found in the environment.
func (s *configSetter) setStringsFromList(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	*dst = out
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString accepts anything strconv.ParseBool does.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
