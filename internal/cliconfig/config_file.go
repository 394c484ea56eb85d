package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	SiteDir    string   `toml:"site_dir"`
	DataDir    string   `toml:"data_dir"`
	BaseURL    string   `toml:"base_url"`
	LayoutFile string   `toml:"layout_file"`
	Pages      []string `toml:"pages"`
	StatusDir  string   `toml:"status_dir"`

	FetchTimeout string `toml:"fetch_timeout"`
	Strict       *bool  `toml:"strict"`
	Watch        *bool  `toml:"watch"`
	Debounce     string `toml:"debounce"`
	LogLevel     string `toml:"log_level"`

	Timezone        string   `toml:"timezone"`
	Teams           []string `toml:"teams"`
	Rivals          []string `toml:"rivals"`
	WeatherAPIKey   string   `toml:"weather_api_key"`
	WeatherLocation string   `toml:"weather_location"`
	MLBBaseURL      string   `toml:"mlb_base_url"`
	WeatherBaseURL  string   `toml:"weather_base_url"`
	HTTPTimeout     string   `toml:"http_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.dugout/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".dugout", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("site", fc.SiteDir, &cfg.SiteDir)
	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("layout", fc.LayoutFile, &cfg.LayoutFile)
	s.setStrings("page", fc.Pages, &cfg.Pages)
	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("timezone", fc.Timezone, &cfg.Timezone)
	s.setStrings("team", fc.Teams, &cfg.Teams)
	s.setStrings("rival", fc.Rivals, &cfg.Rivals)
	s.setString("weather-key", fc.WeatherAPIKey, &cfg.WeatherAPIKey)
	s.setString("location", fc.WeatherLocation, &cfg.WeatherLocation)
	s.setString("mlb-url", fc.MLBBaseURL, &cfg.MLBBaseURL)
	s.setString("weather-url", fc.WeatherBaseURL, &cfg.WeatherBaseURL)

	if err := s.setDuration("fetch-timeout", fc.FetchTimeout, &cfg.FetchTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("strict", fc.Strict, &cfg.Strict)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
