package cliconfig

import "os"

// EnvPrefix prefixes every environment variable dugout reads.
const EnvPrefix = "DUGOUT_"

// ApplyEnvConfig applies DUGOUT_* environment variables to cfg, skipping
// values whose flag was set explicitly.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("site", env("SITE_DIR"), &cfg.SiteDir)
	s.setString("data-dir", env("DATA_DIR"), &cfg.DataDir)
	s.setString("base-url", env("BASE_URL"), &cfg.BaseURL)
	s.setString("layout", env("LAYOUT_FILE"), &cfg.LayoutFile)
	s.setStringsFromList("page", env("PAGES"), &cfg.Pages)
	s.setString("status-dir", env("STATUS_DIR"), &cfg.StatusDir)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString("timezone", env("TIMEZONE"), &cfg.Timezone)
	s.setStringsFromList("team", env("TEAMS"), &cfg.Teams)
	s.setStringsFromList("rival", env("RIVALS"), &cfg.Rivals)
	s.setString("weather-key", env("WEATHER_API_KEY"), &cfg.WeatherAPIKey)
	s.setString("location", env("WEATHER_LOCATION"), &cfg.WeatherLocation)
	s.setString("mlb-url", env("MLB_BASE_URL"), &cfg.MLBBaseURL)
	s.setString("weather-url", env("WEATHER_BASE_URL"), &cfg.WeatherBaseURL)

	if err := s.setDuration("fetch-timeout", env("FETCH_TIMEOUT"), &cfg.FetchTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", env("DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setBoolFromString("strict", env("STRICT"), &cfg.Strict); err != nil {
		return err
	}
	if err := s.setBoolFromString("watch", env("WATCH"), &cfg.Watch); err != nil {
		return err
	}
	return nil
}
