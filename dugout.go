// Package dugout renders the dugout dashboard in one call.
//
// Example usage:
//
//	cfg := dugout.DefaultConfig()
//	cfg.SiteDir = "/srv/dashboard"
//	reports, err := dugout.Run(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For watch sessions, plugins and dependency injection use
// github.com/dugout-dev/dugout/pkg/dugout.
package dugout

import (
	"context"

	lib "github.com/dugout-dev/dugout/pkg/dugout"
)

// Config holds the configuration of a render.
type Config = lib.Config

// Report is the outcome of rendering one page.
type Report = lib.Report

// DefaultConfig returns a Config rendering every page of the current directory.
// DataDir is derived from SiteDir when the render starts.
func DefaultConfig() Config {
	return Config{SiteDir: "."}
}

// Run renders every configured page once.
func Run(ctx context.Context, cfg Config) ([]*Report, error) {
	d, err := lib.New(cfg)
	if err != nil {
		return nil, err
	}
	return d.Render(ctx)
}
