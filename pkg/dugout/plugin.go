package dugout

import "context"

// Plugin extends a watch session.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called by Start. Long-running work must be started in a
	// goroutine bound to ctx; ctx is cancelled when the session stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called by Stop and must wait for the plugin's goroutines.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets from the session it joins.
type PluginConfig struct {
	SiteDir string
	DataDir string
	Logger  Logger

	// Render renders every configured page again. Calls are serialized with
	// other renders of the same instance.
	Render func(ctx context.Context) error
}
