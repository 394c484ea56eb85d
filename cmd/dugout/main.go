package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/dugout-dev/dugout/internal/cliconfig"
	"github.com/dugout-dev/dugout/internal/generate"
	"github.com/dugout-dev/dugout/internal/sources/mlb"
	"github.com/dugout-dev/dugout/internal/sources/weather"
	"github.com/dugout-dev/dugout/pkg/dugout"
	"github.com/dugout-dev/dugout/pkg/log"
	"github.com/dugout-dev/dugout/plugins/sitewatcher"
)

const helpDescription = `
Render the dugout dashboard: fetch JSON game and weather data, route each
resource to its section of the page and write the formatted result.

A missing or malformed file never breaks a page. The failure is shown in the
page's error box and the rest of the page renders as usual.

Configure via $HOME/.dugout/config.toml, DUGOUT_* environment variables or flags
(flags win over the environment, which wins over the file).
`

var exampleUsage = strings.TrimSpace(`
  dugout fetch upcoming && dugout fetch hourly
  dugout render --site ./site --page index --page weather
  dugout render --site ./site --watch
  dugout render --base-url https://example.com/dashboard --strict
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds the state shared by all commands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	date    string
	zl      zerolog.Logger
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		zl:  cliconfig.Logger("info"),
	}

	if err := c.root().Execute(); err != nil {
		c.zl.Error().Err(err).Msg("dugout")
		os.Exit(1)
	}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:               "dugout",
		Short:             "Render the dugout sports and weather dashboard",
		Long:              strings.TrimSpace(helpDescription),
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.dugout/config.toml)")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn, error")
	f.StringVar(&c.cfg.SiteDir, "site", c.cfg.SiteDir, "site directory holding templates and rendered pages")
	f.StringVar(&c.cfg.DataDir, "data-dir", c.cfg.DataDir, "directory of generated JSON (defaults to <site>/JSON)")
	f.StringVar(&c.cfg.Timezone, "timezone", c.cfg.Timezone, "timezone for dates and game times")
	f.DurationVar(&c.cfg.HTTPTimeout, "http-timeout", c.cfg.HTTPTimeout, "HTTP client timeout of the fetch commands")

	root.AddCommand(c.renderCmd(), c.fetchCmd())
	return root
}

// loadConfig applies the config file, then the environment, skipping every
// flag set on the command line, and validates the result.
func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.zl = cliconfig.Logger(c.cfg.LogLevel)

	logCfg := c.cfg
	if logCfg.WeatherAPIKey != "" {
		logCfg.WeatherAPIKey = "*****"
	}
	c.zl.Debug().Interface("config", logCfg).Msg("configuration")
	return nil
}

func (c *cli) logger() log.Logger {
	return log.NewZerologAdapterWithLogger(c.zl)
}

func (c *cli) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render dashboard pages from JSON data",
		Args:  cobra.NoArgs,
		RunE:  c.render,
	}

	f := cmd.Flags()
	f.StringVar(&c.cfg.BaseURL, "base-url", c.cfg.BaseURL, "fetch resources from this URL instead of the site directory")
	f.StringVar(&c.cfg.LayoutFile, "layout", c.cfg.LayoutFile, "TOML or YAML file of pages overriding the built-in layout")
	f.StringSliceVar(&c.cfg.Pages, "page", c.cfg.Pages, "page to render (repeatable, default: all)")
	f.StringVar(&c.cfg.StatusDir, "status-dir", c.cfg.StatusDir, "write status.json about each render to this directory")
	f.DurationVar(&c.cfg.FetchTimeout, "fetch-timeout", c.cfg.FetchTimeout, "time limit per page section (0: none)")
	f.BoolVar(&c.cfg.Strict, "strict", c.cfg.Strict, "exit non-zero when any page reported an error")
	f.BoolVar(&c.cfg.Watch, "watch", c.cfg.Watch, "keep running and re-render when data files change")
	f.DurationVar(&c.cfg.Debounce, "debounce", c.cfg.Debounce, "quiet period after a data change before re-rendering")
	return cmd
}

func (c *cli) render(cmd *cobra.Command, args []string) error {
	opts := []dugout.Option{dugout.WithLogger(c.logger())}
	if c.cfg.Watch {
		opts = append(opts, sitewatcher.WithSiteWatcher(sitewatcher.Config{Debounce: c.cfg.Debounce}))
	}

	d, err := dugout.New(dugout.Config{
		SiteDir:      c.cfg.SiteDir,
		DataDir:      c.cfg.DataDir,
		BaseURL:      c.cfg.BaseURL,
		LayoutFile:   c.cfg.LayoutFile,
		Pages:        c.cfg.Pages,
		StatusDir:    c.cfg.StatusDir,
		FetchTimeout: c.cfg.FetchTimeout,
	}, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := d.Render(ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	failures := c.summarize(reports)

	if c.cfg.Watch {
		if err := d.Start(ctx); err != nil {
			return fmt.Errorf("start watching: %w", err)
		}
		c.zl.Info().Str("dir", c.cfg.DataDir).Msg("watching for data changes")
		<-ctx.Done()
		c.zl.Info().Msg("received signal, stopping...")
		if err := d.Stop(); err != nil {
			return fmt.Errorf("stop watching: %w", err)
		}
		return nil
	}

	if c.cfg.Strict && failures > 0 {
		return fmt.Errorf("strict: %d error(s) reported while rendering", failures)
	}
	return nil
}

// summarize logs every reported failure and returns how many there were.
func (c *cli) summarize(reports []*dugout.Report) int {
	n := 0
	for _, r := range reports {
		for _, err := range r.Errors {
			c.zl.Warn().Str("page", r.Page).Err(err).Msg("pipeline error")
		}
		n += len(r.Errors)
	}
	return n
}

func (c *cli) fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Generate JSON data files from the MLB and weather APIs",
	}

	f := cmd.PersistentFlags()
	f.StringVar(&c.date, "date", "", "date to fetch, YYYY-MM-DD (default depends on the command)")
	f.StringSliceVar(&c.cfg.Teams, "team", c.cfg.Teams, "followed team (repeatable)")
	f.StringSliceVar(&c.cfg.Rivals, "rival", c.cfg.Rivals, "rival team (repeatable)")
	f.StringVar(&c.cfg.WeatherAPIKey, "weather-key", c.cfg.WeatherAPIKey, "WeatherAPI.com API key")
	f.StringVar(&c.cfg.WeatherLocation, "location", c.cfg.WeatherLocation, "weather location query")
	f.StringVar(&c.cfg.MLBBaseURL, "mlb-url", c.cfg.MLBBaseURL, "MLB Stats API base URL")
	f.StringVar(&c.cfg.WeatherBaseURL, "weather-url", c.cfg.WeatherBaseURL, "WeatherAPI.com base URL")
	for _, name := range []string{"mlb-url", "weather-url"} {
		if err := f.MarkHidden(name); err != nil {
			c.zl.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}

	cmd.AddCommand(
		c.fetchSub("upcoming", "Write today's games of the followed teams and rivals", true, false,
			func(ctx context.Context, g *generate.Generator, date string) ([]string, error) {
				return g.Upcoming(ctx, c.dateOr(g, date, 0))
			}),
		c.fetchSub("yesterday", "Write line scores and box score stats of yesterday's games", true, false,
			func(ctx context.Context, g *generate.Generator, date string) ([]string, error) {
				return g.Yesterday(ctx, c.dateOr(g, date, -1))
			}),
		c.fetchSub("hourly", "Write today's hourly forecast", false, true,
			func(ctx context.Context, g *generate.Generator, date string) ([]string, error) {
				path, err := g.Hourly(ctx, c.dateOr(g, date, 0))
				return []string{path}, err
			}),
		c.fetchSub("weekly", "Write the 14 day forecast", false, true,
			func(ctx context.Context, g *generate.Generator, _ string) ([]string, error) {
				path, err := g.Weekly(ctx)
				return []string{path}, err
			}),
	)
	return cmd
}

type fetchFunc func(ctx context.Context, g *generate.Generator, date string) ([]string, error)

func (c *cli) fetchSub(use, short string, withMLB, withWeather bool, run fetchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.date != "" {
				if _, err := time.Parse(generate.DateLayout, c.date); err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", c.date)
				}
			}

			g, err := c.generator(withMLB, withWeather)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			written, err := run(ctx, g, c.date)
			for _, p := range written {
				if p != "" {
					c.zl.Info().Str("file", p).Msg("wrote")
				}
			}
			if err != nil {
				return fmt.Errorf("fetch %s: %w", use, err)
			}
			return nil
		},
	}
}

func (c *cli) dateOr(g *generate.Generator, date string, days int) string {
	if date != "" {
		return date
	}
	return g.Date(days)
}

func (c *cli) generator(withMLB, withWeather bool) (*generate.Generator, error) {
	client := &http.Client{Timeout: c.cfg.HTTPTimeout}
	logger := c.logger()

	var (
		mc  *mlb.Client
		wc  *weather.Client
		err error
	)
	if withMLB {
		if mc, err = mlb.NewClient(c.cfg.MLBBaseURL, client, c.cfg.Location(), logger); err != nil {
			return nil, err
		}
	}
	if withWeather {
		if wc, err = weather.NewClient(c.cfg.WeatherBaseURL, c.cfg.WeatherAPIKey, client, logger); err != nil {
			return nil, err
		}
	}

	return generate.New(mc, wc, generate.Config{
		DataDir:  c.cfg.DataDir,
		Teams:    c.cfg.Teams,
		Rivals:   c.cfg.Rivals,
		Location: c.cfg.WeatherLocation,
		Zone:     c.cfg.Location(),
	}, logger), nil
}
