// Package generate produces the JSON data files the dashboard pages read.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"

	"github.com/dugout-dev/dugout/internal/adapters/fs"
	"github.com/dugout-dev/dugout/internal/sources/mlb"
	"github.com/dugout-dev/dugout/internal/sources/weather"
	"github.com/dugout-dev/dugout/pkg/log"
)

// DateLayout is the date format of every date argument.
const DateLayout = "2006-01-02"

// Indentation of the written files.
const (
	indentRaw    = "  "
	indentTables = "    "
)

// File names written to the data directory.
const (
	UpcomingTeamsFile  = "upcoming_your_teams.json"
	UpcomingRivalsFile = "upcoming_enemy_teams.json"
	HourlyFile         = "hourly_weather.json"
	WeeklyFile         = "weekly_forecast.json"
)

// Config selects what to generate.
type Config struct {
	DataDir  string
	Teams    []string
	Rivals   []string
	Location string

	// Zone is used to compute "today"; nil means local time.
	Zone *time.Location
	Now  func() time.Time
}

// Generator writes data files from the MLB and weather sources. Either source
// may be nil when its commands are not used.
type Generator struct {
	mlb     *mlb.Client
	weather *weather.Client
	config  Config
	logger  log.Logger
}

// New creates a Generator.
func New(mlbClient *mlb.Client, weatherClient *weather.Client, config Config, logger log.Logger) *Generator {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Zone == nil {
		config.Zone = time.Local
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Generator{mlb: mlbClient, weather: weatherClient, config: config, logger: logger}
}

// Date returns today's date shifted by days, formatted as DateLayout.
func (g *Generator) Date(days int) string {
	return g.config.Now().In(g.config.Zone).AddDate(0, 0, days).Format(DateLayout)
}

// Slug turns a team name into the file name prefix used for its data,
// e.g. "White Sox" becomes "white_sox".
func Slug(team string) string {
	return strings.ReplaceAll(slug.Make(team), "-", "_")
}

// Upcoming writes the games on date of the followed teams and of the rivals.
func (g *Generator) Upcoming(ctx context.Context, date string) ([]string, error) {
	if g.mlb == nil {
		return nil, errors.New("upcoming: mlb source not configured")
	}

	var written []string
	for _, set := range []struct {
		file  string
		teams []string
	}{
		{UpcomingTeamsFile, g.config.Teams},
		{UpcomingRivalsFile, g.config.Rivals},
	} {
		games, err := g.mlb.UpcomingGames(ctx, date, set.teams)
		if err != nil {
			return written, err
		}
		p, err := fs.WriteJSON(g.config.DataDir, set.file, games, indentTables)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}
	g.logger.Info("saved upcoming games", log.String("date", date), log.Strings("files", written))
	return written, nil
}

// Yesterday writes the game log, line score, hitting and pitching lines of
// every followed team and rival that played on date. Teams without a game
// are skipped; failures of one team do not stop the others.
func (g *Generator) Yesterday(ctx context.Context, date string) ([]string, error) {
	if g.mlb == nil {
		return nil, errors.New("yesterday: mlb source not configured")
	}

	var (
		written []string
		errs    error
	)
	teams := append(append([]string(nil), g.config.Teams...), g.config.Rivals...)
	for _, team := range teams {
		files, err := g.teamGame(ctx, date, team)
		written = append(written, files...)
		switch {
		case errors.Is(err, mlb.ErrGameNotFound):
			g.logger.Warn("no game", log.String("team", team), log.String("date", date))
		case err != nil:
			g.logger.Error("game data failed", log.String("team", team), log.Err(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", team, err))
		}
	}
	return written, errs
}

func (g *Generator) teamGame(ctx context.Context, date, team string) ([]string, error) {
	game, err := g.mlb.FindGame(ctx, date, team)
	if err != nil {
		return nil, err
	}
	raw, feed, err := g.mlb.LiveFeed(ctx, game.Pk)
	if err != nil {
		return nil, err
	}

	prefix := Slug(team)
	var written []string

	p, err := fs.WriteRawJSON(g.config.DataDir, prefix+"_game_log.json", raw, indentRaw)
	if err != nil {
		return written, err
	}
	written = append(written, p)

	hitting, pitching := feed.HittingStats(), feed.PitchingStats()
	outputs := []struct {
		name  string
		value any
		empty bool
	}{
		{prefix + "_inning_scores.json", feed.InningScores(game.HomeTeam, game.AwayTeam), false},
		{prefix + "_player_hitting_stats.json", hitting, len(hitting) == 0},
		{prefix + "_pitching_stats.json", pitching, len(pitching) == 0},
	}
	for _, o := range outputs {
		if o.empty {
			g.logger.Debug("nothing to save", log.String("file", o.name))
			continue
		}
		p, err := fs.WriteJSON(g.config.DataDir, o.name, o.value, indentTables)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}

	g.logger.Info("saved game data",
		log.String("team", team),
		log.Int("game_pk", game.Pk),
		log.Strings("files", written),
	)
	return written, nil
}

// Hourly writes the hourly forecast for date.
func (g *Generator) Hourly(ctx context.Context, date string) (string, error) {
	if g.weather == nil {
		return "", errors.New("hourly: weather source not configured")
	}
	report, err := g.weather.Hourly(ctx, g.config.Location, date)
	if err != nil {
		return "", err
	}
	p, err := fs.WriteJSON(g.config.DataDir, HourlyFile, report, indentRaw)
	if err != nil {
		return "", err
	}
	g.logger.Info("saved hourly weather", log.String("file", p))
	return p, nil
}

// Weekly writes the daily forecast.
func (g *Generator) Weekly(ctx context.Context) (string, error) {
	if g.weather == nil {
		return "", errors.New("weekly: weather source not configured")
	}
	report, err := g.weather.Weekly(ctx, g.config.Location)
	if err != nil {
		return "", err
	}
	p, err := fs.WriteJSON(g.config.DataDir, WeeklyFile, report, indentRaw)
	if err != nil {
		return "", err
	}
	g.logger.Info("saved weekly forecast", log.String("file", p))
	return p, nil
}
