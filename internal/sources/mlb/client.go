// Package mlb reads schedules, probable pitchers and game feeds from the MLB
// Stats API and projects them into the files the dashboard pages show.
package mlb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/internal/sources/httpjson"
	"github.com/dugout-dev/dugout/pkg/log"
)

// DefaultBaseURL is the public Stats API root.
const DefaultBaseURL = "https://statsapi.mlb.com/api/"

// GameTimeLayout formats first pitch in the configured timezone.
const GameTimeLayout = "2006-01-02 03:04 PM"

// ErrGameNotFound is returned by FindGame when no game of the team is scheduled.
var ErrGameNotFound = errors.New("game not found")

// Client talks to the Stats API.
type Client struct {
	api    *httpjson.Client
	loc    *time.Location
	logger log.Logger
}

// NewClient creates a client. Game times are shown in loc; nil means UTC.
func NewClient(baseURL string, httpClient ports.HTTPClient, loc *time.Location, logger log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	api, err := httpjson.New(baseURL, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("mlb client: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Client{api: api, loc: loc, logger: logger}, nil
}

type schedule struct {
	Dates []struct {
		Games []scheduledGame `json:"games"`
	} `json:"dates"`
}

type scheduledGame struct {
	GamePk   int    `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Teams    struct {
		Home side `json:"home"`
		Away side `json:"away"`
	} `json:"teams"`
	Broadcasts []struct {
		Name string `json:"name"`
	} `json:"broadcasts"`
}

type side struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"probablePitcher"`
}

func (c *Client) schedule(ctx context.Context, date string, hydrate string) ([]scheduledGame, error) {
	q := url.Values{
		"sportId": {"1"},
		"date":    {date},
	}
	if hydrate != "" {
		q.Set("hydrate", hydrate)
	}
	var s schedule
	if _, err := c.api.Get(ctx, "v1/schedule", q, &s); err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", date, err)
	}
	if len(s.Dates) == 0 {
		return nil, nil
	}
	return s.Dates[0].Games, nil
}

// matches reports whether name contains any of teams, ignoring case.
func matches(name string, teams []string) bool {
	name = strings.ToLower(name)
	for _, t := range teams {
		if t != "" && strings.Contains(name, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// UpcomingGame is one scheduled game of a followed team. Pitcher season
// numbers are null when the pitcher is not announced or has no season line.
type UpcomingGame struct {
	AwayTeam    string  `json:"away_team"`
	HomeTeam    string  `json:"home_team"`
	AwayPitcher string  `json:"away_pitcher"`
	AwayWins    *int    `json:"away_wins"`
	AwayLosses  *int    `json:"away_losses"`
	AwayERA     *string `json:"away_era"`
	HomePitcher string  `json:"home_pitcher"`
	HomeWins    *int    `json:"home_wins"`
	HomeLosses  *int    `json:"home_losses"`
	HomeERA     *string `json:"home_era"`
	GameTimeCT  string  `json:"game_time_ct"`
	Networks    string  `json:"networks"`
}

// UpcomingGames lists the games on date involving any of teams, with probable
// pitchers, their season lines and the broadcasting networks.
func (c *Client) UpcomingGames(ctx context.Context, date string, teams []string) ([]UpcomingGame, error) {
	games, err := c.schedule(ctx, date, "probablePitcher(note),broadcasts")
	if err != nil {
		return nil, err
	}

	var (
		out     = make([]UpcomingGame, 0, len(games))
		matched []scheduledGame
	)
	for _, g := range games {
		if !matches(g.Teams.Home.Team.Name, teams) && !matches(g.Teams.Away.Team.Name, teams) {
			continue
		}
		matched = append(matched, g)
		first, err := c.gameTime(g.GameDate)
		if err != nil {
			return nil, err
		}
		out = append(out, UpcomingGame{
			AwayTeam:    g.Teams.Away.Team.Name,
			HomeTeam:    g.Teams.Home.Team.Name,
			AwayPitcher: pitcherName(g.Teams.Away),
			HomePitcher: pitcherName(g.Teams.Home),
			GameTimeCT:  first,
			Networks:    networks(g),
		})
	}

	// season lines are independent lookups
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, g := range matched {
		row := &out[i]
		if p := g.Teams.Away.ProbablePitcher; p != nil && p.ID != 0 {
			eg.Go(func() error {
				s, err := c.PitcherSeasonStats(egctx, p.ID)
				if err != nil {
					return err
				}
				if s != nil {
					row.AwayWins, row.AwayLosses, row.AwayERA = &s.Wins, &s.Losses, &s.ERA
				}
				return nil
			})
		}
		if p := g.Teams.Home.ProbablePitcher; p != nil && p.ID != 0 {
			eg.Go(func() error {
				s, err := c.PitcherSeasonStats(egctx, p.ID)
				if err != nil {
					return err
				}
				if s != nil {
					row.HomeWins, row.HomeLosses, row.HomeERA = &s.Wins, &s.Losses, &s.ERA
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("upcoming games",
		log.String("date", date),
		log.Strings("teams", teams),
		log.Int("games", len(out)),
	)
	return out, nil
}

func (c *Client) gameTime(raw string) (string, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", fmt.Errorf("parse game date %q: %w", raw, err)
	}
	return t.In(c.loc).Format(GameTimeLayout), nil
}

func pitcherName(s side) string {
	if s.ProbablePitcher == nil || s.ProbablePitcher.FullName == "" {
		return "TBD"
	}
	return s.ProbablePitcher.FullName
}

func networks(g scheduledGame) string {
	var names []string
	for _, b := range g.Broadcasts {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}
	if len(names) == 0 {
		return "TBD"
	}
	return strings.Join(names, ", ")
}

// PitcherStats is a pitcher's season line.
type PitcherStats struct {
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	ERA        string `json:"era"`
	Strikeouts int    `json:"strikeouts"`
}

// PitcherSeasonStats returns the season pitching line of a player, or nil
// when the API has none.
func (c *Client) PitcherSeasonStats(ctx context.Context, playerID int) (*PitcherStats, error) {
	var resp struct {
		Stats []struct {
			Splits []struct {
				Stat struct {
					Wins       int    `json:"wins"`
					Losses     int    `json:"losses"`
					ERA        string `json:"era"`
					Strikeouts int    `json:"strikeOuts"`
				} `json:"stat"`
			} `json:"splits"`
		} `json:"stats"`
	}
	q := url.Values{"stats": {"season"}, "group": {"pitching"}}
	if _, err := c.api.Get(ctx, "v1/people/"+strconv.Itoa(playerID)+"/stats", q, &resp); err != nil {
		return nil, fmt.Errorf("pitcher %d stats: %w", playerID, err)
	}
	if len(resp.Stats) == 0 || len(resp.Stats[0].Splits) == 0 {
		return nil, nil
	}
	s := resp.Stats[0].Splits[0].Stat
	return &PitcherStats{Wins: s.Wins, Losses: s.Losses, ERA: s.ERA, Strikeouts: s.Strikeouts}, nil
}

// Game identifies one scheduled game.
type Game struct {
	Pk       int
	HomeTeam string
	AwayTeam string
}

// FindGame returns the first game on date whose home team, then away team,
// contains team (case-insensitive).
func (c *Client) FindGame(ctx context.Context, date, team string) (Game, error) {
	games, err := c.schedule(ctx, date, "")
	if err != nil {
		return Game{}, err
	}
	for _, g := range games {
		home, away := g.Teams.Home.Team.Name, g.Teams.Away.Team.Name
		if matches(home, []string{team}) || matches(away, []string{team}) {
			return Game{Pk: g.GamePk, HomeTeam: home, AwayTeam: away}, nil
		}
	}
	return Game{}, fmt.Errorf("%w: %s on %s", ErrGameNotFound, team, date)
}

// LiveFeed returns the raw live feed of a game along with its decoded form.
func (c *Client) LiveFeed(ctx context.Context, gamePk int) ([]byte, *Feed, error) {
	var feed Feed
	raw, err := c.api.Get(ctx, "v1.1/game/"+strconv.Itoa(gamePk)+"/feed/live", nil, &feed)
	if err != nil {
		return nil, nil, fmt.Errorf("live feed %d: %w", gamePk, err)
	}
	return raw, &feed, nil
}
