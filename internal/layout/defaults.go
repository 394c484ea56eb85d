package layout

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

// DataPrefix is the directory descriptors of the built-in pages live under,
// relative to the site root.
const DataPrefix = "./JSON/"

func data(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = DataPrefix + n
	}
	return out
}

// DefaultPages returns the built-in pages in a fixed order.
func DefaultPages() []Page {
	return []Page{
		{
			Name: "index",
			Groups: []Group{
				{
					Name:        "upcoming",
					Mode:        ModeCollect,
					Descriptors: data("upcoming_your_teams.json", "upcoming_enemy_teams.json"),
					Target:      "upcoming-games",
				},
				{
					Name:        "weather",
					Mode:        ModeCollect,
					Descriptors: data("hourly_weather.json", "weekly_forecast.json"),
					Target:      "weather-content",
				},
				{
					Name: "yesterday",
					Mode: ModeMerge,
					Descriptors: data(
						"brewers_inning_scores.json",
						"brewers_player_hitting_stats.json",
						"brewers_pitching_stats.json",
						"cubs_inning_scores.json",
						"cubs_player_hitting_stats.json",
						"cubs_pitching_stats.json",
					),
					Target: "yesterday-games",
				},
			},
		},
		{
			Name: "weather",
			Groups: []Group{
				{
					Name:        "forecast",
					Mode:        ModeBatch,
					Descriptors: data("hourly_weather.json", "weekly_forecast.json"),
					Routes: []Route{
						{Name: "hourly", Contains: []string{"hourly"}, Container: "hourly-weather"},
						{Name: "weekly", Contains: []string{"weekly", "14_day"}, Container: "weekly-weather"},
					},
				},
			},
		},
		{
			Name: "brewers",
			Groups: []Group{
				{
					Name: "yesterday",
					Mode: ModeBatch,
					Descriptors: data(
						"brewers_inning_scores.json",
						"brewers_player_hitting_stats.json",
						"brewers_pitching_stats.json",
					),
					Routes: []Route{
						{Name: "innings", Contains: []string{"inning_scores"}, Container: "brewers-inning-scores"},
						{Name: "hitting", Contains: []string{"hitting_stats"}, Container: "brewers-hitting-stats"},
						{Name: "pitching", Contains: []string{"pitching_stats"}, Container: "brewers-pitching-stats"},
					},
				},
			},
		},
		{
			Name: "schedule",
			Groups: []Group{
				{
					Name:        "games",
					Mode:        ModeSchedule,
					Descriptors: data("upcoming_your_teams.json"),
					Target:      "games-list",
				},
			},
		},
	}
}

// DefaultTemplate returns the built-in template for a page name.
func DefaultTemplate(name string) ([]byte, error) {
	b, err := fs.ReadFile(templates, "templates/"+name+".html")
	if err != nil {
		return nil, fmt.Errorf("no built-in template for page %q: %w", name, err)
	}
	return b, nil
}
