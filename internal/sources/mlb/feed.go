package mlb

import (
	"cmp"
	"slices"
)

// Feed is the part of a game's live feed the projections read.
type Feed struct {
	LiveData struct {
		Linescore struct {
			Teams struct {
				Home LineTotals `json:"home"`
				Away LineTotals `json:"away"`
			} `json:"teams"`
		} `json:"linescore"`
		Plays struct {
			AllPlays []Play `json:"allPlays"`
		} `json:"plays"`
		Boxscore struct {
			Teams struct {
				Away BoxTeam `json:"away"`
				Home BoxTeam `json:"home"`
			} `json:"teams"`
		} `json:"boxscore"`
	} `json:"liveData"`
}

// LineTotals are a team's game totals.
type LineTotals struct {
	Runs   int `json:"runs"`
	Hits   int `json:"hits"`
	Errors int `json:"errors"`
}

// Play is one plate appearance with the score after it.
type Play struct {
	About struct {
		Inning *int `json:"inning"`
	} `json:"about"`
	Result struct {
		AwayScore *int `json:"awayScore"`
		HomeScore *int `json:"homeScore"`
	} `json:"result"`
}

// BoxTeam holds the box score players of one side, keyed "ID<personId>".
type BoxTeam struct {
	Players map[string]BoxPlayer `json:"players"`
}

// BoxPlayer is one player's box score entry. Batting and Pitching are empty
// for players who did not bat or pitch.
type BoxPlayer struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	Stats struct {
		Batting  map[string]any `json:"batting"`
		Pitching map[string]any `json:"pitching"`
	} `json:"stats"`
}

// InningScores is the line score of one game.
type InningScores struct {
	GameSummary struct {
		AwayTeam string `json:"away_team"`
		HomeTeam string `json:"home_team"`
	} `json:"game_summary"`
	InningScores []Inning  `json:"inning_scores"`
	FinalScore   FinalLine `json:"final_score"`
}

// Inning holds the runs each side scored in one inning.
type Inning struct {
	Inning   int `json:"inning"`
	AwayRuns int `json:"away_runs"`
	HomeRuns int `json:"home_runs"`
}

// FinalLine is runs, hits and errors for both sides.
type FinalLine struct {
	AwayRuns   int `json:"away_runs"`
	HomeRuns   int `json:"home_runs"`
	AwayHits   int `json:"away_hits"`
	HomeHits   int `json:"home_hits"`
	AwayErrors int `json:"away_errors"`
	HomeErrors int `json:"home_errors"`
}

// InningScores derives per-inning runs from the running score after the last
// play of each inning.
func (f *Feed) InningScores(homeTeam, awayTeam string) InningScores {
	type score struct{ away, home int }
	last := map[int]score{}
	for _, p := range f.LiveData.Plays.AllPlays {
		if p.About.Inning == nil || p.Result.AwayScore == nil || p.Result.HomeScore == nil {
			continue
		}
		last[*p.About.Inning] = score{away: *p.Result.AwayScore, home: *p.Result.HomeScore}
	}

	innings := make([]int, 0, len(last))
	for n := range last {
		innings = append(innings, n)
	}
	slices.Sort(innings)

	var out InningScores
	out.GameSummary.AwayTeam = awayTeam
	out.GameSummary.HomeTeam = homeTeam
	out.InningScores = make([]Inning, 0, len(innings))

	var prev score
	for _, n := range innings {
		cur := last[n]
		out.InningScores = append(out.InningScores, Inning{
			Inning:   n,
			AwayRuns: cur.away - prev.away,
			HomeRuns: cur.home - prev.home,
		})
		prev = cur
	}

	teams := f.LiveData.Linescore.Teams
	out.FinalScore = FinalLine{
		AwayRuns:   teams.Away.Runs,
		HomeRuns:   teams.Home.Runs,
		AwayHits:   teams.Away.Hits,
		HomeHits:   teams.Home.Hits,
		AwayErrors: teams.Away.Errors,
		HomeErrors: teams.Home.Errors,
	}
	return out
}

// HittingLine is one player's batting line for the game.
type HittingLine struct {
	FullName     string `json:"full_name"`
	TeamSide     string `json:"team_side"`
	AtBats       int    `json:"at_bats"`
	Hits         int    `json:"hits"`
	Doubles      int    `json:"doubles"`
	Triples      int    `json:"triples"`
	HomeRuns     int    `json:"home_runs"`
	RunsBattedIn int    `json:"runs_batted_in"`
	Walks        int    `json:"walks"`
	Strikeouts   int    `json:"strikeouts"`
}

// PitchingLine is one pitcher's line for the game.
type PitchingLine struct {
	FullName       string `json:"full_name"`
	TeamSide       string `json:"team_side"`
	InningsPitched string `json:"innings_pitched"`
	Runs           int    `json:"runs"`
	EarnedRuns     int    `json:"earned_runs"`
	Strikeouts     int    `json:"strikeouts"`
}

// HittingStats lists every player with a batting line, away side first, each
// side ordered by player id.
func (f *Feed) HittingStats() []HittingLine {
	var out []HittingLine
	f.eachPlayer(func(teamSide string, p BoxPlayer) {
		b := p.Stats.Batting
		if len(b) == 0 {
			return
		}
		out = append(out, HittingLine{
			FullName:     p.Person.FullName,
			TeamSide:     teamSide,
			AtBats:       intStat(b, "atBats"),
			Hits:         intStat(b, "hits"),
			Doubles:      intStat(b, "doubles"),
			Triples:      intStat(b, "triples"),
			HomeRuns:     intStat(b, "homeRuns"),
			RunsBattedIn: intStat(b, "rbi"),
			Walks:        intStat(b, "baseOnBalls"),
			Strikeouts:   intStat(b, "strikeOuts"),
		})
	})
	return out
}

// PitchingStats lists every player with a pitching line, in the same order
// as HittingStats.
func (f *Feed) PitchingStats() []PitchingLine {
	var out []PitchingLine
	f.eachPlayer(func(teamSide string, p BoxPlayer) {
		s := p.Stats.Pitching
		if len(s) == 0 {
			return
		}
		ip, _ := s["inningsPitched"].(string)
		if ip == "" {
			ip = "0.0"
		}
		out = append(out, PitchingLine{
			FullName:       p.Person.FullName,
			TeamSide:       teamSide,
			InningsPitched: ip,
			Runs:           intStat(s, "runs"),
			EarnedRuns:     intStat(s, "earnedRuns"),
			Strikeouts:     intStat(s, "strikeOuts"),
		})
	})
	return out
}

func (f *Feed) eachPlayer(fn func(teamSide string, p BoxPlayer)) {
	teams := f.LiveData.Boxscore.Teams
	for _, side := range []struct {
		name string
		team BoxTeam
	}{{"away", teams.Away}, {"home", teams.Home}} {
		players := make([]BoxPlayer, 0, len(side.team.Players))
		for _, p := range side.team.Players {
			players = append(players, p)
		}
		slices.SortFunc(players, func(a, b BoxPlayer) int {
			return cmp.Compare(a.Person.ID, b.Person.ID)
		})
		for _, p := range players {
			fn(side.name, p)
		}
	}
}

func intStat(m map[string]any, key string) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
