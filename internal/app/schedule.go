package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/pkg/payload"
)

// placeholder stands in for missing or null record fields.
const placeholder = "-"

// ScheduleNodes projects one game record into its heading and three detail
// lines. A record that is not an object yields placeholders throughout.
func ScheduleNodes(record payload.Value) []domain.Node {
	obj, _ := record.(*payload.Object)
	f := func(key string) string { return field(obj, key) }

	return []domain.Node{
		{Tag: "h3", Text: fmt.Sprintf("%s @ %s", f("away_team"), f("home_team"))},
		{Tag: "p", Text: fmt.Sprintf("First pitch: %s CT", f("game_time_ct"))},
		{Tag: "p", Text: fmt.Sprintf("Probables: %s (%s, %s ERA) vs %s (%s, %s ERA)",
			f("away_pitcher"), winLoss(obj, "away"), f("away_era"),
			f("home_pitcher"), winLoss(obj, "home"), f("home_era"),
		)},
		{Tag: "p", Text: fmt.Sprintf("Broadcast: %s", f("networks"))},
	}
}

// winLoss renders a pitcher's record as "W-L", or one placeholder when both
// counts are missing.
func winLoss(obj *payload.Object, side string) string {
	w, l := field(obj, side+"_wins"), field(obj, side+"_losses")
	if w == placeholder && l == placeholder {
		return placeholder
	}
	return w + "-" + l
}

func field(obj *payload.Object, key string) string {
	if obj == nil {
		return placeholder
	}
	v, ok := obj.Get(key)
	if !ok {
		return placeholder
	}
	return text(v)
}

func text(v payload.Value) string {
	switch t := v.(type) {
	case nil:
		return placeholder
	case string:
		if t == "" {
			return placeholder
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprint(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, text(e))
		}
		if len(parts) == 0 {
			return placeholder
		}
		return strings.Join(parts, ", ")
	default:
		s, err := payload.Format(t)
		if err != nil {
			return placeholder
		}
		return s
	}
}
