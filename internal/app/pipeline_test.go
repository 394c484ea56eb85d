package app

import (
	"context"
	"errors"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/payload"
	"github.com/dugout-dev/dugout/pkg/routing"
)

var weatherTable = routing.Table{
	{Name: "hourly", Match: routing.Contains("hourly"), Container: "hourly-weather"},
	{Name: "weekly", Match: routing.Any(routing.Contains("weekly"), routing.Contains("14_day")), Container: "weekly-weather"},
	{Name: "innings", Match: routing.Contains("inning_scores"), Container: "inning-scores"},
}

func TestParseSettle(t *testing.T) {
	tests := []struct {
		in      string
		want    Settle
		wantErr bool
	}{
		{"", SettleEach, false},
		{"each", SettleEach, false},
		{"all", SettleAll, false},
		{"some", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSettle(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRenderBatch_RendersEachPayload(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json":  `{"location":"Milwaukee","hourly_weather":[]}`,
		"./JSON/weekly_forecast.json": `{"full_forecast":[{"date":"2025-06-01"}]}`,
	}}
	page := newMemPage("hourly-weather", "weekly-weather")
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/hourly_weather.json", "./JSON/weekly_forecast.json"),
		weatherTable, SettleEach)
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"location\": \"Milwaukee\",\n  \"hourly_weather\": []\n}", page.text("hourly-weather"))
	assert.Equal(t, "{\n  \"full_forecast\": [\n    {\n      \"date\": \"2025-06-01\"\n    }\n  ]\n}", page.text("weekly-weather"))

	rep := p.Report()
	assert.ElementsMatch(t, []string{"hourly-weather", "weekly-weather"}, rep.Rendered)
	assert.True(t, rep.OK())
	assert.NoError(t, rep.Err())
}

func TestRenderBatch_IsolatesFailures(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json":        `{"a":1}`,
		"./JSON/brewers_inning_scores.json": `{"innings":[1,0,2]}`,
	}}
	page := newMemPage("hourly-weather", "weekly-weather", "inning-scores")
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/hourly_weather.json", "./JSON/weekly_forecast.json", "./JSON/brewers_inning_scores.json"),
		weatherTable, SettleEach)
	require.Error(t, err)

	var re *domain.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 404, re.Status)
	assert.Equal(t, domain.Descriptor("./JSON/weekly_forecast.json"), re.Descriptor)

	assert.Equal(t, "{\n  \"a\": 1\n}", page.text("hourly-weather"))
	assert.NotEmpty(t, page.text("inning-scores"))
	assert.Empty(t, page.text("weekly-weather"))

	assert.Equal(t,
		"HTTP error! Status: 404 for file: ./JSON/weekly_forecast.json",
		page.surfaceText())

	rep := p.Report()
	assert.Len(t, rep.Errors, 1)
	assert.Len(t, rep.Rendered, 2)
}

func TestRenderBatch_RoutingMissWritesNothing(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json": `{"a":1}`,
		"./JSON/standings.json":      `{"b":2}`,
	}}
	page := newMemPage("hourly-weather", "weekly-weather")
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/standings.json", "./JSON/hourly_weather.json"),
		weatherTable, SettleEach)

	var miss *domain.RoutingMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, domain.Descriptor("./JSON/standings.json"), miss.Descriptor)
	assert.Empty(t, miss.Container)

	assert.Equal(t, 1, page.totalWrites())
	assert.Equal(t, "{\n  \"a\": 1\n}", page.text("hourly-weather"))
	assert.Len(t, p.Report().Errors, 1)
}

func TestRenderBatch_RoutingIsDeterministic(t *testing.T) {
	descriptors := domain.Descriptors(
		"./JSON/hourly_14_day.json",
		"./JSON/weekly_forecast.json",
		"./JSON/hourly_weather.json",
	)
	bodies := map[domain.Descriptor]string{}
	for _, d := range descriptors {
		bodies[d] = `"` + path.Base(d.String()) + `"`
	}

	for i := 0; i < 25; i++ {
		page := newMemPage("hourly-weather", "weekly-weather")
		p := NewPipeline(&stubFetcher{bodies: bodies}, page, nil)

		// rotate the input order so completion order varies too
		rotated := append(append([]domain.Descriptor{}, descriptors[i%3:]...), descriptors[:i%3]...)
		require.NoError(t, p.RenderBatch(context.Background(), rotated, weatherTable, SettleEach))

		assert.Equal(t, `"weekly_forecast.json"`, page.text("weekly-weather"))
		assert.Contains(t, []string{`"hourly_14_day.json"`, `"hourly_weather.json"`}, page.text("hourly-weather"))
		assert.Equal(t, 1, page.writes["weekly-weather"])
		assert.Equal(t, 2, page.writes["hourly-weather"])
	}
}

func TestRenderBatch_RenderErrors(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json":  `{}`,
		"./JSON/weekly_forecast.json": `[]`,
	}}
	page := newMemPage()
	page.bare["hourly-weather"] = true
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/hourly_weather.json", "./JSON/weekly_forecast.json"),
		weatherTable, SettleEach)

	var tm *domain.RenderTargetMissing
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "hourly-weather", tm.Container)

	var miss *domain.RoutingMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "weekly-weather", miss.Container)
	assert.Equal(t, domain.Descriptor("./JSON/weekly_forecast.json"), miss.Descriptor)

	assert.Equal(t, 0, page.totalWrites())
}

func TestRenderBatch_ParseError(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json": `{"a":`,
	}}
	page := newMemPage("hourly-weather")
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(), domain.Descriptors("./JSON/hourly_weather.json"), weatherTable, SettleEach)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, 0, page.totalWrites())
}

func TestRenderBatch_SettleAll(t *testing.T) {
	f := &stubFetcher{
		bodies: map[domain.Descriptor]string{
			"./JSON/hourly_weather.json": `{"a":1}`,
		},
		block: map[domain.Descriptor]bool{"./JSON/brewers_inning_scores.json": true},
	}
	page := newMemPage("hourly-weather", "weekly-weather", "inning-scores")
	p := NewPipeline(f, page, nil)

	err := p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/hourly_weather.json", "./JSON/weekly_forecast.json", "./JSON/brewers_inning_scores.json"),
		weatherTable, SettleAll)

	var re *domain.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.Descriptor("./JSON/weekly_forecast.json"), re.Descriptor)

	assert.Equal(t, 0, page.totalWrites())
	assert.Len(t, p.Report().Errors, 1)
	assert.Len(t, page.messages, 1)
}

func TestRenderBatch_SettleAllSuccess(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/hourly_weather.json":  `1`,
		"./JSON/weekly_forecast.json": `2`,
	}}
	page := newMemPage("hourly-weather", "weekly-weather")
	p := NewPipeline(f, page, nil)

	require.NoError(t, p.RenderBatch(context.Background(),
		domain.Descriptors("./JSON/hourly_weather.json", "./JSON/weekly_forecast.json"),
		weatherTable, SettleAll))
	assert.Equal(t, "1", page.text("hourly-weather"))
	assert.Equal(t, "2", page.text("weekly-weather"))
}

func TestRenderMerged_Scenario(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"a.json": `{"x":[1,2]}`,
		"b.json": `{"x":[3],"y":5}`,
	}}
	page := newMemPage("yesterday-games")
	p := NewPipeline(f, page, nil)

	require.NoError(t, p.RenderMerged(context.Background(), domain.Descriptors("a.json", "b.json"), "yesterday-games"))
	assert.Equal(t, "{\n  \"x\": [\n    1,\n    2,\n    3\n  ],\n  \"y\": 5\n}", page.text("yesterday-games"))
}

func TestRenderMerged_AllOrNothing(t *testing.T) {
	f := &stubFetcher{
		bodies: map[domain.Descriptor]string{
			"a.json": `{"x":[1]}`,
			"c.json": `{"x":[2]}`,
		},
		block: map[domain.Descriptor]bool{"d.json": true},
	}
	page := newMemPage("yesterday-games")
	p := NewPipeline(f, page, nil)

	err := p.RenderMerged(context.Background(), domain.Descriptors("a.json", "b.json", "c.json", "d.json"), "yesterday-games")
	assert.ErrorIs(t, err, domain.ErrResolution)
	assert.Equal(t, 0, page.totalWrites())
	assert.Len(t, p.Report().Errors, 1)
	assert.Contains(t, page.surfaceText(), "b.json")
}

func TestRenderMerged_NonObject(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"a.json": `{"x":[1]}`,
		"b.json": `[1,2]`,
	}}
	page := newMemPage("yesterday-games")
	p := NewPipeline(f, page, nil)

	err := p.RenderMerged(context.Background(), domain.Descriptors("a.json", "b.json"), "yesterday-games")

	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.Descriptor("b.json"), pe.Descriptor)
	assert.ErrorIs(t, err, payload.ErrNotObject)
	assert.Equal(t, 0, page.totalWrites())
}

func TestRenderMerged_MissingTarget(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{"a.json": `{}`}}
	p := NewPipeline(f, newMemPage(), nil)

	err := p.RenderMerged(context.Background(), domain.Descriptors("a.json"), "yesterday-games")

	var miss *domain.RoutingMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "yesterday-games", miss.Container)
	assert.Equal(t, domain.Descriptor("merge:yesterday-games"), miss.Descriptor)
}

func TestRenderCollected(t *testing.T) {
	f := &stubFetcher{bodies: map[domain.Descriptor]string{
		"./JSON/upcoming_your_teams.json":  `[{"away_team":"Cubs"}]`,
		"./JSON/upcoming_enemy_teams.json": `[]`,
	}}
	page := newMemPage("upcoming-games")
	p := NewPipeline(f, page, nil)

	require.NoError(t, p.RenderCollected(context.Background(),
		domain.Descriptors("./JSON/upcoming_your_teams.json", "./JSON/upcoming_enemy_teams.json"),
		"upcoming-games"))

	want := "[\n  [\n    {\n      \"away_team\": \"Cubs\"\n    }\n  ],\n  []\n]"
	assert.Equal(t, want, page.text("upcoming-games"))
}

func TestRenderCollected_Failure(t *testing.T) {
	page := newMemPage("upcoming-games")
	p := NewPipeline(&stubFetcher{}, page, nil)

	err := p.RenderCollected(context.Background(), domain.Descriptors("./JSON/upcoming_your_teams.json"), "upcoming-games")
	assert.ErrorIs(t, err, domain.ErrResolution)
	assert.Equal(t, 0, page.totalWrites())
}

func TestPipeline_NoErrorSurface(t *testing.T) {
	page := newMemPage("hourly-weather")
	page.surface = false
	p := NewPipeline(&stubFetcher{}, page, nil)

	err := p.RenderBatch(context.Background(), domain.Descriptors("./JSON/hourly_weather.json"), weatherTable, SettleEach)
	assert.Error(t, err)
	assert.Empty(t, page.messages)
	assert.Len(t, p.Report().Errors, 1)
}

func TestPipeline_WrapsForeignFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	f := ports.FetcherFunc(func(ctx context.Context, d domain.Descriptor) ([]byte, error) { return nil, boom })
	p := NewPipeline(f, newMemPage("hourly-weather"), nil)

	err := p.RenderBatch(context.Background(), domain.Descriptors("./JSON/hourly_weather.json"), weatherTable, SettleEach)

	var re *domain.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Status)
	assert.ErrorIs(t, err, boom)
}

func TestSurfaceLine(t *testing.T) {
	tests := []struct {
		name string
		d    domain.Descriptor
		err  error
		want string
	}{
		{
			name: "typed error names descriptor once",
			d:    "./JSON/a.json",
			err:  &domain.ResolutionError{Descriptor: "./JSON/a.json", Status: 404},
			want: "HTTP error! Status: 404 for file: ./JSON/a.json",
		},
		{
			name: "foreign error is prefixed",
			d:    "merge:yesterday-games",
			err:  errors.New("boom"),
			want: "merge:yesterday-games: boom",
		},
		{
			name: "no descriptor",
			err:  errors.New("boom"),
			want: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, surfaceLine(tt.d, tt.err))
		})
	}
}
