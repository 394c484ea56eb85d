package dugout_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dugout-dev/dugout/pkg/dugout"
)

// ExampleNew renders the built-in schedule page from an injected fetcher.
func ExampleNew() {
	site, err := os.MkdirTemp("", "dugout-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(site)

	games := dugout.FetcherFunc(func(ctx context.Context, d dugout.Descriptor) ([]byte, error) {
		return []byte(`[{"home_team":"Milwaukee Brewers","away_team":"Chicago Cubs","game_time_ct":"2025-06-01 01:10 PM"}]`), nil
	})

	d, err := dugout.New(dugout.Config{SiteDir: site, Pages: []string{"schedule"}},
		dugout.WithFetcher(games))
	if err != nil {
		fmt.Println(err)
		return
	}

	reports, err := d.Render(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range reports {
		_, statErr := os.Stat(filepath.Join(site, r.Output))
		fmt.Println(r.Page, r.Output, r.OK(), statErr == nil)
	}

	// Output: schedule schedule.html true true
}
