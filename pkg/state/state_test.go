package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestState_Record(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var s State
	if !s.IsEmpty() {
		t.Fatal("new state should be empty")
	}

	s.Record(PageStatus{Page: "index", RunID: "a", RenderedAt: t0})
	s.Record(PageStatus{Page: "weather", RunID: "b", RenderedAt: t0.Add(time.Second), Errors: []string{"x"}})
	s.Record(PageStatus{Page: "index", RunID: "c", RenderedAt: t0.Add(2 * time.Second)})

	if len(s.Pages) != 2 {
		t.Fatalf("Pages = %d, want 2", len(s.Pages))
	}
	if s.Pages[0].RunID != "c" {
		t.Errorf("index RunID = %v, want c (replaced in place)", s.Pages[0].RunID)
	}
	if !s.LastRenderAt.Equal(t0.Add(2 * time.Second)) {
		t.Errorf("LastRenderAt = %v", s.LastRenderAt)
	}
	w, ok := s.Page("weather")
	if !ok || w.OK() {
		t.Errorf("weather = %+v, %v; want failed page", w, ok)
	}
	if _, ok := s.Page("nope"); ok {
		t.Error("Page(nope) found")
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".dugout")
	repo := NewFileRepository(dir)
	ctx := context.Background()

	s, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("Load() = %+v, want empty", s)
	}

	want := State{}
	want.Record(PageStatus{
		Page:       "index",
		RunID:      "run-1",
		Output:     "index.html",
		Rendered:   []string{"upcoming-games"},
		Errors:     []string{"./JSON/weekly_forecast.json: not found"},
		RenderedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRepository_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "status.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileRepository(dir).Load(context.Background()); err == nil {
		t.Error("Load() expected error for corrupt file")
	}
}
