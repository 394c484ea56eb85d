package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" INFO ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf))

	With(z, String("run_id", "r1")).Warn("render failed",
		String("descriptor", "./JSON/a.json"),
		Int("status", 404),
		Bool("strict", false),
		Duration("took", 2*time.Second),
		Strings("containers", []string{"a", "b"}),
		Err(errors.New("boom")),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "render failed", entry["message"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.Equal(t, "./JSON/a.json", entry["descriptor"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, false, entry["strict"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, []any{"a", "b"}, entry["containers"])
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(NewConsoleLogger(&buf, LevelWarn))

	z.Info("hidden")
	assert.Zero(t, buf.Len())

	z.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
