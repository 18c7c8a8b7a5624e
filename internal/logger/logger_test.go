package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("research run complete", "run_id", "r-1", "empty", "", "rounds", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "research run complete")
	assert.Contains(t, out, "run_id=r-1")
	assert.Contains(t, out, "rounds=2")
	assert.NotContains(t, out, "empty=", "empty strings are dropped")
	assert.NotContains(t, out, "\x1b[", "no color when not a terminal")
}

func TestFormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.FixedZone("X", 3600))
	assert.Equal(t, "2025-03-14T08:26:53.589Z", formatRFC3339Millis(ts))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer devNull.Close()
	assert.False(t, isTerminal(devNull), "character devices are not all terminals")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, isTerminal(w))
}

func TestNew_NoColorOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	New(w, slog.LevelInfo).Warn("provider overloaded", "status", 529)
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "provider overloaded")
	assert.NotContains(t, string(out), "\x1b[")
}
