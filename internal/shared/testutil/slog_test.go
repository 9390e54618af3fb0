package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedHandler_Capture(t *testing.T) {
	logger, handler := NewTestLogger()

	logger.Info("records cleaned", slog.Int("count", 3))
	logger.Debug("row rejected")
	logger.Error("file missing", slog.String("path", "x.csv"))

	assert.Equal(t, 3, handler.Count())
	assert.True(t, handler.ContainsMessage("records cleaned"))
	assert.False(t, handler.ContainsMessage("nope"))

	entries := handler.Entries()
	require.Len(t, entries, 3)
	assert.EqualValues(t, 3, entries[0].Attrs["count"])

	errs := handler.EntriesByLevel(slog.LevelError)
	require.Len(t, errs, 1)
	assert.Equal(t, "file missing", errs[0].Message)
	assert.Equal(t, "x.csv", errs[0].Attrs["path"])
}

func TestBufferedHandler_LevelFilter(t *testing.T) {
	handler := NewBufferedHandler(slog.LevelWarn)
	logger := slog.New(handler)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("kept")

	assert.Equal(t, 1, handler.Count())
	assert.True(t, handler.ContainsMessage("kept"))
}

func TestBufferedHandler_Clear(t *testing.T) {
	logger, handler := NewTestLogger()
	logger.Info("one")
	handler.Clear()
	assert.Zero(t, handler.Count())
}
