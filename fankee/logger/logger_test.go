package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestHandlerDefaultsToDebug(t *testing.T) {
	h := NewHandler("Test")
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("fresh handler should pass debug records")
	}
}

func TestSetLevelFiltersLowerRecords(t *testing.T) {
	h := NewHandler("Test")
	h.SetLevel(slog.LevelWarn)

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSetLevelAppliesToClones(t *testing.T) {
	h := NewHandler("Test")
	clone := h.WithAttrs([]slog.Attr{slog.String("type", "db")})

	h.SetLevel(slog.LevelError)
	if clone.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("level change must reach handlers cloned via WithAttrs")
	}
}
