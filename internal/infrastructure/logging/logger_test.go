package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nerrad567/movie-api/internal/infrastructure/config"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		logger := New(config.LoggingConfig{Level: "info", Format: format, Output: "stderr"}, "1.0.0")
		if logger == nil {
			t.Fatalf("New(format=%q) returned nil", format)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewWithWriter_DefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test-version", &buf)

	logger.With("component", "store").Info("test message", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	want := map[string]string{
		"msg":       "test message",
		"service":   ServiceName,
		"version":   "test-version",
		"component": "store",
		"key":       "value",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %q", k, entry[k], v)
		}
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "text"}, "v", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn entry missing")
	}
}

func TestLogger_With(t *testing.T) {
	logger := Default()
	child := logger.With("component", "api")
	if child == nil || child == logger {
		t.Error("expected a distinct child logger")
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard().Error("dropped", "error", "boom")
}
