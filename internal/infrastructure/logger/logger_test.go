package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	log.Info().Str("entry_id", "e-1").Msg("entry saved")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if line["message"] != "entry saved" || line["entry_id"] != "e-1" {
		t.Fatalf("unexpected fields: %v", line)
	}
	if line["service"] != "fintrack" {
		t.Fatalf("expected service field, got %v", line["service"])
	}
	if caller, _ := line["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Fatalf("expected caller field, got %v", line["caller"])
	}
}

func TestNewWithWriterConsoleAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn", Format: "console"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console formatted warn line, got %q", out)
	}
}

func TestConsoleOutputHasNoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "console"}, &buf)

	log.Info().Msg("plain")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes for a buffer, got %q", buf.String())
	}
	if isTerminal(&buf) {
		t.Fatalf("a buffer is not a terminal")
	}
}
