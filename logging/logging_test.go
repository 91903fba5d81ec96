package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"Info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestSetupWritesConsoleAndFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "squadron.log")

	logger, closer, err := Setup("info", &console, path)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("ship", "abc").Msg("visible")
	if err := closer.Close(); err != nil {
		t.Fatalf("closing log file: %v", err)
	}

	if strings.Contains(console.String(), "hidden") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(console.String(), "visible") {
		t.Error("info message missing from console")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 JSON line, got %d", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log file line is not JSON: %v", err)
	}
	if entry["ship"] != "abc" || entry["message"] != "visible" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestSetupBadFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	if _, _, err := Setup("info", &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected an error for an unwritable log path")
	}
}
