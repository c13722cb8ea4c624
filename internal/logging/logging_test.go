package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("room memory malformed", "room", "W1N1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above warn, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if rec["msg"] != "room memory malformed" || rec["room"] != "W1N1" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("spawned agent", "name", "1-0")
	if !strings.Contains(buf.String(), "name=1-0") {
		t.Fatalf("expected text attrs, got %q", buf.String())
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "trace", "text"); err == nil {
		t.Fatalf("expected unknown level error")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, _ := ParseLevel("WARNING"); lvl != slog.LevelWarn {
		t.Fatalf("expected warn, got %v", lvl)
	}
}
