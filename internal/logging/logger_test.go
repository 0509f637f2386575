package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger = logger.With(String(FieldComponent, "batch"))
	logger.Info("file processed", String("path", "/library/movie.mkv"), Int("changed", 2))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO batch: file processed ") {
		t.Errorf("unexpected line %q", line)
	}
	if !strings.Contains(line, "path=/library/movie.mkv") || !strings.Contains(line, "changed=2") {
		t.Errorf("missing attrs in %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Warn("skip", String("reason", "no subtitle tracks"))
	if !strings.Contains(buf.String(), `reason="no subtitle tracks"`) {
		t.Errorf("value with spaces not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Info("run complete", Int("files", 3))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode JSON line: %v", err)
	}
	if payload["msg"] != "run complete" {
		t.Errorf("msg = %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Errorf("level = %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Errorf("missing ts key: %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens", Error(nil))
}
