package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerTagsRecordsWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, "worker", "info")

	logger.Info("document processed", "document_id", "doc-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if record["service"] != "worker" {
		t.Errorf("service = %v, want worker", record["service"])
	}
	if record["msg"] != "document processed" {
		t.Errorf("msg = %v, want %q", record["msg"], "document processed")
	}
	if record["document_id"] != "doc-1" {
		t.Errorf("document_id = %v, want doc-1", record["document_id"])
	}
}

func TestLoggerSuppressesRecordsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, "api", "warn")

	logger.Info("chatty")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be suppressed at warn, got %q", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatalf("expected warn record to be written")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"  WARN  ": slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"info":     slog.LevelInfo,
		"verbose":  slog.LevelInfo,
		"":         slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
