package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// SetupがJSON形式のログを出力することを検証
func TestSetup_OutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelInfo)

	l.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

// レベル未満のログが出力されないことを検証
func TestSetup_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelInfo)

	l.Debug("should be suppressed")

	if buf.Len() != 0 {
		t.Errorf("debug log should be suppressed, got: %s", buf.String())
	}
}
