package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logOne(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterLogsSuccess(t *testing.T) {
	entry := logOne(t, Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Operation: OpRender,
		Input:     "kg m s^-2",
		Result:    "1 N",
		Style:     "plain",
		Rules:     9,
	})

	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
	if entry["session"] != "session-123" {
		t.Errorf("session = %v, want %q", entry["session"], "session-123")
	}
	if entry["op"] != "RENDER" {
		t.Errorf("op = %v, want RENDER", entry["op"])
	}
	if entry["result"] != "1 N" {
		t.Errorf("result = %v, want %q", entry["result"], "1 N")
	}
	if entry["rules"] != float64(9) {
		t.Errorf("rules = %v, want 9", entry["rules"])
	}
	if _, ok := entry["error"]; ok {
		t.Error("unexpected error attribute")
	}
}

func TestSlogAdapterLogsFailure(t *testing.T) {
	entry := logOne(t, Event{
		SessionID: "session-123",
		Operation: OpLoad,
		Input:     "broken.rules",
		Error:     &ErrorData{Message: "unknown symbol: 'e'", Line: 7},
	})

	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["error"] != "unknown symbol: 'e'" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["line"] != float64(7) {
		t.Errorf("line = %v, want 7", entry["line"])
	}
	if _, ok := entry["result"]; ok {
		t.Error("unexpected result attribute on failure")
	}
}
