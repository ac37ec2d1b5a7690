package log

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpParse, "PARSE"},
		{OpDefine, "DEFINE"},
		{OpReset, "RESET"},
		{OpLoad, "LOAD"},
		{OpRender, "RENDER"},
		{Operation(200), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestParseOperation(t *testing.T) {
	for _, name := range []string{"PARSE", "define", "Reset", "load", "RENDER"} {
		op, err := ParseOperation(name)
		if err != nil {
			t.Errorf("ParseOperation(%q) failed: %v", name, err)
			continue
		}
		if !strings.EqualFold(op.String(), name) {
			t.Errorf("ParseOperation(%q) = %v", name, op)
		}
	}
	if _, err := ParseOperation("CONVERT"); err == nil {
		t.Error("ParseOperation(CONVERT) should fail")
	}
}

func TestEventRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	event := Event{
		Timestamp: ts,
		SessionID: "b0c5a2a4-6f4e-4c1e-9f1d-0c7d2f9e8a11",
		Operation: OpLoad,
		Input:     "si.rules",
		Duration:  1500 * time.Microsecond,
		Rules:     12,
		Error:     &ErrorData{Message: "unknown symbol: 'e'", Line: 4, Func: "LoadRules"},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.SessionID != event.SessionID || got.Operation != OpLoad || got.Input != "si.rules" {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.Duration != event.Duration {
		t.Errorf("Duration = %v, want %v", got.Duration, event.Duration)
	}
	if got.Rules != 12 {
		t.Errorf("Rules = %d, want 12", got.Rules)
	}
	if !got.Failed() || got.Error.Line != 4 || got.Error.Func != "LoadRules" {
		t.Errorf("Error = %+v", got.Error)
	}
}

func TestEventUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{SessionID: "s", Operation: OpParse})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	// A map with integer keys never contains the field names.
	for _, name := range []string{"SessionID", "Operation", "Timestamp"} {
		if bytes.Contains(data, []byte(name)) {
			t.Errorf("encoded event contains field name %q", name)
		}
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("DecodeEvent should fail on invalid CBOR")
	}
}
