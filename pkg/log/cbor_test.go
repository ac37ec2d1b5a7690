package log

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeEventRejectsUnknownOperation(t *testing.T) {
	_, err := EncodeEvent(Event{Operation: Operation(42)})
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("EncodeEvent error = %v, want ErrUnknownOperation", err)
	}
}

func TestDecodeEventRejectsUnknownOperation(t *testing.T) {
	// Written by a newer version with an operation this one lacks.
	data, err := traceEncMode.Marshal(Event{Operation: Operation(42), Input: "kg"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if _, err := DecodeEvent(data); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("DecodeEvent error = %v, want ErrUnknownOperation", err)
	}
}

func TestReaderStopsAtUnknownOperation(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, op := range []Operation{OpParse, Operation(42)} {
		if err := enc.Encode(Event{Operation: op}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	reader := NewStreamReader(&buf, Filter{})
	if _, err := reader.Next(); err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if _, err := reader.Next(); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("second Next error = %v, want ErrUnknownOperation", err)
	}
}
