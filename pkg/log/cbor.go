package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrUnknownOperation is returned for events whose operation code is not
// one of the Op constants, e.g. a trace written by a newer version.
var ErrUnknownOperation = errors.New("unknown trace operation")

// Trace events are encoded canonically with nanosecond RFC 3339 timestamps,
// so identical sessions produce identical bytes apart from time and UUID.
var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	var err error

	traceEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace CBOR encoder mode: %v", err))
	}

	// Keys above 9 come from newer writers and are dropped.
	traceDecMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace CBOR decoder mode: %v", err))
	}
}

func checkOperation(event Event) error {
	if !event.Operation.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, event.Operation)
	}
	return nil
}

// EncodeEvent encodes a single trace event.
func EncodeEvent(event Event) ([]byte, error) {
	if err := checkOperation(event); err != nil {
		return nil, err
	}
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes a single trace event and rejects unknown operations.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := checkOperation(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// decodeNext reads the next event of a trace stream.
func decodeNext(dec *cbor.Decoder) (Event, error) {
	var event Event
	if err := dec.Decode(&event); err != nil {
		return Event{}, err
	}
	if err := checkOperation(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a trace stream encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder creates a trace stream decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
