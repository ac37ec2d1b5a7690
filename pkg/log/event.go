package log

import (
	"fmt"
	"strings"
	"time"
)

// Event records a single environment operation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the operation started (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the environment that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Operation performed.
	Operation Operation `cbor:"3,keyasint"`

	// Input is the expression, definition line or file name.
	Input string `cbor:"4,keyasint,omitempty"`

	// Result is the outcome in plain notation (empty on failure).
	Result string `cbor:"5,keyasint,omitempty"`

	// Style is the output style for RENDER events.
	Style string `cbor:"6,keyasint,omitempty"`

	// Duration of the operation. Stored as nanoseconds.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`

	// Rules is the number of rules in the table after the operation.
	Rules int `cbor:"8,keyasint,omitempty"`

	// Error is set when the operation failed.
	Error *ErrorData `cbor:"9,keyasint,omitempty"`
}

// Failed reports whether the event records a failure.
func (e Event) Failed() bool {
	return e.Error != nil
}

// Operation identifies the kind of environment operation.
type Operation uint8

const (
	// OpParse is the parsing of a unit expression.
	OpParse Operation = 0
	// OpDefine is the installation of a rule definition.
	OpDefine Operation = 1
	// OpReset is the removal of all dynamic rules.
	OpReset Operation = 2
	// OpLoad is the loading of a rule file.
	OpLoad Operation = 3
	// OpRender is the formatting of a unit vector.
	OpRender Operation = 4
)

var operationNames = [...]string{
	OpParse:  "PARSE",
	OpDefine: "DEFINE",
	OpReset:  "RESET",
	OpLoad:   "LOAD",
	OpRender: "RENDER",
}

// numOperations is the number of known operations.
const numOperations = len(operationNames)

// Operations returns the known operations in declaration order.
func Operations() []Operation {
	ops := make([]Operation, numOperations)
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	return int(o) < numOperations
}

// String returns the operation name.
func (o Operation) String() string {
	if o.Valid() {
		return operationNames[o]
	}
	return "UNKNOWN"
}

// ParseOperation parses an operation name (case insensitive).
func ParseOperation(name string) (Operation, error) {
	for i, n := range operationNames {
		if strings.EqualFold(n, name) {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}

// ErrorData describes a failed operation.
type ErrorData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Line is the failing line of a rule file (LOAD only).
	Line int `cbor:"2,keyasint,omitempty"`

	// Func is the function that recorded the failure.
	Func string `cbor:"3,keyasint,omitempty"`
}
