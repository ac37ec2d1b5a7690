package units

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/mash-protocol/mash-units/pkg/log"
)

// LineError reports the failing line of a rule file or rule set.
// Definitions before it have already taken effect.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ErrorRecord describes the most recent failure of an Env.
type ErrorRecord struct {
	// Op is the operation that failed.
	Op log.Operation
	// Message is the formatted error text.
	Message string
	// Func and Line locate the Env method that recorded the failure.
	Func string
	Line int
	// Time of the failure.
	Time time.Time
	// Err is the original error.
	Err error
}

// String renders the record as "message (Func:Line)".
func (r *ErrorRecord) String() string {
	if r.Func == "" {
		return r.Message
	}
	return fmt.Sprintf("%s (%s:%d)", r.Message, r.Func, r.Line)
}

// newErrorRecord captures the caller skip frames above it.
func newErrorRecord(op log.Operation, err error, skip int) *ErrorRecord {
	rec := &ErrorRecord{
		Op:      op,
		Message: err.Error(),
		Time:    time.Now(),
		Err:     err,
	}
	if pc, _, line, ok := runtime.Caller(skip + 1); ok {
		rec.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			rec.Func = shortFuncName(fn.Name())
		}
	}
	return rec
}

// shortFuncName strips the import path: "a/b/units.(*Env).Parse" becomes
// "units.(*Env).Parse".
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
