package log

import (
	"sync"
	"time"
)

// Logger receives trace events. Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) {
	f(event)
}

// Counter tallies events per operation, the failures among them and the
// time spent. The zero value is ready to use and safe for concurrent use.
type Counter struct {
	mu     sync.Mutex
	total  int
	events [numOperations]int
	failed [numOperations]int
	busy   time.Duration
}

// Log counts the event. Events with an unknown operation only count
// towards Total.
func (c *Counter) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.busy += event.Duration
	if !event.Operation.Valid() {
		return
	}
	c.events[event.Operation]++
	if event.Failed() {
		c.failed[event.Operation]++
	}
}

// Total returns the number of events counted.
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Count returns the number of events for op and how many of them failed.
func (c *Counter) Count(op Operation) (events, failed int) {
	if !op.Valid() {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[op], c.failed[op]
}

// Busy returns the summed duration of all counted events.
func (c *Counter) Busy() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
	_ Logger = (*Counter)(nil)
)
