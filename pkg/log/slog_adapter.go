package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see every operation in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Failures are logged at Warn
// level, everything else at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("op", event.Operation.String()),
		slog.Duration("duration", event.Duration),
	}
	if event.Input != "" {
		attrs = append(attrs, slog.String("input", event.Input))
	}
	if event.Style != "" {
		attrs = append(attrs, slog.String("style", event.Style))
	}
	if event.Rules > 0 {
		attrs = append(attrs, slog.Int("rules", event.Rules))
	}

	level := slog.LevelDebug
	if event.Error != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Line > 0 {
			attrs = append(attrs, slog.Int("line", event.Error.Line))
		}
	} else if event.Result != "" {
		attrs = append(attrs, slog.String("result", event.Result))
	}

	a.logger.LogAttrs(context.Background(), level, "units", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
