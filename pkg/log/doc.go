// Package log provides structured trace logging for unit environments.
//
// This package defines the Logger interface and the Event type used to
// capture every operation a units.Env performs: expression parsing, rule
// definitions, table resets, rule file loads and rendering. It is separate
// from operational logging (slog). A trace is a complete machine-readable
// record of what was asked and what came out, for debugging rule files and
// reproducing parser failures.
//
// # Basic Usage
//
//	// For development: trace to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a binary file
//	cfg.EventLogger, _ = log.NewFileLogger("session.ulog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
//	// Failures only in the file, everything on the console
//	cfg.EventLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default())).
//	    Route(log.Filter{FailedOnly: true}, fileLogger)
//
// # File Format
//
// Trace files are a sequence of CBOR-encoded events with integer keys,
// conventionally named with the .ulog extension. Reader streams them back,
// optionally filtered. The mash-units trace command prints them.
package log
