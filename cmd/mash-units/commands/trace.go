package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/mash-units/pkg/log"
)

// TraceOptions select and format the events of a trace file.
type TraceOptions struct {
	Path      string
	Operation string
	SessionID string
	Failed    bool
	JSON      bool
	Stats     bool
}

// TraceOutput is the JSON representation of a trace event.
type TraceOutput struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Operation string    `json:"operation"`
	Input     string    `json:"input,omitempty"`
	Result    string    `json:"result,omitempty"`
	Style     string    `json:"style,omitempty"`
	Duration  string    `json:"duration"`
	Rules     int       `json:"rules"`
	Error     string    `json:"error,omitempty"`
	ErrorLine int       `json:"error_line,omitempty"`
	ErrorFunc string    `json:"error_func,omitempty"`
}

// TraceStats holds aggregate statistics about a trace file.
type TraceStats struct {
	log.Counter
	Sessions  map[string]int
	TimeRange struct {
		Start time.Time
		End   time.Time
	}
}

// RunTrace reads a trace file written with -trace and prints it.
func RunTrace(args []string, stdout, stderr io.Writer) int {
	opts, err := parseTraceArgs(args)
	if err != nil {
		errorf(stderr, "%v", err)
		printTraceUsage(stderr)
		return exitCommandError
	}

	var filter log.Filter
	if opts.Operation != "" {
		op, err := log.ParseOperation(opts.Operation)
		if err != nil {
			errorf(stderr, "%v", err)
			return exitCommandError
		}
		filter.Operation = &op
	}
	filter.SessionID = opts.SessionID
	filter.FailedOnly = opts.Failed

	reader, err := log.NewFilteredReader(opts.Path, filter)
	if err != nil {
		errorf(stderr, "failed to open trace file: %v", err)
		return exitCommandError
	}
	defer reader.Close()

	switch {
	case opts.Stats:
		err = traceStats(reader, stdout)
	case opts.JSON:
		err = traceJSONL(reader, stdout)
	default:
		err = traceView(reader, stdout)
	}
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	return exitSuccess
}

func parseTraceArgs(args []string) (*TraceOptions, error) {
	fs := newFlagSet("trace")
	opts := &TraceOptions{}
	fs.StringVar(&opts.Operation, "op", "", "Filter by operation (parse, define, reset, load, render)")
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.BoolVar(&opts.Failed, "failed", false, "Show failed operations only")
	fs.BoolVar(&opts.JSON, "json", false, "Output events as JSON lines")
	fs.BoolVar(&opts.Stats, "stats", false, "Show statistics instead of events")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("trace file path required")
	}
	opts.Path = fs.Arg(0)
	return opts, nil
}

func eachEvent(reader *log.Reader, fn func(log.Event) error) error {
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

func traceView(reader *log.Reader, w io.Writer) error {
	return eachEvent(reader, func(event log.Event) error {
		formatTraceEvent(w, event)
		return nil
	})
}

// formatTraceEvent writes one line per event:
// timestamp [session] OP input -> result
func formatTraceEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%s] %-6s %s", ts, shortenSessionID(event.SessionID), event.Operation, event.Input)
	switch {
	case event.Error != nil:
		fmt.Fprintf(w, " !! %s", event.Error.Message)
		if event.Error.Line > 0 {
			fmt.Fprintf(w, " (line %d)", event.Error.Line)
		}
	case event.Result != "":
		fmt.Fprintf(w, " -> %s", event.Result)
		if event.Style != "" {
			fmt.Fprintf(w, " [%s]", event.Style)
		}
	}
	fmt.Fprintf(w, " (%s)\n", event.Duration)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func traceJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return eachEvent(reader, func(event log.Event) error {
		out := TraceOutput{
			Timestamp: event.Timestamp,
			SessionID: event.SessionID,
			Operation: event.Operation.String(),
			Input:     event.Input,
			Result:    event.Result,
			Style:     event.Style,
			Duration:  event.Duration.String(),
			Rules:     event.Rules,
		}
		if event.Error != nil {
			out.Error = event.Error.Message
			out.ErrorLine = event.Error.Line
			out.ErrorFunc = event.Error.Func
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func traceStats(reader *log.Reader, w io.Writer) error {
	stats := &TraceStats{Sessions: make(map[string]int)}
	err := eachEvent(reader, func(event log.Event) error {
		stats.Log(event)
		stats.Sessions[event.SessionID]++
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}
		return nil
	})
	if err != nil {
		return err
	}
	printTraceStats(w, stats)
	return nil
}

func printTraceStats(w io.Writer, stats *TraceStats) {
	fmt.Fprintln(w, "=== Unit Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.Total() > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Busy Time:  %s\n", stats.Busy())
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.Total())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range log.Operations() {
		if count, failed := stats.Count(op); count > 0 {
			fmt.Fprintf(w, "  %-8s %d", op.String()+":", count)
			if failed > 0 {
				fmt.Fprintf(w, " (%d failed)", failed)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	ids := make([]string, 0, len(stats.Sessions))
	for id := range stats.Sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  [%s] %d events\n", shortenSessionID(id), stats.Sessions[id])
	}
}

func printTraceUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage:
  mash-units trace [-op name] [-session id] [-failed] [-json | -stats] <file.trace>

Examples:
  mash-units trace units.trace
  mash-units trace -op define -failed units.trace
  mash-units trace -stats units.trace`)
}
