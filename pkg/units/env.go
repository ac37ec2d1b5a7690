package units

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/log"
	"github.com/mash-protocol/mash-units/pkg/parser"
	"github.com/mash-protocol/mash-units/pkg/persistence"
	"github.com/mash-protocol/mash-units/pkg/rulefile"
	"github.com/mash-protocol/mash-units/pkg/symtab"
	"github.com/mash-protocol/mash-units/pkg/unit"
)

// Env is a unit environment: a rule table plus the parser and formatter
// working on it.
type Env struct {
	mu    sync.RWMutex
	table *symtab.Table

	style   format.Style
	reduce  bool
	session string
	logger  *slog.Logger
	events  log.Logger
	trace   *log.FileLogger

	errMu   sync.Mutex
	lastErr *ErrorRecord
}

// New creates an environment, opens the trace file and applies the
// configured rule files and rules in order.
func New(cfg Config) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Env{
		table:   symtab.New(),
		style:   cfg.Style,
		reduce:  cfg.Reduce,
		session: uuid.NewString(),
		logger:  cfg.Logger,
		events:  cfg.EventLogger,
	}

	if cfg.TraceFile != "" {
		fl, err := log.NewFileLogger(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		e.trace = fl
		e.events = log.NewMultiLogger(cfg.EventLogger).
			Route(log.Filter{FailedOnly: cfg.TraceFailedOnly}, fl)
	}
	if e.events == nil {
		e.events = log.NoopLogger{}
	}

	for _, path := range cfg.RuleFiles {
		if _, err := e.LoadFile(path); err != nil {
			e.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for i, line := range cfg.Rules {
		if _, err := e.Define(line); err != nil {
			e.Close()
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	e.debugLog("environment ready", "session", e.session, "rules", e.table.Len())
	return e, nil
}

// Close closes the trace file opened by New. The environment stays usable;
// further events only reach the configured EventLogger.
func (e *Env) Close() error {
	if e.trace == nil {
		return nil
	}
	if err := e.trace.Err(); err != nil {
		e.debugLog("trace incomplete", "session", e.session, "error", err)
	}
	e.debugLog("trace closed", "session", e.session, "events", e.trace.Written())
	return e.trace.Close()
}

// SessionID returns the UUID stamped on this environment's trace events.
func (e *Env) SessionID() string {
	return e.session
}

// Style returns the configured default style.
func (e *Env) Style() format.Style {
	return e.style
}

// Reduce reports whether the configuration asks for reduced output.
func (e *Env) Reduce() bool {
	return e.reduce
}

// Parse parses a unit expression against the current rules.
func (e *Env) Parse(text string) (unit.Vector, error) {
	start := time.Now()
	e.mu.RLock()
	v, err := parser.Parse(e.table, text)
	n := e.table.Len()
	e.mu.RUnlock()

	ev := e.event(log.OpParse, text, start, n)
	if err != nil {
		e.fail(&ev, err)
		return unit.Vector{}, err
	}
	ev.Result = format.Render(v, format.Plain, nil)
	e.events.Log(ev)
	return v, nil
}

// Define installs a rule definition such as "N = kg m s^-2" or
// "!J = N m". The definition is applied atomically: on failure the table
// is unchanged.
func (e *Env) Define(line string) (parser.Definition, error) {
	start := time.Now()
	e.mu.Lock()
	def, err := parser.Define(e.table, line)
	var rule symtab.Rule
	if err == nil {
		rule, _ = e.table.Lookup(def.Symbol)
	}
	n := e.table.Len()
	e.mu.Unlock()

	ev := e.event(log.OpDefine, line, start, n)
	if err != nil {
		e.fail(&ev, err)
		return parser.Definition{}, err
	}
	ev.Result = DefinitionLine(rule)
	e.events.Log(ev)
	e.debugLog("rule defined", "symbol", def.Symbol, "protected", def.Protected)
	return def, nil
}

// Remove deletes an unprotected rule.
func (e *Env) Remove(symbol string) error {
	e.mu.Lock()
	err := e.table.Remove(symbol)
	e.mu.Unlock()
	if err != nil {
		e.setLastError(newErrorRecord(log.OpDefine, err, 0))
	}
	return err
}

// Reset discards every dynamic rule. Base rules and the gram rule remain.
func (e *Env) Reset() {
	start := time.Now()
	e.mu.Lock()
	e.table.Reset()
	n := e.table.Len()
	e.mu.Unlock()

	e.events.Log(e.event(log.OpReset, "", start, n))
	e.debugLog("rules reset")
}

// LoadRules reads rule definitions from r (text or YAML, detected from
// the content) and defines them in order. The first failing definition
// aborts the load with a *LineError; definitions before it stay in effect.
// It returns the number of definitions applied.
func (e *Env) LoadRules(r io.Reader) (int, error) {
	return e.load("", func() (*rulefile.File, error) { return rulefile.Parse(r) })
}

// LoadFile is LoadRules for a named file.
func (e *Env) LoadFile(path string) (int, error) {
	return e.load(path, func() (*rulefile.File, error) { return rulefile.ParseFile(path) })
}

func (e *Env) load(name string, read func() (*rulefile.File, error)) (int, error) {
	start := time.Now()
	f, err := read()
	if err != nil {
		ev := e.event(log.OpLoad, name, start, 0)
		e.fail(&ev, err)
		return 0, err
	}

	e.mu.Lock()
	applied, err := e.apply(f.Lines)
	n := e.table.Len()
	e.mu.Unlock()

	ev := e.event(log.OpLoad, name, start, n)
	if err != nil {
		e.fail(&ev, err)
		return applied, err
	}
	ev.Result = fmt.Sprintf("%d rules", applied)
	e.events.Log(ev)
	e.debugLog("rules loaded", "source", name, "count", applied)
	return applied, nil
}

// apply defines lines in order. The caller holds the write lock.
func (e *Env) apply(lines []rulefile.Line) (int, error) {
	for i, l := range lines {
		if _, err := parser.Define(e.table, l.Text); err != nil {
			return i, &LineError{Line: l.Number, Text: l.Text, Err: err}
		}
	}
	return len(lines), nil
}

// Render formats v. With reduce set, a vector whose exponents match a rule
// is written as a multiple of the first such rule.
func (e *Env) Render(v unit.Vector, style format.Style, reduce bool) string {
	start := time.Now()
	e.mu.RLock()
	out := format.Render(v, style, e.reducer(reduce))
	n := e.table.Len()
	e.mu.RUnlock()

	ev := e.event(log.OpRender, v.String(), start, n)
	ev.Style = style.String()
	ev.Result = out
	e.events.Log(ev)
	return out
}

// Measure returns len(e.Render(v, style, reduce)).
func (e *Env) Measure(v unit.Vector, style format.Style, reduce bool) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return format.Measure(v, style, e.reducer(reduce))
}

// Format parses text and renders it with the configured default style and
// reduction.
func (e *Env) Format(text string) (string, error) {
	v, err := e.Parse(text)
	if err != nil {
		return "", err
	}
	return e.Render(v, e.style, e.reduce), nil
}

// Compare parses both expressions and compares the results.
func (e *Env) Compare(a, b string) (unit.Relation, error) {
	va, err := e.Parse(a)
	if err != nil {
		return unit.RelationDifferent, err
	}
	vb, err := e.Parse(b)
	if err != nil {
		return unit.RelationDifferent, err
	}
	return unit.Compare(&va, &vb)
}

func (e *Env) reducer(reduce bool) format.Reducer {
	if !reduce {
		return nil
	}
	return e.table
}

// Lookup returns the rule for symbol.
func (e *Env) Lookup(symbol string) (symtab.Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Lookup(symbol)
}

// Rules returns all rules in table order.
func (e *Env) Rules() []symtab.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Rules()
}

// DynamicRules returns the rules after the base rules, including the gram
// rule.
func (e *Env) DynamicRules() []symtab.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Dynamic()
}

// UserRules returns the rules defined on top of the built-in table, in
// definition order. Unlike DynamicRules it leaves out the gram rule, so the
// result can be written back as a rule file.
func (e *Env) UserRules() []symtab.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return userRules(e.table)
}

func userRules(t *symtab.Table) []symtab.Rule {
	var out []symtab.Rule
	for _, r := range t.Dynamic() {
		if r.Symbol == symtab.GramSymbol {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Prefixes returns the SI prefix table.
func (e *Env) Prefixes() []symtab.Prefix {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Prefixes()
}

// Snapshot returns the user defined rules as plain notation definitions,
// in definition order. Restore rebuilds the same table from it.
func (e *Env) Snapshot() []persistence.RuleRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []persistence.RuleRecord
	for _, r := range userRules(e.table) {
		out = append(out, persistence.RuleRecord{
			Symbol:     r.Symbol,
			Definition: DefinitionLine(r),
			Protected:  r.Protected,
		})
	}
	return out
}

// Restore resets the table and defines records in order. It stops at the
// first failing record with a *LineError numbered from 1.
func (e *Env) Restore(records []persistence.RuleRecord) error {
	start := time.Now()
	lines := make([]rulefile.Line, len(records))
	for i, r := range records {
		lines[i] = rulefile.Line{Number: i + 1, Text: r.Definition}
	}

	e.mu.Lock()
	e.table.Reset()
	applied, err := e.apply(lines)
	n := e.table.Len()
	e.mu.Unlock()

	ev := e.event(log.OpLoad, "snapshot", start, n)
	if err != nil {
		e.fail(&ev, err)
		return err
	}
	ev.Result = fmt.Sprintf("%d rules", applied)
	e.events.Log(ev)
	return nil
}

// RuleSet wraps Snapshot for the persistence stores.
func (e *Env) RuleSet(name string) *persistence.RuleSet {
	return &persistence.RuleSet{
		Name:      name,
		SessionID: e.session,
		Rules:     e.Snapshot(),
	}
}

// LastError returns the most recent failure, or nil if nothing failed yet.
func (e *Env) LastError() *ErrorRecord {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	if e.lastErr == nil {
		return nil
	}
	rec := *e.lastErr
	return &rec
}

func (e *Env) setLastError(rec *ErrorRecord) {
	e.errMu.Lock()
	e.lastErr = rec
	e.errMu.Unlock()
}

func (e *Env) event(op log.Operation, input string, start time.Time, rules int) log.Event {
	return log.Event{
		Timestamp: start,
		SessionID: e.session,
		Operation: op,
		Input:     input,
		Duration:  time.Since(start),
		Rules:     rules,
	}
}

// fail records err as the last error and emits ev with the error attached.
// It must be called directly from the failing Env method.
func (e *Env) fail(ev *log.Event, err error) {
	rec := newErrorRecord(ev.Operation, err, 1)
	e.setLastError(rec)

	ev.Error = &log.ErrorData{Message: err.Error(), Func: rec.Func}
	var le *LineError
	if errors.As(err, &le) {
		ev.Error.Line = le.Line
	}
	e.events.Log(*ev)
	e.debugLog("operation failed", "op", ev.Operation.String(), "input", ev.Input, "error", err)
}

// debugLog logs a debug message if logging is enabled.
func (e *Env) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// DefinitionLine renders r as a definition line in plain notation, for
// example "!N = 1 m kg s^-2". Parsing the line reproduces the rule.
func DefinitionLine(r symtab.Rule) string {
	mark := ""
	if r.Protected {
		mark = "!"
	}
	return mark + r.Symbol + " = " + format.Render(r.Unit, format.Plain, nil)
}
