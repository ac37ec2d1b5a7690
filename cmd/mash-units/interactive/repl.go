// Package interactive provides the interactive unit calculator of
// mash-units.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/units"
)

// Session evaluates calculator input against an environment. It holds the
// output settings that the :style and :reduce commands change.
type Session struct {
	env    *units.Env
	out    io.Writer
	style  format.Style
	reduce bool
}

// NewSession creates a session writing to out, starting with the
// environment's default style and reduce setting.
func NewSession(env *units.Env, out io.Writer) *Session {
	return &Session{env: env, out: out, style: env.Style(), reduce: env.Reduce()}
}

// Style returns the current output style.
func (s *Session) Style() format.Style {
	return s.style
}

// Reduce reports whether results are reduced to rule symbols.
func (s *Session) Reduce() bool {
	return s.reduce
}

// Exec evaluates one line of input. It returns false when the session
// should end.
//
// Lines starting with ':' are commands. Lines containing '=' are rule
// definitions. Everything else is parsed as a unit expression and printed
// in the current style.
func (s *Session) Exec(line string) bool {
	input := strings.TrimSpace(line)
	switch {
	case input == "", strings.HasPrefix(input, "#"):
		return true
	case strings.HasPrefix(input, ":"):
		return s.command(input[1:])
	case strings.Contains(input, "="):
		s.define(input)
	default:
		s.eval(input)
	}
	return true
}

func (s *Session) command(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		s.printHelp()
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "q", "exit":
		return false
	case "help", "h", "?":
		s.printHelp()
	case "define", "d":
		s.define(strings.Join(args, " "))
	case "rules", "r":
		s.cmdRules(args)
	case "style", "s":
		s.cmdStyle(args)
	case "reduce":
		s.cmdReduce(args)
	case "reset":
		s.env.Reset()
		fmt.Fprintln(s.out, "All user rules removed.")
	case "remove", "rm":
		s.cmdRemove(args)
	case "load", "l":
		s.cmdLoad(args)
	case "compare", "c":
		s.cmdCompare(args)
	case "error", "e":
		s.cmdError()
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (try :help)\n", cmd)
	}
	return true
}

func (s *Session) eval(expr string) {
	v, err := s.env.Parse(expr)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, s.env.Render(v, s.style, s.reduce))
}

func (s *Session) define(line string) {
	if line == "" {
		fmt.Fprintln(s.out, "Usage: :define SYMBOL = EXPRESSION")
		return
	}
	def, err := s.env.Define(line)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if r, ok := s.env.Lookup(def.Symbol); ok {
		fmt.Fprintln(s.out, units.DefinitionLine(r))
	}
}

func (s *Session) cmdRules(args []string) {
	rules := s.env.UserRules()
	if len(args) > 0 && args[0] == "all" {
		rules = s.env.Rules()
	}
	if len(rules) == 0 {
		fmt.Fprintln(s.out, "No user rules defined.")
		return
	}
	for _, r := range rules {
		mark := " "
		if r.Protected {
			mark = "!"
		}
		fmt.Fprintf(s.out, "%s%-8s %s\n", mark, r.Symbol, s.env.Render(r.Unit, format.Plain, false))
	}
}

func (s *Session) cmdStyle(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Style: %s\n", s.style)
		return
	}
	style, err := format.ParseStyle(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.style = style
	fmt.Fprintf(s.out, "Style: %s\n", s.style)
}

func (s *Session) cmdReduce(args []string) {
	if len(args) == 0 {
		s.reduce = !s.reduce
	} else {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			s.reduce = true
		case "off", "false", "0":
			s.reduce = false
		default:
			fmt.Fprintln(s.out, "Usage: :reduce [on|off]")
			return
		}
	}
	state := "off"
	if s.reduce {
		state = "on"
	}
	fmt.Fprintf(s.out, "Reduce: %s\n", state)
}

func (s *Session) cmdRemove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: :remove SYMBOL")
		return
	}
	if err := s.env.Remove(args[0]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Removed %s\n", args[0])
}

func (s *Session) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: :load FILE")
		return
	}
	n, err := s.env.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v (%d rules loaded)\n", err, n)
		return
	}
	fmt.Fprintf(s.out, "Loaded %d rules from %s\n", n, args[0])
}

func (s *Session) cmdCompare(args []string) {
	a, b, ok := strings.Cut(strings.Join(args, " "), ",")
	if !ok {
		fmt.Fprintln(s.out, "Usage: :compare EXPR, EXPR")
		return
	}
	rel, err := s.env.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, rel)
}

func (s *Session) cmdError() {
	rec := s.env.LastError()
	if rec == nil {
		fmt.Fprintln(s.out, "No error recorded.")
		return
	}
	fmt.Fprintf(s.out, "%s: %s\n", rec.Op, rec)
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `
Enter a unit expression to evaluate it, e.g.  kg m / s^2
Enter SYMBOL = EXPRESSION to define a rule, e.g.  N = kg m s^-2
Prefix the symbol with ! to replace a rule, e.g.  !N = kg m s^-2

Commands:
  :define SYM = EXPR   Define a rule
  :rules [all]         List user rules (or all rules)
  :remove SYM          Remove a user rule
  :style [name]        Show or set style (plain, latex, frac)
  :reduce [on|off]     Toggle reduction to rule symbols
  :compare A, B        Compare two expressions
  :load FILE           Load a rule file
  :reset               Remove all user rules
  :error               Show the last recorded error
  :help                Show this help
  :quit                Exit`)
}

// REPL runs a Session on a readline terminal.
type REPL struct {
	session *Session
	rl      *readline.Instance
}

// NewREPL creates a readline based calculator for env.
func NewREPL(env *units.Env) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "units> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &REPL{session: NewSession(env, rl.Stdout()), rl: rl}, nil
}

// Stderr returns a writer that coordinates with the readline input.
func (r *REPL) Stderr() io.Writer {
	return r.rl.Stderr()
}

// Run reads lines until EOF, :quit or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) {
	defer r.rl.Close()

	fmt.Fprintln(r.rl.Stdout(), "mash-units interactive calculator. Type :help for commands.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}
		if !r.session.Exec(line) {
			return
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(":define"),
		readline.PcItem(":rules", readline.PcItem("all")),
		readline.PcItem(":remove"),
		readline.PcItem(":style",
			readline.PcItem(format.Plain.String()),
			readline.PcItem(format.LaTeXInline.String()),
			readline.PcItem(format.LaTeXFrac.String()),
		),
		readline.PcItem(":reduce", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(":compare"),
		readline.PcItem(":load"),
		readline.PcItem(":reset"),
		readline.PcItem(":error"),
		readline.PcItem(":help"),
		readline.PcItem(":quit"),
	)
}
