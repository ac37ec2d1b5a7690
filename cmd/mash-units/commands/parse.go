package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/unit"
	"github.com/mash-protocol/mash-units/pkg/units"
)

// ParseOptions configures the parse command.
type ParseOptions struct {
	EnvOptions
	Style       string
	Reduce      bool
	JSON        bool
	Expressions []string
}

// ParseOutput is the JSON form of one parsed expression.
type ParseOutput struct {
	Input     string         `json:"input"`
	Output    string         `json:"output,omitempty"`
	Factor    float64        `json:"factor"`
	Exponents map[string]int `json:"exponents,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// RunParse parses unit expressions and prints them in the requested style.
func RunParse(args []string, stdout, stderr io.Writer) int {
	opts, err := parseParseArgs(args)
	if err != nil {
		errorf(stderr, "%v", err)
		printParseUsage(stderr)
		return exitCommandError
	}
	if len(opts.Expressions) == 0 {
		errorf(stderr, "no expressions specified")
		printParseUsage(stderr)
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	style := env.Style()
	if opts.Style != "" {
		if style, err = format.ParseStyle(opts.Style); err != nil {
			errorf(stderr, "%v", err)
			return exitCommandError
		}
	}

	// -reduce only turns reduction on; the config decides the default.
	reduce := opts.Reduce || env.Reduce()

	exit := exitSuccess
	var outputs []ParseOutput
	for _, expr := range opts.Expressions {
		out := parseOne(env, expr, style, reduce)
		if out.Error != "" {
			exit = exitValidation
			if !opts.JSON {
				errorf(stderr, "%q: %s", expr, out.Error)
			}
		} else if !opts.JSON {
			fmt.Fprintln(stdout, out.Output)
		}
		outputs = append(outputs, out)
	}

	if opts.JSON {
		if code := writeJSON(stdout, stderr, outputs); code != exitSuccess {
			return code
		}
	}
	return exit
}

func parseOne(env *units.Env, expr string, style format.Style, reduce bool) ParseOutput {
	out := ParseOutput{Input: expr}
	v, err := env.Parse(expr)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Output = env.Render(v, style, reduce)
	out.Factor = v.Factor
	out.Exponents = exponents(v)
	return out
}

// exponents maps dimension symbols to their non-zero exponents.
func exponents(v unit.Vector) map[string]int {
	m := make(map[string]int)
	for _, d := range unit.Dimensions() {
		if e := v.Exp(d); e != 0 {
			m[d.Symbol()] = e
		}
	}
	return m
}

func parseParseArgs(args []string) (ParseOptions, error) {
	fs := newFlagSet("parse")
	opts := ParseOptions{}
	opts.register(fs)

	fs.StringVar(&opts.Style, "style", "", "Output style (plain, latex, frac)")
	fs.BoolVar(&opts.Reduce, "reduce", false, "Reduce to a matching rule symbol")
	fs.BoolVar(&opts.JSON, "json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Expressions = fs.Args()
	return opts, nil
}

func printParseUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: mash-units parse [options] <expression>...

Options:
  -rules <file>   Rule file to load (repeatable)
  -config <file>  YAML configuration file
  -style          Output style (plain, latex, frac) [default: plain]
  -reduce         Reduce to a matching rule symbol [default: from config]
  -json           Output as JSON
  -trace <file>   Write a CBOR trace
  -trace-failed   Trace failed operations only

Examples:
  mash-units parse "kg m / s^2"
  mash-units parse -rules si.rules -reduce "kg m^2 s^-3"
  mash-units parse -style frac "sqrt(kg^2/m^2) kg"`)
}
