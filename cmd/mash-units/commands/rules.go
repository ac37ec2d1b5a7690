package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-units/pkg/rulefile"
	"github.com/mash-protocol/mash-units/pkg/symtab"
	"github.com/mash-protocol/mash-units/pkg/units"
)

// RuleOutput is the JSON form of a rule.
type RuleOutput struct {
	Symbol     string         `json:"symbol"`
	Definition string         `json:"definition"`
	Protected  bool           `json:"protected,omitempty"`
	Factor     float64        `json:"factor"`
	Exponents  map[string]int `json:"exponents,omitempty"`
}

// PrefixOutput is the JSON form of an SI prefix.
type PrefixOutput struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// RunRules lists the user rules. Text and YAML output are valid rule files.
// With -all the base rules and the gram rule are listed too; that listing
// cannot be loaded back, since those rules are built in.
func RunRules(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("rules")
	var opts EnvOptions
	opts.register(fs)
	outFormat := fs.String("format", "text", "Output format (text, json, yaml)")
	all := fs.Bool("all", false, "Include the base rules")
	prefixes := fs.Bool("prefixes", false, "List the SI prefixes instead of rules")
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		fmt.Fprintln(stderr, "\nUsage: mash-units rules [-rules f] [-format text|json|yaml] [-all] [-prefixes]")
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	if *prefixes {
		return printPrefixes(stdout, stderr, env.Prefixes(), *outFormat == "json")
	}

	rules := env.UserRules()
	if *all {
		rules = env.Rules()
	}

	switch *outFormat {
	case "json":
		out := make([]RuleOutput, len(rules))
		for i, r := range rules {
			out[i] = RuleOutput{
				Symbol:     r.Symbol,
				Definition: units.DefinitionLine(r),
				Protected:  r.Protected,
				Factor:     r.Unit.Factor,
				Exponents:  exponents(r.Unit),
			}
		}
		return writeJSON(stdout, stderr, out)
	case "text", "yaml":
		rf, _ := rulefile.ParseFormat(*outFormat)
		defs := make([]string, len(rules))
		for i, r := range rules {
			defs[i] = units.DefinitionLine(r)
		}
		if err := rulefile.Write(stdout, rulefile.FromDefinitions(rf, defs)); err != nil {
			errorf(stderr, "%v", err)
			return exitCommandError
		}
		return exitSuccess
	}

	errorf(stderr, "unknown format %q", *outFormat)
	return exitCommandError
}

func printPrefixes(w, stderr io.Writer, prefixes []symtab.Prefix, asJSON bool) int {
	if asJSON {
		out := make([]PrefixOutput, len(prefixes))
		for i, p := range prefixes {
			out[i] = PrefixOutput{Symbol: string(p.Symbol), Name: p.Name, Value: p.Value}
		}
		return writeJSON(w, stderr, out)
	}
	for _, p := range prefixes {
		fmt.Fprintf(w, "%c  %-6s %g\n", p.Symbol, p.Name, p.Value)
	}
	return exitSuccess
}
