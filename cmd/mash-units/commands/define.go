package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-units/pkg/units"
)

// RunDefine applies rule definitions in order and prints each resulting
// rule in plain notation.
func RunDefine(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("define")
	var opts EnvOptions
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		printDefineUsage(stderr)
		return exitCommandError
	}
	if fs.NArg() == 0 {
		errorf(stderr, "no definitions specified")
		printDefineUsage(stderr)
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	for i, line := range fs.Args() {
		def, err := env.Define(line)
		if err != nil {
			errorf(stderr, "definition %d %q: %v", i+1, line, err)
			return exitValidation
		}
		rule, _ := env.Lookup(def.Symbol)
		fmt.Fprintln(stdout, units.DefinitionLine(rule))
	}
	return exitSuccess
}

func printDefineUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: mash-units define [options] <definition>...

Definitions are applied in order; each may use the rules before it.
A leading '!' on the symbol makes the rule protected.

Examples:
  mash-units define "N = kg m s^-2" "J = N m"
  mash-units define -rules si.rules "!kWh = 3.6e6 J"`)
}
