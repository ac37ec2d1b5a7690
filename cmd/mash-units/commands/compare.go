package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-units/pkg/unit"
)

// RunCompare parses two expressions and prints how they relate: EQUAL,
// SAME_UNIT, SAME_FACTOR or DIFFERENT. The exit code is 0 only for EQUAL.
func RunCompare(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("compare")
	var opts EnvOptions
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	if fs.NArg() != 2 {
		errorf(stderr, "two expressions required")
		fmt.Fprintln(stderr, "\nUsage: mash-units compare [-rules file] <expression> <expression>")
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	rel, err := env.Compare(fs.Arg(0), fs.Arg(1))
	if err != nil {
		errorf(stderr, "%v", err)
		return exitValidation
	}
	fmt.Fprintln(stdout, rel)
	if rel != unit.RelationEqual {
		return exitValidation
	}
	return exitSuccess
}
