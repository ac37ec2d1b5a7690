package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/mash-protocol/mash-units/pkg/units"
)

// CheckOutput is the result of loading one rule file.
type CheckOutput struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Rules int    `json:"rules"`
	Line  int    `json:"line,omitempty"`
	Error string `json:"error,omitempty"`
}

// RunCheck loads each rule file into a fresh environment and reports
// whether it loads completely.
func RunCheck(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("check")
	var opts EnvOptions
	opts.register(fs)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	if fs.NArg() == 0 {
		errorf(stderr, "no files specified")
		fmt.Fprintln(stderr, "\nUsage: mash-units check [-rules base.rules] [-json] <file>...")
		return exitCommandError
	}

	cfg, err := opts.config(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}

	exit := exitSuccess
	var results []CheckOutput
	for _, file := range fs.Args() {
		res := checkFile(cfg, file)
		if !res.Valid {
			exit = exitValidation
		}
		results = append(results, res)
		if !*jsonOut {
			if res.Valid {
				fmt.Fprintf(stdout, "%s: OK (%d rules)\n", file, res.Rules)
			} else {
				fmt.Fprintf(stdout, "%s: FAIL %s\n", file, res.Error)
			}
		}
	}

	if *jsonOut {
		if code := writeJSON(stdout, stderr, results); code != exitSuccess {
			return code
		}
	}
	return exit
}

func checkFile(cfg units.Config, file string) CheckOutput {
	res := CheckOutput{File: file}

	env, err := units.New(cfg)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer env.Close()

	n, err := env.LoadFile(file)
	res.Rules = n
	if err != nil {
		res.Error = err.Error()
		var le *units.LineError
		if errors.As(err, &le) {
			res.Line = le.Line
		}
		return res
	}
	res.Valid = true
	return res
}
