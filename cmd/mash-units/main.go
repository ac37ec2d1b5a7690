// Command mash-units parses, formats and compares physical unit
// expressions.
//
// Usage:
//
//	mash-units <command> [flags] [args]
//
// Commands:
//
//	parse    Parse expressions and print them (plain, latex, frac)
//	define   Define rules and print the resulting definitions
//	compare  Compare two expressions
//	check    Check rule files
//	rules    List rules and prefixes
//	save     Save user rules to a state file or database
//	restore  Restore saved rules
//	trace    View a trace file written with -trace
//	repl     Start the interactive calculator
//
// Examples:
//
//	mash-units parse "kg m / s^2"
//	mash-units parse -rules si.rules -reduce -style latex "kg m^2 s^-2"
//	mash-units check si.rules
//	mash-units repl -rules si.rules
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mash-protocol/mash-units/cmd/mash-units/commands"
	"github.com/mash-protocol/mash-units/cmd/mash-units/interactive"
	"github.com/mash-protocol/mash-units/pkg/version"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "parse":
		exitCode = commands.RunParse(args, os.Stdout, os.Stderr)
	case "define":
		exitCode = commands.RunDefine(args, os.Stdout, os.Stderr)
	case "compare":
		exitCode = commands.RunCompare(args, os.Stdout, os.Stderr)
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "rules":
		exitCode = commands.RunRules(args, os.Stdout, os.Stderr)
	case "save":
		exitCode = commands.RunSave(args, os.Stdout, os.Stderr)
	case "restore":
		exitCode = commands.RunRestore(args, os.Stdout, os.Stderr)
	case "trace":
		exitCode = commands.RunTrace(args, os.Stdout, os.Stderr)
	case "repl":
		exitCode = runREPL(args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		exitCode = exitSuccess
	case "version", "--version":
		fmt.Printf("mash-units version 0.1.0 (rule file format %s)\n", version.Current)
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage(os.Stderr)
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func runREPL(args []string) int {
	var opts commands.EnvOptions
	env, err := opts.Open("repl", args, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer env.Close()

	repl, err := interactive.NewREPL(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCommandError
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()
	repl.Run(ctx)
	return exitSuccess
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `mash-units - physical unit expression tool

Usage:
  mash-units <command> [options] [args]

Commands:
  parse      Parse expressions and print them (plain, latex, frac)
  define     Define rules and print the resulting definitions
  compare    Compare two expressions
  check      Check rule files
  rules      List rules and prefixes
  save       Save user rules to a state file or database
  restore    Restore saved rules
  trace      View a trace file written with -trace
  repl       Start the interactive calculator

Common options:
  -rules <file>   Rule file to load (repeatable)
  -config <file>  YAML configuration file
  -trace <file>   Write a CBOR trace of all operations
  -trace-failed   Trace failed operations only
  -v              Debug logging to stderr

Examples:
  mash-units parse "kg m / s^2"
  mash-units parse -rules si.rules -reduce "kg m^2 s^-2"
  mash-units repl -rules si.rules

For command-specific help, run:
  mash-units <command> -help`)
}
