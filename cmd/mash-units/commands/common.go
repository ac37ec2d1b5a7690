// Package commands implements the mash-units CLI commands.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mash-protocol/mash-units/pkg/units"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// EnvOptions are the flags shared by every command that needs a unit
// environment.
type EnvOptions struct {
	ConfigFile string
	TraceFile  string
	TraceFail  bool
	RuleFiles  []string
	Verbose    bool
}

func (o *EnvOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&o.TraceFile, "trace", "", "Write a CBOR trace of all operations to this file")
	fs.BoolVar(&o.TraceFail, "trace-failed", false, "Only trace failed operations")
	fs.Var((*stringList)(&o.RuleFiles), "rules", "Rule file to load (repeatable)")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose debug logging to stderr")
}

// config builds the environment configuration: the config file first, then
// the command line rule files and trace file on top.
func (o *EnvOptions) config(stderr io.Writer) (units.Config, error) {
	cfg := units.DefaultConfig()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = units.LoadConfig(o.ConfigFile); err != nil {
			return cfg, err
		}
	}
	cfg.RuleFiles = append(cfg.RuleFiles, o.RuleFiles...)
	if o.TraceFile != "" {
		cfg.TraceFile = o.TraceFile
	}
	if o.TraceFail {
		cfg.TraceFailedOnly = true
	}
	if o.Verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return cfg, nil
}

// open creates the environment described by the options.
func (o *EnvOptions) open(stderr io.Writer) (*units.Env, error) {
	cfg, err := o.config(stderr)
	if err != nil {
		return nil, err
	}
	return units.New(cfg)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// writeJSON prints v as indented JSON. Non-finite factors have no JSON
// form, so encoding can fail; that is reported on stderr.
func writeJSON(stdout, stderr io.Writer, v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		errorf(stderr, "encoding JSON: %v", err)
		return exitCommandError
	}
	fmt.Fprintln(stdout, string(data))
	return exitSuccess
}

func errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}

// Open parses the shared environment flags from args and creates the
// environment. Commands outside this package use it.
func (o *EnvOptions) Open(name string, args []string, stderr io.Writer) (*units.Env, error) {
	fs := newFlagSet(name)
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o.open(stderr)
}
