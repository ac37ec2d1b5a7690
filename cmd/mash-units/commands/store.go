package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mash-protocol/mash-units/pkg/persistence"
	"github.com/mash-protocol/mash-units/pkg/rulefile"
	"github.com/mash-protocol/mash-units/pkg/units"
)

// StoreOptions select where rule sets are saved.
type StoreOptions struct {
	EnvOptions
	StateFile string
	Database  string
	Name      string
	Output    string
	List      bool
}

func (o *StoreOptions) registerStore(fs *flag.FlagSet) {
	o.register(fs)
	fs.StringVar(&o.StateFile, "state", "", "JSON state file")
	fs.StringVar(&o.Database, "db", "", "SQLite database")
	fs.StringVar(&o.Name, "name", "", "Rule set name (required with -db)")
}

func (o *StoreOptions) validate() error {
	switch {
	case o.StateFile == "" && o.Database == "":
		return errors.New("one of -state or -db is required")
	case o.StateFile != "" && o.Database != "":
		return errors.New("-state and -db are mutually exclusive")
	case o.Database != "" && o.Name == "" && !o.List:
		return errors.New("-name is required with -db")
	}
	return nil
}

// RunSave stores the dynamic rules of the environment.
func RunSave(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("save")
	var opts StoreOptions
	opts.registerStore(fs)
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		printStoreUsage(stderr)
		return exitCommandError
	}
	if err := opts.validate(); err != nil {
		errorf(stderr, "%v", err)
		printStoreUsage(stderr)
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	// Positional arguments are extra definitions.
	for _, line := range fs.Args() {
		if _, err := env.Define(line); err != nil {
			errorf(stderr, "%q: %v", line, err)
			return exitValidation
		}
	}

	set := env.RuleSet(opts.Name)
	if opts.StateFile != "" {
		err = persistence.NewStateStore(opts.StateFile).Save(set)
	} else {
		err = withDB(opts.Database, func(db *persistence.SQLStore) error { return db.Save(set) })
	}
	if err != nil {
		errorf(stderr, "save: %v", err)
		return exitCommandError
	}

	fmt.Fprintf(stdout, "Saved %d rules", len(set.Rules))
	if set.ID != "" {
		fmt.Fprintf(stdout, " as %s (%s)", set.Name, set.ID)
	}
	fmt.Fprintln(stdout)
	return exitSuccess
}

// RunRestore loads a stored rule set into a fresh environment and prints
// it, or writes it as a rule file with -o.
func RunRestore(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("restore")
	var opts StoreOptions
	opts.registerStore(fs)
	fs.StringVar(&opts.Output, "o", "", "Write the restored rules to a rule file (.yaml for YAML)")
	fs.BoolVar(&opts.List, "list", false, "List the rule sets stored in -db")
	if err := fs.Parse(args); err != nil {
		errorf(stderr, "%v", err)
		printStoreUsage(stderr)
		return exitCommandError
	}
	if err := opts.validate(); err != nil {
		errorf(stderr, "%v", err)
		printStoreUsage(stderr)
		return exitCommandError
	}

	if opts.List {
		if opts.Database == "" {
			errorf(stderr, "-list requires -db")
			return exitCommandError
		}
		return listRuleSets(opts.Database, stdout, stderr)
	}

	set, err := loadRuleSet(opts)
	if err != nil {
		errorf(stderr, "restore: %v", err)
		return exitCommandError
	}
	if set == nil {
		errorf(stderr, "no stored rule set found")
		return exitCommandError
	}

	env, err := opts.open(stderr)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	defer env.Close()

	if err := env.Restore(set.Rules); err != nil {
		errorf(stderr, "restore: %v", err)
		return exitValidation
	}

	return writeRules(env, opts.Output, stdout, stderr)
}

func loadRuleSet(opts StoreOptions) (*persistence.RuleSet, error) {
	if opts.StateFile != "" {
		return persistence.NewStateStore(opts.StateFile).Load()
	}
	var set *persistence.RuleSet
	err := withDB(opts.Database, func(db *persistence.SQLStore) error {
		var err error
		set, err = db.Load(opts.Name)
		return err
	})
	return set, err
}

func listRuleSets(path string, stdout, stderr io.Writer) int {
	err := withDB(path, func(db *persistence.SQLStore) error {
		list, err := db.List()
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Fprintf(stdout, "%-20s %3d rules  %s  %s\n",
				s.Name, s.RuleCount, s.SavedAt.Format("2006-01-02 15:04:05"), s.ID)
		}
		return nil
	})
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	return exitSuccess
}

func writeRules(env *units.Env, output string, stdout, stderr io.Writer) int {
	snap := env.Snapshot()
	defs := make([]string, len(snap))
	for i, r := range snap {
		defs[i] = r.Definition
	}

	if output == "" {
		for _, d := range defs {
			fmt.Fprintln(stdout, d)
		}
		return exitSuccess
	}

	rf := rulefile.FormatText
	if ext := strings.ToLower(filepath.Ext(output)); ext == ".yaml" || ext == ".yml" {
		rf = rulefile.FormatYAML
	}
	f, err := os.Create(output)
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	err = rulefile.Write(f, rulefile.FromDefinitions(rf, defs))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		errorf(stderr, "%v", err)
		return exitCommandError
	}
	fmt.Fprintf(stdout, "Wrote %d rules to %s\n", len(defs), output)
	return exitSuccess
}

func withDB(path string, fn func(*persistence.SQLStore) error) error {
	db, err := persistence.NewSQLStore(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func printStoreUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage:
  mash-units save    [-rules f]... (-state file.json | -db file.db -name n) [definition]...
  mash-units restore (-state file.json | -db file.db -name n) [-o out.rules]
  mash-units restore -db file.db -list

Examples:
  mash-units save -rules si.rules -state si.json
  mash-units save -rules si.rules -db units.db -name si
  mash-units restore -db units.db -name si -o si.yaml`)
}
