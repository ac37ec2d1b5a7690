// Command mash-unitgen generates Go variables for the rules of one or more
// rule files, so that programs can use derived units without parsing them
// at run time.
//
// Usage:
//
//	mash-unitgen -rules si.rules [-rules more.yaml] -package units -output units_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/mash-protocol/mash-units/pkg/units"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var ruleFiles stringList
	flag.Var(&ruleFiles, "rules", "Rule file to load (repeatable, loaded in order)")
	pkg := flag.String("package", "units", "Package name of the generated file")
	output := flag.String("output", "", "Output Go file")
	prefix := flag.String("prefix", "", "Prefix for generated identifiers")
	flag.Parse()

	if len(ruleFiles) == 0 || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: mash-unitgen -rules <file> [-rules <file>]... -output <file.go> [-package <name>] [-prefix <ident>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(ruleFiles, *pkg, *prefix, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ruleFiles []string, pkg, prefix, output string) error {
	cfg := units.DefaultConfig()
	cfg.RuleFiles = ruleFiles
	env, err := units.New(cfg)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	defer env.Close()

	code, err := Generate(GenerateOptions{
		Package: pkg,
		Prefix:  prefix,
		Sources: ruleFiles,
		Rules:   env.DynamicRules(),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted runs goimports on code and writes it to path.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
