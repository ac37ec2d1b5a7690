package parser

import (
	"strings"
	"unicode"

	"github.com/mash-protocol/mash-units/pkg/unit"
)

// RuleTable is the table view needed to install rule definitions.
// *symtab.Table implements it.
type RuleTable interface {
	Resolver
	Define(symbol string, protected bool, build func() (unit.Vector, error)) error
}

// Definition is the split form of a rule definition line.
type Definition struct {
	Symbol    string
	Protected bool
	// Expr is the right hand side, unparsed.
	Expr string
}

// ParseDefinition splits "symbol = expression" and validates the symbol.
// A leading '!' on the symbol marks the rule as protected.
func ParseDefinition(line string) (Definition, error) {
	split := strings.IndexByte(line, '=')
	switch {
	case split < 0:
		return Definition{}, &SyntaxError{Item: line, Err: ErrMissingEquals}
	case split == 0:
		return Definition{}, &SyntaxError{Item: line, Err: ErrEmptySymbol}
	}

	lhs := strings.TrimSpace(line[:split])
	if strings.IndexFunc(lhs, unicode.IsSpace) >= 0 {
		return Definition{}, &SyntaxError{Item: lhs, Err: ErrSymbolWhitespace}
	}
	if len(lhs) > MaxSymbolLen {
		return Definition{}, &SyntaxError{Item: lhs[:32] + "...", Err: ErrSymbolTooLong}
	}

	def := Definition{Expr: line[split+1:]}
	if strings.HasPrefix(lhs, "!") {
		def.Protected = true
		lhs = lhs[1:]
	}
	if lhs == "" {
		return Definition{}, &SyntaxError{Item: line[:split], Err: ErrEmptySymbol}
	}
	if !validSymbol(lhs) {
		return Definition{}, &SyntaxError{Item: lhs, Err: ErrInvalidSymbol}
	}
	def.Symbol = lhs
	return def, nil
}

// validSymbol reports whether s consists of ASCII letters only.
func validSymbol(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// Define parses a rule definition line and installs it into t.
func Define(t RuleTable, line string) (Definition, error) {
	if t == nil {
		return Definition{}, ErrNoTable
	}
	def, err := ParseDefinition(line)
	if err != nil {
		return Definition{}, err
	}
	err = t.Define(def.Symbol, def.Protected, func() (unit.Vector, error) {
		return Parse(t, def.Expr)
	})
	if err != nil {
		return Definition{}, err
	}
	return def, nil
}
