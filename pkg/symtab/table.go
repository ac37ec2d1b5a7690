package symtab

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mash-protocol/mash-units/pkg/unit"
)

// GramSymbol is the symbol of the built-in gram rule.
const GramSymbol = "g"

// Table errors.
var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrRuleExists    = errors.New("rule already defined")
	ErrRuleNotFound  = errors.New("rule not found")
	ErrProtected     = errors.New("rule is protected")
	ErrNotForced     = errors.New("redefinition requires a forced rule")
)

// Rule maps a symbol to a unit vector.
type Rule struct {
	Symbol    string
	Unit      unit.Vector
	Protected bool
}

// Table is an ordered rule table plus the SI prefix set.
type Table struct {
	rules    []Rule
	index    map[string]int
	prefixes []Prefix
	byPrefix map[byte]int
}

// New creates a table seeded with the base rules, the gram rule and the SI
// prefixes.
func New() *Table {
	t := &Table{
		rules:    make([]Rule, 0, unit.NumDimensions+16),
		index:    make(map[string]int),
		prefixes: SIPrefixes(),
		byPrefix: make(map[byte]int, len(siPrefixes)),
	}
	for _, d := range unit.Dimensions() {
		t.append(Rule{Symbol: d.Symbol(), Unit: unit.Base(d), Protected: true})
	}
	t.installGram()
	for i, p := range t.prefixes {
		t.byPrefix[p.Symbol] = i
	}
	return t
}

// installGram adds g = 1e-3 kg. Kilogram is the only base unit that already
// carries a prefix, so "g" has to exist for prefixed grams to resolve.
func (t *Table) installGram() {
	gram := unit.Base(unit.Kilogram)
	gram.Factor = 1e-3
	t.append(Rule{Symbol: GramSymbol, Unit: gram, Protected: true})
}

func (t *Table) append(r Rule) {
	t.index[r.Symbol] = len(t.rules)
	t.rules = append(t.rules, r)
}

func (t *Table) reindex(from int) {
	for i := from; i < len(t.rules); i++ {
		t.index[t.rules[i].Symbol] = i
	}
}

func (t *Table) removeAt(i int) {
	delete(t.index, t.rules[i].Symbol)
	t.rules = slices.Delete(t.rules, i, i+1)
	t.reindex(i)
}

func (t *Table) insertAt(i int, r Rule) {
	t.rules = slices.Insert(t.rules, i, r)
	t.reindex(i)
}

// Lookup returns the rule for symbol.
func (t *Table) Lookup(symbol string) (Rule, bool) {
	i, ok := t.index[symbol]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// LookupPrefix returns the prefix for the character c.
func (t *Table) LookupPrefix(c byte) (Prefix, bool) {
	i, ok := t.byPrefix[c]
	if !ok {
		return Prefix{}, false
	}
	return t.prefixes[i], true
}

// Resolve maps a symbol token to a unit and a prefix multiplier. A whole
// rule match wins; otherwise the first character must be a prefix and the
// rest a rule.
func (t *Table) Resolve(symbol string) (unit.Vector, float64, error) {
	if r, ok := t.Lookup(symbol); ok {
		return r.Unit, 1, nil
	}
	if symbol == "" {
		return unit.Vector{}, 0, fmt.Errorf("%w: empty symbol", ErrUnknownSymbol)
	}

	p, ok := t.LookupPrefix(symbol[0])
	if !ok {
		return unit.Vector{}, 0, fmt.Errorf("%w: '%s'", ErrUnknownSymbol, symbol)
	}
	r, ok := t.Lookup(symbol[1:])
	if !ok {
		return unit.Vector{}, 0, fmt.Errorf("%w: '%s' with prefix %c", ErrUnknownSymbol, symbol[1:], p.Symbol)
	}
	return r.Unit, p.Value, nil
}

// Install appends a new rule. The symbol must not be in use.
func (t *Table) Install(symbol string, v unit.Vector, protected bool) error {
	if _, ok := t.index[symbol]; ok {
		return fmt.Errorf("%w: '%s'", ErrRuleExists, symbol)
	}
	t.append(Rule{Symbol: symbol, Unit: v, Protected: protected})
	return nil
}

// Remove deletes an unprotected rule.
func (t *Table) Remove(symbol string) error {
	i, ok := t.index[symbol]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrRuleNotFound, symbol)
	}
	if t.rules[i].Protected {
		return fmt.Errorf("cannot remove '%s': %w", symbol, ErrProtected)
	}
	t.removeAt(i)
	return nil
}

// Define installs symbol with the vector produced by build, applying the
// redefinition policy: protected rules are never replaced and an unprotected
// rule is only replaced by a protected definition.
//
// An existing rule is removed before build runs, so build cannot see the
// symbol it is defining. If build fails the old rule is put back in place
// and the table is unchanged.
func (t *Table) Define(symbol string, protected bool, build func() (unit.Vector, error)) error {
	pos := -1
	var old Rule
	if i, ok := t.index[symbol]; ok {
		old = t.rules[i]
		if old.Protected {
			return fmt.Errorf("you may not redefine '%s': %w", symbol, ErrProtected)
		}
		if !protected {
			return fmt.Errorf("you may not redefine '%s': %w", symbol, ErrNotForced)
		}
		pos = i
		t.removeAt(i)
	}

	v, err := build()
	if err != nil {
		if pos >= 0 {
			t.insertAt(pos, old)
		}
		return err
	}
	t.append(Rule{Symbol: symbol, Unit: v, Protected: protected})
	return nil
}

// Reset discards all dynamic rules and reinstalls the gram rule. Base rules
// are kept.
func (t *Table) Reset() {
	for _, r := range t.rules[unit.NumDimensions:] {
		delete(t.index, r.Symbol)
	}
	t.rules = t.rules[:unit.NumDimensions]
	t.installGram()
}

// Reduce returns the first rule with the same exponents as v.
func (t *Table) Reduce(v unit.Vector) (Rule, bool) {
	for _, r := range t.rules {
		if unit.SameUnit(r.Unit, v) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of all rules in table order.
func (t *Table) Rules() []Rule {
	return slices.Clone(t.rules)
}

// Dynamic returns a copy of the rules following the base rules, including
// the gram rule.
func (t *Table) Dynamic() []Rule {
	return slices.Clone(t.rules[unit.NumDimensions:])
}

// Prefixes returns a copy of the prefix table.
func (t *Table) Prefixes() []Prefix {
	return slices.Clone(t.prefixes)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}
