package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mash-protocol/mash-units/pkg/unit"
)

const (
	// MaxDepth is the size of the frame stack including the root frame.
	MaxDepth = 16
	// MaxSymbolLen is the maximal length of a symbol.
	MaxSymbolLen = 128
	// MaxItemLen is the maximal length of a single item.
	MaxItemLen = 1024
)

// Resolver maps a (possibly prefixed) symbol to its unit vector and prefix
// multiplier. *symtab.Table implements it.
type Resolver interface {
	Resolve(symbol string) (unit.Vector, float64, error)
}

// parse holds the state of one Parse call.
type parse struct {
	res   Resolver
	stack *stack
	state state
}

// Parse parses text into a unit vector. The empty string yields the
// identity vector.
func Parse(res Resolver, text string) (unit.Vector, error) {
	if res == nil {
		return unit.Vector{}, ErrNoTable
	}
	p := &parse{res: res, stack: newStack(MaxDepth), state: stateNormal}
	sc := &scanner{src: text}

	for {
		it, ok, err := sc.next()
		if err != nil {
			return unit.Vector{}, err
		}
		if !ok {
			break
		}
		if err := p.handle(it); err != nil {
			return unit.Vector{}, &SyntaxError{Item: it.text, Offset: it.pos, Err: err}
		}
	}

	if p.state == stateExpectBracket {
		return unit.Vector{}, &SyntaxError{Offset: len(text), Err: ErrBracketExpected}
	}
	if p.stack.depth() != 0 {
		return unit.Vector{}, &SyntaxError{Offset: len(text), Err: ErrBracketMismatch}
	}
	return p.stack.top().unit, nil
}

func (p *parse) handle(it item) error {
	k := classify(it.text)
	prev := p.state
	next, err := transition(prev, k)
	if err != nil {
		return err
	}
	p.state = next

	switch k {
	case kindOperator:
		if it.text == "/" {
			p.stack.top().sign *= -1
		}
		return nil
	case kindOpen:
		return p.stack.push(prev == stateExpectBracket)
	case kindClose:
		return p.closeGroup(it.text)
	case kindSqrt:
		return nil
	}

	if p.handleFactor(it.text) {
		return nil
	}
	return p.handleUnit(it.text)
}

// closeGroup pops the current frame and folds it into its parent.
func (p *parse) closeGroup(text string) error {
	exp := 1
	if suffix := text[1:]; suffix != "" {
		if suffix[0] != '^' {
			return ErrInvalidExponent
		}
		var err error
		if exp, err = parseExponent(suffix[1:]); err != nil {
			return err
		}
	}

	f, err := p.stack.pop()
	if err != nil {
		return err
	}
	if f.sqrt {
		if err := f.unit.Sqrt(); err != nil {
			return err
		}
	}
	parent := p.stack.top()
	parent.unit.Combine(f.unit, exp*parent.sign)
	return nil
}

// handleFactor folds a numeric literal. It reports false if text is not a
// number.
func (p *parse) handleFactor(text string) bool {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	top := p.stack.top()
	top.unit.Factor *= unit.Pown(f, top.sign)
	return true
}

func (p *parse) handleUnit(text string) error {
	symbol, exp, err := splitExponent(text)
	if err != nil {
		return err
	}
	top := p.stack.top()
	exp *= top.sign

	v, prefix, err := p.res.Resolve(symbol)
	if err != nil {
		return err
	}
	top.unit.Combine(v, exp)
	top.unit.Factor *= unit.Pown(prefix, exp)
	return nil
}

// splitExponent splits "sym^n" into its symbol and exponent. The exponent
// defaults to 1.
func splitExponent(text string) (string, int, error) {
	symbol, expText, hasExp := strings.Cut(text, "^")
	if len(symbol) >= MaxSymbolLen {
		return "", 0, ErrSymbolTooLong
	}
	if !hasExp {
		return symbol, 1, nil
	}
	exp, err := parseExponent(expText)
	if err != nil {
		return "", 0, err
	}
	return symbol, exp, nil
}

func parseExponent(text string) (int, error) {
	if text == "" {
		return 0, ErrMissingExponent
	}
	exp, err := strconv.Atoi(text)
	if err != nil {
		return 0, ErrInvalidExponent
	}
	return exp, nil
}
