package format

import (
	"strconv"
	"strings"

	"github.com/mash-protocol/mash-units/pkg/symtab"
	"github.com/mash-protocol/mash-units/pkg/unit"
)

// Reducer finds a rule with the same exponents as a vector.
// *symtab.Table implements it.
type Reducer interface {
	Reduce(v unit.Vector) (symtab.Rule, bool)
}

// Render returns the text of v in the given style. If r is not nil and a
// rule with the same exponents exists, v is printed as a multiple of that
// rule.
func Render(v unit.Vector, style Style, r Reducer) string {
	var b strings.Builder
	e := emitter{w: &b, style: style}
	e.vector(v, r)
	return b.String()
}

// Measure returns len(Render(v, style, r)).
func Measure(v unit.Vector, style Style, r Reducer) int {
	var c counter
	e := emitter{w: &c, style: style}
	e.vector(v, r)
	return int(c)
}

type sink interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
}

// counter is a sink that only tracks the number of bytes written.
type counter int

func (c *counter) Write(p []byte) (int, error) {
	*c += counter(len(p))
	return len(p), nil
}

func (c *counter) WriteString(s string) (int, error) {
	*c += counter(len(s))
	return len(s), nil
}

type emitter struct {
	w     sink
	style Style
	buf   [32]byte
}

func (e *emitter) str(s string) {
	_, _ = e.w.WriteString(s)
}

func (e *emitter) float(f float64) {
	_, _ = e.w.Write(strconv.AppendFloat(e.buf[:0], f, 'g', -1, 64))
}

func (e *emitter) int(n int) {
	_, _ = e.w.Write(strconv.AppendInt(e.buf[:0], int64(n), 10))
}

func (e *emitter) vector(v unit.Vector, r Reducer) {
	if r != nil {
		if rule, ok := r.Reduce(v); ok && rule.Unit.Factor != 0 {
			e.reduced(v.Factor/rule.Unit.Factor, rule.Symbol)
			return
		}
	}

	switch e.style {
	case LaTeXInline:
		e.inline(v)
	case LaTeXFrac:
		e.frac(v)
	default:
		e.plain(v)
	}
}

func (e *emitter) reduced(factor float64, symbol string) {
	if !e.style.IsLaTeX() {
		e.factor(factor)
		e.str(" ")
		e.str(symbol)
		return
	}
	e.str("$")
	e.factor(factor)
	e.str(` \text{ `)
	e.str(symbol)
	e.str("}$")
}

func (e *emitter) plain(v unit.Vector) {
	e.factor(v.Factor)
	for _, d := range unit.Dimensions() {
		exp := v.Exp(d)
		if exp == 0 {
			continue
		}
		e.str(" ")
		e.str(d.Symbol())
		if exp != 1 {
			e.str("^")
			e.int(exp)
		}
	}
}

func (e *emitter) inline(v unit.Vector) {
	e.str("$")
	e.factor(v.Factor)
	e.inlineTerms(v, func(int) bool { return true })
	e.str("$")
}

// inlineTerms writes every term whose exponent passes keep as
// ` \text{ sym}^{n}`.
func (e *emitter) inlineTerms(v unit.Vector, keep func(exp int) bool) {
	for _, d := range unit.Dimensions() {
		exp := v.Exp(d)
		if exp == 0 || !keep(exp) {
			continue
		}
		e.str(` \text{ `)
		e.str(d.Symbol())
		e.str("}")
		e.exponent(exp)
	}
}

func (e *emitter) frac(v unit.Vector) {
	if !hasNegative(v) {
		e.inline(v)
		return
	}

	e.str(`$\frac{`)
	e.factor(v.Factor)
	e.inlineTerms(v, func(exp int) bool { return exp > 0 })
	e.str("}{")
	first := true
	for _, d := range unit.Dimensions() {
		exp := v.Exp(d)
		if exp >= 0 {
			continue
		}
		if !first {
			e.str(" ")
		}
		first = false
		e.str(`\text{`)
		e.str(d.Symbol())
		e.str("}")
		e.exponent(-exp)
	}
	e.str("}$")
}

func (e *emitter) exponent(exp int) {
	if exp == 1 {
		return
	}
	e.str("^{")
	e.int(exp)
	e.str("}")
}

// factor writes the scalar part. Plain output keeps the literal value so it
// parses back; LaTeX output uses scientific notation for large and small
// magnitudes.
func (e *emitter) factor(f float64) {
	if f == 0 {
		e.str("0")
		return
	}
	if !e.style.IsLaTeX() {
		e.float(f)
		return
	}

	m, exp := unit.Decompose(f)
	switch {
	case exp == 0:
		e.float(m)
		return
	case m == 1:
	case m == -1:
		e.str("-")
	default:
		e.float(m)
		e.str(` \cdot `)
	}
	e.str("10^{")
	e.int(exp)
	e.str("}")
}

func hasNegative(v unit.Vector) bool {
	for _, exp := range v.Exps {
		if exp < 0 {
			return true
		}
	}
	return false
}
