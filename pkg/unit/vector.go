package unit

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Epsilon is the absolute tolerance used when comparing factors.
const Epsilon = 1e-12

// Unit errors.
var (
	ErrNilVector    = errors.New("missing unit vector")
	ErrNotSquare    = errors.New("unit is not a perfect square")
	ErrNegativeRoot = errors.New("square root of negative factor")
)

// Vector is a dimensional vector: one exponent per base dimension and a
// scalar factor.
type Vector struct {
	Exps   [NumDimensions]int
	Factor float64
}

// New returns the identity vector (no dimensions, factor 1).
func New() Vector {
	return Vector{Factor: 1}
}

// Base returns the vector of a single base dimension with factor 1.
func Base(d Dimension) Vector {
	v := New()
	if d.Valid() {
		v.Exps[d] = 1
	}
	return v
}

// Make builds a vector with the given factor and exponents.
func Make(factor float64, exps map[Dimension]int) Vector {
	v := Vector{Factor: factor}
	for d, e := range exps {
		if d.Valid() {
			v.Exps[d] = e
		}
	}
	return v
}

// Exp returns the exponent of dimension d.
func (v Vector) Exp(d Dimension) int {
	if !d.Valid() {
		return 0
	}
	return v.Exps[d]
}

// IsDimensionless reports whether all exponents are zero.
func (v Vector) IsDimensionless() bool {
	for _, e := range v.Exps {
		if e != 0 {
			return false
		}
	}
	return true
}

// Combine folds src raised to exp into v. Exponents add up scaled by exp and
// the factor is multiplied by src.Factor^exp using integer powers.
func (v *Vector) Combine(src Vector, exp int) {
	for i := range v.Exps {
		v.Exps[i] += src.Exps[i] * exp
	}
	v.Factor *= Pown(src.Factor, exp)
}

// Mul multiplies v by src.
func (v *Vector) Mul(src Vector) error {
	if v == nil {
		return ErrNilVector
	}
	v.Combine(src, 1)
	return nil
}

// Scale multiplies the factor of v by k.
func (v *Vector) Scale(k float64) error {
	if v == nil {
		return ErrNilVector
	}
	v.Factor *= k
	return nil
}

// Sqrt replaces v by its square root. All exponents must be even and the
// factor must not be negative; v is left untouched otherwise.
func (v *Vector) Sqrt() error {
	if v == nil {
		return ErrNilVector
	}
	for i, e := range v.Exps {
		if e%2 != 0 {
			return &DimensionError{Dimension: Dimension(i), Exp: e, Err: ErrNotSquare}
		}
	}
	if v.Factor < 0 {
		return ErrNegativeRoot
	}
	for i := range v.Exps {
		v.Exps[i] /= 2
	}
	v.Factor = math.Sqrt(v.Factor)
	return nil
}

// SameUnit reports whether all exponents of a and b match.
func SameUnit(a, b Vector) bool {
	return a.Exps == b.Exps
}

// SameFactor reports whether the factors of a and b differ by less than Epsilon.
func SameFactor(a, b Vector) bool {
	return math.Abs(a.Factor-b.Factor) < Epsilon
}

// Equal reports whether a and b have the same unit and the same factor.
func Equal(a, b Vector) bool {
	return SameUnit(a, b) && SameFactor(a, b)
}

// String returns a compact debug representation, e.g. "9.81 [m:1 s:-2]".
func (v Vector) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(v.Factor, 'g', -1, 64))
	b.WriteString(" [")
	first := true
	for i, e := range v.Exps {
		if e == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(symbols[i])
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e))
	}
	b.WriteByte(']')
	return b.String()
}

// DimensionError reports an exponent that prevented an operation.
type DimensionError struct {
	Dimension Dimension
	Exp       int
	Err       error
}

func (e *DimensionError) Error() string {
	return e.Err.Error() + ": " + e.Dimension.Symbol() + "^" + strconv.Itoa(e.Exp)
}

func (e *DimensionError) Unwrap() error {
	return e.Err
}
