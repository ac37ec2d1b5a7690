package unit

import (
	"math"
	"strconv"
	"strings"
)

// Pown returns x raised to the integer power n by repeated squaring.
// Pown(x, 0) is 1 for every x, including 0.
func Pown(x float64, n int) float64 {
	if n == 0 {
		return 1
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := 1.0
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	if neg {
		return 1 / result
	}
	return result
}

// Decompose splits n into a mantissa and a power of ten so that
// n == m * 10^e and 1 <= |m| < 10. Zero yields (0, 0).
func Decompose(n float64) (m float64, e int) {
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return n, 0
	}
	// The shortest decimal form carries the mantissa and exponent directly,
	// which also holds for subnormals where 10^e is not representable.
	text := strconv.FormatFloat(math.Abs(n), 'e', -1, 64)
	mant, exp, _ := strings.Cut(text, "e")
	m, _ = strconv.ParseFloat(mant, 64)
	e, _ = strconv.Atoi(exp)
	m = math.Copysign(m, n)

	// Snap exact powers of ten to a unit mantissa.
	if math.Abs(math.Abs(m)-1) < Epsilon {
		m = math.Copysign(1, m)
	} else if math.Abs(math.Abs(m)-10) < Epsilon {
		m = math.Copysign(1, m)
		e++
	}
	return m, e
}
