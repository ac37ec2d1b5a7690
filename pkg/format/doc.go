// Package format renders unit vectors as text.
//
// Three styles are supported: Plain ("1 m kg s^-2"), LaTeXInline
// ("$1 \text{ m} \text{ kg} \text{ s}^{-2}$") and LaTeXFrac, which moves
// negative exponents into the denominator of a \frac. When a Reducer is
// given, a vector whose exponents match a rule is printed as a factor and
// that rule's symbol.
//
// Measure returns the exact length Render would produce without building
// the string.
package format
