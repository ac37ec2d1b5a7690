// Package parser turns textual unit expressions into dimensional vectors and
// installs rule definitions of the form "symbol = expression".
//
// # Expressions
//
// An expression is a sequence of items separated by whitespace or by one of
// the structural characters * / ( ). Items are:
//
//	2.5          numeric factor
//	kg  km^2     unit symbol, optionally SI-prefixed, optional integer exponent
//	*            multiplication (implicit between adjacent items anyway)
//	/            flips the sign of all following items in the current group
//	( ... )^n    group, optionally raised to an integer power
//	sqrt( ... )  square root of a group; every exponent must be even
//
// Division is sticky: "kg / m s" divides by both m and s. A second "/"
// flips back to multiplication.
//
//	v, err := parser.Parse(table, "kg m / s^2")
//
// # Rule definitions
//
//	N = kg m s^-2     unprotected rule
//	!W = J / s        protected (forced) rule
//
// A forced definition may replace an existing unprotected rule. Protected
// rules can never be replaced. The old rule is invisible while the right
// hand side is parsed, so "!R = R" fails.
package parser
