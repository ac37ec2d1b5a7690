// Package unit implements the dimensional vector algebra used by the unit
// parser and formatter.
//
// A [Vector] holds one integer exponent per SI base dimension plus a scalar
// factor. The zero-dimension vector with factor 1 is the identity:
//
//	v := unit.New()                    // 1
//	v.Combine(unit.Base(unit.Meter), 1) // 1 m
//	v.Combine(unit.Base(unit.Second), -2)
//	v.Scale(9.81)                      // 9.81 m s^-2
//
// Vectors are plain values. Copying a Vector copies all exponents; nothing is
// shared between copies.
package unit
