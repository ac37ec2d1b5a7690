// Package rulefile reads and writes rule definition files.
//
// Two formats are supported. The text format holds one definition per
// line; blank lines and lines starting with '#' (after leading whitespace)
// are ignored:
//
//	# SI derived units
//	N = kg m s^-2
//	!J = N m
//
// The YAML format carries the same definitions as a list:
//
//	description: SI derived units
//	rules:
//	  - N = kg m s^-2
//	  - "!J = N m"
//
// The format is detected from the content unless given explicitly. Every
// definition keeps the line number it was read from so that loaders can
// report "line N: ..." errors.
package rulefile
