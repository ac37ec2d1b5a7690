// Package persistence stores rule sets so that a unit environment can be
// rebuilt later.
//
// A rule set is the ordered list of dynamic rule definitions of an
// environment, each in plain notation ("N = 1 m kg s^-2"). StateStore keeps
// a single rule set in a JSON file; SQLStore keeps any number of named rule
// sets in a SQLite database.
package persistence
