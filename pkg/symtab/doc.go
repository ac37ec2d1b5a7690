// Package symtab holds the symbol tables consulted by the unit parser: an
// ordered list of rules (symbol to unit vector) and the fixed list of SI
// prefixes.
//
// # Rules
//
// A new Table starts with one protected rule per base dimension (m, kg, s, A,
// K, mol, Cd) followed by the protected gram rule (g = 1e-3 kg). Further
// rules are appended by [Table.Define]. Lookup is first match in insertion
// order; reduction ([Table.Reduce]) returns the first rule with the same
// exponents, so insertion order is observable.
//
// Protected rules can never be removed or redefined. An unprotected rule may
// only be replaced by a protected (forced) definition of the same symbol.
//
// # Prefixes
//
// The 19 SI magnitude prefixes from Y (1e24) down to y (1e-24) are single
// characters. Deca is not supported because its symbol has two characters.
//
// # Resolution
//
// [Table.Resolve] first looks the whole token up as a rule. Only if that fails
// is the first character treated as a prefix and the remainder as a rule, so
// a rule "mm" would shadow "milli-meter".
//
// A Table is not safe for concurrent use; units.Env adds the locking.
package symtab
