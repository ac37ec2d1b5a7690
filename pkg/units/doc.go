// Package units ties the parser, the rule table and the formatter into a
// unit environment.
//
// An Env owns one rule table. Independent environments do not share state,
// so tests and callers can hold as many as they need. All methods are safe
// for concurrent use: parsing and rendering take a read lock, while rule
// definitions, loads and resets take the write lock so that a redefinition
// is never observed half done.
//
//	env, err := units.New(units.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//
//	if _, err := env.Define("N = kg m s^-2"); err != nil {
//		return err
//	}
//	v, _ := env.Parse("kN")
//	fmt.Println(env.Render(v, format.Plain, true)) // 1000 N
//
// Every operation is reported as a trace event to the configured
// log.Logger, and the most recent failure stays available from LastError.
package units
