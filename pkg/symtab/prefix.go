package symtab

// Prefix is a single-character SI magnitude prefix.
type Prefix struct {
	Symbol byte
	Value  float64
	Name   string
}

// siPrefixes is the fixed prefix set in table order.
var siPrefixes = []Prefix{
	{'Y', 1e24, "yotta"},
	{'Z', 1e21, "zetta"},
	{'E', 1e18, "exa"},
	{'P', 1e15, "peta"},
	{'T', 1e12, "tera"},
	{'G', 1e9, "giga"},
	{'M', 1e6, "mega"},
	{'k', 1e3, "kilo"},
	{'h', 1e2, "hecto"},
	{'d', 1e-1, "deci"},
	{'c', 1e-2, "centi"},
	{'m', 1e-3, "milli"},
	{'u', 1e-6, "micro"},
	{'n', 1e-9, "nano"},
	{'p', 1e-12, "pico"},
	{'f', 1e-15, "femto"},
	{'a', 1e-18, "atto"},
	{'z', 1e-21, "zepto"},
	{'y', 1e-24, "yocto"},
}

// SIPrefixes returns a copy of the built-in prefix set.
func SIPrefixes() []Prefix {
	out := make([]Prefix, len(siPrefixes))
	copy(out, siPrefixes)
	return out
}
