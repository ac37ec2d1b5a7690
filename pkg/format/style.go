package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle is returned by ParseStyle for unrecognized names.
var ErrUnknownStyle = errors.New("unknown format style")

// Style selects the output notation.
type Style uint8

const (
	// Plain prints space separated terms with caret exponents.
	Plain Style = iota
	// LaTeXInline prints a single inline math expression.
	LaTeXInline
	// LaTeXFrac prints negative exponents as a fraction denominator.
	LaTeXFrac
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case LaTeXInline:
		return "latex"
	case LaTeXFrac:
		return "frac"
	default:
		return fmt.Sprintf("Style(%d)", s)
	}
}

// IsLaTeX reports whether s produces math mode output.
func (s Style) IsLaTeX() bool {
	return s == LaTeXInline || s == LaTeXFrac
}

// ParseStyle parses a style name as printed by String. "latex-inline" and
// "latex-frac" are accepted as aliases.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "":
		return Plain, nil
	case "latex", "latex-inline", "inline":
		return LaTeXInline, nil
	case "frac", "latex-frac":
		return LaTeXFrac, nil
	}
	return Plain, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
