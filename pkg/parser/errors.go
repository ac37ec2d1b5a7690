package parser

import (
	"errors"
	"fmt"
)

// Parser errors.
var (
	ErrAdjacentOperators = errors.New("operator right after operator")
	ErrBracketExpected   = errors.New("opening bracket expected after sqrt")
	ErrBracketMismatch   = errors.New("bracket mismatch")
	ErrNestingTooDeep    = errors.New("maximal nesting level exceeded")
	ErrMissingExponent   = errors.New("missing exponent after '^'")
	ErrInvalidExponent   = errors.New("invalid exponent")
	ErrSymbolTooLong     = errors.New("symbol too long")
	ErrItemTooLong       = errors.New("item too long")
	ErrMissingEquals     = errors.New("missing '=' in rule definition")
	ErrEmptySymbol       = errors.New("empty symbols are not allowed")
	ErrSymbolWhitespace  = errors.New("invalid symbol, whitespaces are not allowed")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrNoTable           = errors.New("missing symbol table")
)

// SyntaxError reports the item that made a parse fail.
type SyntaxError struct {
	// Item is the offending item text. Empty for end-of-input errors.
	Item string
	// Offset is the byte offset of Item in the input.
	Offset int
	// Err is the underlying sentinel or resolver error.
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("item '%s' at offset %d: %v", e.Item, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
