package parser

import "unicode"

// item is one token of an expression.
type item struct {
	text string
	pos  int
}

// scanner splits an expression into items.
type scanner struct {
	src string
	pos int
}

func isSpace(c byte) bool {
	return c < 0x80 && unicode.IsSpace(rune(c))
}

func isSplit(c byte) bool {
	switch c {
	case '*', '/', '(', ')':
		return true
	}
	return false
}

func (s *scanner) skipSpace(i int) int {
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	return i
}

func (s *scanner) nextSplit(i int) int {
	for i < len(s.src) && !isSpace(s.src[i]) && !isSplit(s.src[i]) {
		i++
	}
	return i
}

// next returns the next item. ok is false at end of input.
func (s *scanner) next() (it item, ok bool, err error) {
	start := s.skipSpace(s.pos)
	if start >= len(s.src) {
		s.pos = start
		return item{}, false, nil
	}

	end := s.nextSplit(start)
	// ")^n" stays one item so the exponent binds to the group.
	if s.src[start] == ')' && start+1 < len(s.src) && s.src[start+1] == '^' {
		end = s.nextSplit(start + 1)
	}
	if end == start {
		end++ // lone structural character
	}
	if end-start > MaxItemLen {
		return item{}, false, &SyntaxError{Item: s.src[start:start+32] + "...", Offset: start, Err: ErrItemTooLong}
	}

	s.pos = end
	return item{text: s.src[start:end], pos: start}, true, nil
}
