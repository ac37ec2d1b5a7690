package parser

import "github.com/mash-protocol/mash-units/pkg/unit"

// state is the adjacency state of the parser between two items.
type state uint8

const (
	// stateNormal accepts any item.
	stateNormal state = iota
	// stateAfterOperator follows '*' or '/'; another operator is an error.
	stateAfterOperator
	// stateExpectBracket follows "sqrt"; only '(' is accepted.
	stateExpectBracket
)

func (s state) String() string {
	switch s {
	case stateNormal:
		return "NORMAL"
	case stateAfterOperator:
		return "AFTER_OPERATOR"
	case stateExpectBracket:
		return "EXPECT_BRACKET"
	default:
		return "UNKNOWN"
	}
}

// kind classifies an item for the state machine.
type kind uint8

const (
	kindOperator kind = iota // * or /
	kindOpen                 // (
	kindClose                // ) or )^n
	kindSqrt                 // sqrt
	kindOperand              // number or unit symbol
)

func classify(text string) kind {
	switch {
	case text == "*" || text == "/":
		return kindOperator
	case text == "(":
		return kindOpen
	case text[0] == ')':
		return kindClose
	case text == "sqrt":
		return kindSqrt
	default:
		return kindOperand
	}
}

// transition returns the state after an item of kind k.
func transition(s state, k kind) (state, error) {
	if s == stateExpectBracket && k != kindOpen {
		return s, ErrBracketExpected
	}
	switch k {
	case kindOperator:
		if s == stateAfterOperator {
			return s, ErrAdjacentOperators
		}
		return stateAfterOperator, nil
	case kindSqrt:
		return stateExpectBracket, nil
	default:
		return stateNormal, nil
	}
}

// frame is one bracket level of an ongoing parse.
type frame struct {
	unit unit.Vector
	sqrt bool // take the square root when the frame is closed
	sign int  // +1 or -1, flipped by '/'
}

func newFrame(sqrt bool) frame {
	return frame{unit: unit.New(), sqrt: sqrt, sign: 1}
}

// stack holds the open frames. The root frame is never popped.
type stack struct {
	frames []frame
	limit  int
}

func newStack(limit int) *stack {
	s := &stack{frames: make([]frame, 0, limit), limit: limit}
	s.frames = append(s.frames, newFrame(false))
	return s
}

func (s *stack) top() *frame {
	return &s.frames[len(s.frames)-1]
}

// depth is the number of open brackets.
func (s *stack) depth() int {
	return len(s.frames) - 1
}

func (s *stack) push(sqrt bool) error {
	if len(s.frames) >= s.limit {
		return ErrNestingTooDeep
	}
	s.frames = append(s.frames, newFrame(sqrt))
	return nil
}

func (s *stack) pop() (frame, error) {
	if s.depth() == 0 {
		return frame{}, ErrBracketMismatch
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, nil
}
