package unit

// Relation describes how two vectors relate. It is a bit set: RelationEqual
// is the conjunction of RelationSameUnit and RelationSameFactor.
type Relation uint8

const (
	// RelationDifferent means neither exponents nor factors match.
	RelationDifferent Relation = 0
	// RelationSameUnit means all exponents match.
	RelationSameUnit Relation = 1 << 0
	// RelationSameFactor means the factors match within Epsilon.
	RelationSameFactor Relation = 1 << 1
	// RelationEqual means both exponents and factors match.
	RelationEqual = RelationSameUnit | RelationSameFactor
)

// String returns the relation name.
func (r Relation) String() string {
	switch r {
	case RelationDifferent:
		return "DIFFERENT"
	case RelationSameUnit:
		return "SAME_UNIT"
	case RelationSameFactor:
		return "SAME_FACTOR"
	case RelationEqual:
		return "EQUAL"
	default:
		return "UNKNOWN"
	}
}

// Has reports whether all bits of flag are set in r.
func (r Relation) Has(flag Relation) bool {
	return r&flag == flag
}

// Compare relates a and b. A missing vector is an error.
func Compare(a, b *Vector) (Relation, error) {
	if a == nil || b == nil {
		return RelationDifferent, ErrNilVector
	}
	var r Relation
	if SameUnit(*a, *b) {
		r |= RelationSameUnit
	}
	if SameFactor(*a, *b) {
		r |= RelationSameFactor
	}
	return r, nil
}
