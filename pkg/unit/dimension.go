package unit

// Dimension identifies one of the orthogonal SI base dimensions.
// The numeric value is the exponent slot inside a Vector.
type Dimension int

const (
	// Meter is the base dimension of length.
	Meter Dimension = iota
	// Kilogram is the base dimension of mass.
	Kilogram
	// Second is the base dimension of time.
	Second
	// Ampere is the base dimension of electric current.
	Ampere
	// Kelvin is the base dimension of thermodynamic temperature.
	Kelvin
	// Mole is the base dimension of amount of substance.
	Mole
	// Candela is the base dimension of luminous intensity.
	Candela

	// NumDimensions is the number of exponent slots in a Vector.
	NumDimensions = int(Candela) + 1
)

// symbols are the rule symbols of the base dimensions, indexed by Dimension.
var symbols = [NumDimensions]string{
	Meter:    "m",
	Kilogram: "kg",
	Second:   "s",
	Ampere:   "A",
	Kelvin:   "K",
	Mole:     "mol",
	Candela:  "Cd",
}

var names = [NumDimensions]string{
	Meter:    "meter",
	Kilogram: "kilogram",
	Second:   "second",
	Ampere:   "ampere",
	Kelvin:   "kelvin",
	Mole:     "mole",
	Candela:  "candela",
}

// Symbol returns the unit symbol of the dimension (e.g. "kg").
func (d Dimension) Symbol() string {
	if !d.Valid() {
		return ""
	}
	return symbols[d]
}

// Name returns the long name of the base unit (e.g. "kilogram").
func (d Dimension) Name() string {
	if !d.Valid() {
		return "unknown"
	}
	return names[d]
}

// String returns the unit symbol.
func (d Dimension) String() string {
	if !d.Valid() {
		return "UNKNOWN"
	}
	return symbols[d]
}

// Valid reports whether d addresses an exponent slot.
func (d Dimension) Valid() bool {
	return d >= 0 && int(d) < NumDimensions
}

// Dimensions returns all base dimensions in slot order.
func Dimensions() []Dimension {
	dims := make([]Dimension, NumDimensions)
	for i := range dims {
		dims[i] = Dimension(i)
	}
	return dims
}
