package unit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsIdentity(t *testing.T) {
	v := New()
	assert.True(t, v.IsDimensionless())
	assert.Equal(t, 1.0, v.Factor)
}

func TestBase(t *testing.T) {
	for _, d := range Dimensions() {
		v := Base(d)
		for _, other := range Dimensions() {
			want := 0
			if other == d {
				want = 1
			}
			assert.Equal(t, want, v.Exp(other), "dimension %s slot %s", d, other)
		}
		assert.Equal(t, 1.0, v.Factor)
	}
}

func TestEqual(t *testing.T) {
	kg := Make(1, map[Dimension]int{Kilogram: 1})
	kg2 := Make(1, map[Dimension]int{Kilogram: 1})
	assert.True(t, Equal(kg, kg2))

	kg2.Factor = 2
	assert.False(t, Equal(kg, kg2))

	kg2.Factor = 1
	assert.True(t, Equal(kg, kg2))
	kg2.Exps[Kilogram]++
	assert.False(t, Equal(kg, kg2))

	newton := Make(1, map[Dimension]int{Kilogram: 1, Second: -2, Meter: 1})
	assert.False(t, Equal(kg, newton))
}

func TestCompare(t *testing.T) {
	oneKg := Make(1, map[Dimension]int{Kilogram: 1})
	fiveKg := Make(5, map[Dimension]int{Kilogram: 1})
	fiveSec := Make(5, map[Dimension]int{Second: 1})

	tests := []struct {
		name string
		a, b Vector
		want Relation
	}{
		{"same unit", oneKg, fiveKg, RelationSameUnit},
		{"same factor", fiveKg, fiveSec, RelationSameFactor},
		{"different", oneKg, fiveSec, RelationDifferent},
		{"equal", fiveKg, fiveKg, RelationEqual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(&tt.a, &tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing vectors", func(t *testing.T) {
		_, err := Compare(nil, &oneKg)
		assert.ErrorIs(t, err, ErrNilVector)
		_, err = Compare(&oneKg, nil)
		assert.ErrorIs(t, err, ErrNilVector)
		_, err = Compare(nil, nil)
		assert.ErrorIs(t, err, ErrNilVector)
	})
}

func TestRelationHas(t *testing.T) {
	assert.True(t, RelationEqual.Has(RelationSameUnit))
	assert.True(t, RelationEqual.Has(RelationSameFactor))
	assert.False(t, RelationSameFactor.Has(RelationSameUnit))
	assert.Equal(t, "SAME_UNIT", RelationSameUnit.String())
}

func TestMul(t *testing.T) {
	res := Make(2, map[Dimension]int{Kilogram: 1})
	b := Make(3, map[Dimension]int{Second: -2})

	require.NoError(t, res.Mul(b))
	assert.True(t, Equal(res, Make(6, map[Dimension]int{Kilogram: 1, Second: -2})))

	var missing *Vector
	assert.ErrorIs(t, missing.Mul(b), ErrNilVector)
}

func TestCombineWithExponent(t *testing.T) {
	v := New()
	v.Combine(Make(2, map[Dimension]int{Meter: 1, Second: -1}), -2)
	assert.Equal(t, -2, v.Exp(Meter))
	assert.Equal(t, 2, v.Exp(Second))
	assert.InDelta(t, 0.25, v.Factor, Epsilon)
}

func TestCombineZeroExponentIgnoresZeroFactor(t *testing.T) {
	v := Make(3, map[Dimension]int{Kelvin: 1})
	v.Combine(Make(0, map[Dimension]int{Meter: 4}), 0)
	assert.True(t, Equal(v, Make(3, map[Dimension]int{Kelvin: 1})))
}

func TestScale(t *testing.T) {
	v := Make(1, map[Dimension]int{Kilogram: 1})
	require.NoError(t, v.Scale(5))
	assert.Equal(t, 5.0, v.Factor)
	require.NoError(t, v.Scale(1/5.0))
	assert.Equal(t, 1.0, v.Factor)
	require.NoError(t, v.Scale(-1))
	assert.Equal(t, -1.0, v.Factor)

	var missing *Vector
	assert.ErrorIs(t, missing.Scale(2), ErrNilVector)
}

func TestSqrt(t *testing.T) {
	v := Make(4, map[Dimension]int{Kilogram: 2, Meter: -4})
	require.NoError(t, v.Sqrt())
	assert.True(t, Equal(v, Make(2, map[Dimension]int{Kilogram: 1, Meter: -2})))

	zero := Make(0, map[Dimension]int{Second: 2})
	require.NoError(t, zero.Sqrt())
	assert.Equal(t, 0.0, zero.Factor)
	assert.Equal(t, 1, zero.Exp(Second))
}

func TestSqrtOddExponent(t *testing.T) {
	v := Make(4, map[Dimension]int{Kilogram: 2, Second: 3})
	err := v.Sqrt()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSquare)

	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, Second, dimErr.Dimension)

	// Untouched on failure.
	assert.Equal(t, 2, v.Exp(Kilogram))
	assert.Equal(t, 4.0, v.Factor)
}

func TestSqrtNegativeFactor(t *testing.T) {
	v := Make(-4, map[Dimension]int{Kilogram: 2})
	assert.ErrorIs(t, v.Sqrt(), ErrNegativeRoot)
	assert.Equal(t, -4.0, v.Factor)
	assert.Equal(t, 2, v.Exp(Kilogram))
}

func TestPown(t *testing.T) {
	tests := []struct {
		x    float64
		n    int
		want float64
	}{
		{2, 0, 1},
		{0, 0, 1},
		{2, 10, 1024},
		{2, -2, 0.25},
		{10, 3, 1000},
		{-3, 3, -27},
		{1e-3, 1, 1e-3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pown(tt.x, tt.n), "Pown(%g, %d)", tt.x, tt.n)
	}
	assert.True(t, math.IsInf(Pown(0, -1), 1))
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		in    float64
		wantM float64
		wantE int
	}{
		{1.0, 1.0, 0},
		{-1.0, -1.0, 0},
		{11.0, 1.1, 1},
		{9.81, 9.81, 0},
		{-1234, -1.234, 3},
		{10.0, 1.0, 1},
		{0.01, 1.0, -2},
		{0.99, 9.9, -1},
		{10.01, 1.001, 1},
		{1e24, 1.0, 24},
		{1e-24, 1.0, -24},
		{0, 0, 0},
		{1e-310, 1.0, -310},
		{-1e-320, -1.0, -320},
		{5e-324, 5.0, -324},
		{2.5e-315, 2.5, -315},
	}
	for _, tt := range tests {
		m, e := Decompose(tt.in)
		assert.InDelta(t, tt.wantM, m, 1e-9, "mantissa of %g", tt.in)
		assert.Equal(t, tt.wantE, e, "exponent of %g", tt.in)
		if tt.in != 0 {
			assert.GreaterOrEqual(t, math.Abs(m), 1.0, "mantissa of %g", tt.in)
			assert.Less(t, math.Abs(m), 10.0, "mantissa of %g", tt.in)
		}
	}
}

func TestDimensionSymbols(t *testing.T) {
	assert.Equal(t, "m", Meter.Symbol())
	assert.Equal(t, "kg", Kilogram.Symbol())
	assert.Equal(t, "Cd", Candela.Symbol())
	assert.Equal(t, "kilogram", Kilogram.Name())
	assert.Equal(t, "", Dimension(99).Symbol())
	assert.Len(t, Dimensions(), NumDimensions)
}

func TestVectorString(t *testing.T) {
	v := Make(9.81, map[Dimension]int{Meter: 1, Second: -2})
	assert.Equal(t, "9.81 [m:1 s:-2]", v.String())
}
