package symtab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-units/pkg/unit"
)

func TestNewSeedsBaseRules(t *testing.T) {
	tab := New()

	for _, d := range unit.Dimensions() {
		r, ok := tab.Lookup(d.Symbol())
		require.True(t, ok, "base rule %s missing", d)
		assert.True(t, r.Protected)
		assert.True(t, unit.Equal(r.Unit, unit.Base(d)))
	}

	g, ok := tab.Lookup(GramSymbol)
	require.True(t, ok)
	assert.True(t, g.Protected)
	assert.Equal(t, 1, g.Unit.Exp(unit.Kilogram))
	assert.InDelta(t, 1e-3, g.Unit.Factor, unit.Epsilon)

	assert.Equal(t, unit.NumDimensions+1, tab.Len())
	assert.Len(t, tab.Prefixes(), 19)
}

func TestLookupPrefix(t *testing.T) {
	tab := New()

	p, ok := tab.LookupPrefix('k')
	require.True(t, ok)
	assert.Equal(t, 1e3, p.Value)
	assert.Equal(t, "kilo", p.Name)

	_, ok = tab.LookupPrefix('D')
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tab := New()

	t.Run("whole symbol", func(t *testing.T) {
		v, mult, err := tab.Resolve("kg")
		require.NoError(t, err)
		assert.Equal(t, 1.0, mult)
		assert.Equal(t, 1, v.Exp(unit.Kilogram))
	})

	t.Run("prefixed", func(t *testing.T) {
		v, mult, err := tab.Resolve("km")
		require.NoError(t, err)
		assert.Equal(t, 1e3, mult)
		assert.Equal(t, 1, v.Exp(unit.Meter))
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, _, err := tab.Resolve("xm")
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	})

	t.Run("unknown rule after prefix", func(t *testing.T) {
		_, _, err := tab.Resolve("kq")
		assert.ErrorIs(t, err, ErrUnknownSymbol)
		assert.Contains(t, err.Error(), "with prefix k")
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := tab.Resolve("")
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	})

	t.Run("lone prefix", func(t *testing.T) {
		_, _, err := tab.Resolve("k")
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	})
}

func TestResolveWholeSymbolWins(t *testing.T) {
	tab := New()
	mm := unit.Base(unit.Second)
	require.NoError(t, tab.Install("mm", mm, false))

	v, mult, err := tab.Resolve("mm")
	require.NoError(t, err)
	assert.Equal(t, 1.0, mult)
	assert.Equal(t, 1, v.Exp(unit.Second))
	assert.Equal(t, 0, v.Exp(unit.Meter))
}

func TestInstallDuplicate(t *testing.T) {
	tab := New()
	err := tab.Install("kg", unit.New(), false)
	assert.ErrorIs(t, err, ErrRuleExists)
}

func TestRemove(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Install("Free", unit.New(), false))
	require.NoError(t, tab.Install("Forced", unit.New(), true))

	assert.NoError(t, tab.Remove("Free"))
	_, ok := tab.Lookup("Free")
	assert.False(t, ok)

	assert.ErrorIs(t, tab.Remove("Forced"), ErrProtected)
	assert.ErrorIs(t, tab.Remove("kg"), ErrProtected)
	assert.ErrorIs(t, tab.Remove(GramSymbol), ErrProtected)
	assert.ErrorIs(t, tab.Remove("Nope"), ErrRuleNotFound)
}

func TestRemoveKeepsIndexConsistent(t *testing.T) {
	tab := New()
	for _, s := range []string{"Alpha", "B", "C", "D"} {
		require.NoError(t, tab.Install(s, unit.New(), false))
	}
	require.NoError(t, tab.Remove("B"))

	r, ok := tab.Lookup("D")
	require.True(t, ok)
	assert.Equal(t, "D", r.Symbol)

	syms := symbols(tab.Dynamic())
	assert.Equal(t, []string{"g", "Alpha", "C", "D"}, syms)
}

func TestDefinePolicy(t *testing.T) {
	kg := unit.Base(unit.Kilogram)
	s := unit.Base(unit.Second)
	build := func(v unit.Vector) func() (unit.Vector, error) {
		return func() (unit.Vector, error) { return v, nil }
	}

	tab := New()
	require.NoError(t, tab.Define("NewRule", false, build(kg)))

	err := tab.Define("NewRule", false, build(s))
	assert.ErrorIs(t, err, ErrNotForced)

	require.NoError(t, tab.Define("NewRule", true, build(s)))
	r, _ := tab.Lookup("NewRule")
	assert.True(t, unit.Equal(r.Unit, s))
	assert.True(t, r.Protected)

	err = tab.Define("NewRule", true, build(kg))
	assert.ErrorIs(t, err, ErrProtected)

	err = tab.Define("kg", true, build(kg))
	assert.ErrorIs(t, err, ErrProtected)
}

func TestDefineHidesOldRuleFromBuild(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Define("Recurse", false, func() (unit.Vector, error) {
		return unit.Base(unit.Meter), nil
	}))

	err := tab.Define("Recurse", true, func() (unit.Vector, error) {
		v, _, err := tab.Resolve("Recurse")
		return v, err
	})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestDefineRollsBackOnFailure(t *testing.T) {
	tab := New()
	for _, s := range []string{"First", "Middle", "Last"} {
		require.NoError(t, tab.Install(s, unit.Base(unit.Kelvin), false))
	}
	before := symbols(tab.Rules())

	boom := errors.New("boom")
	err := tab.Define("Middle", true, func() (unit.Vector, error) {
		return unit.Vector{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, symbols(tab.Rules()))

	r, ok := tab.Lookup("Middle")
	require.True(t, ok)
	assert.False(t, r.Protected)
}

func TestReset(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Install("N", unit.Make(1, map[unit.Dimension]int{unit.Kilogram: 1}), true))
	tab.Reset()

	_, ok := tab.Lookup("N")
	assert.False(t, ok)
	_, ok = tab.Lookup(GramSymbol)
	assert.True(t, ok)
	assert.Equal(t, unit.NumDimensions+1, tab.Len())
}

func TestReduce(t *testing.T) {
	tab := New()
	newton := unit.Make(1, map[unit.Dimension]int{unit.Kilogram: 1, unit.Meter: 1, unit.Second: -2})
	require.NoError(t, tab.Install("N", newton, false))

	r, ok := tab.Reduce(unit.Make(3, map[unit.Dimension]int{unit.Kilogram: 1, unit.Meter: 1, unit.Second: -2}))
	require.True(t, ok)
	assert.Equal(t, "N", r.Symbol)

	// kg precedes g in table order.
	r, ok = tab.Reduce(unit.Make(5, map[unit.Dimension]int{unit.Kilogram: 1}))
	require.True(t, ok)
	assert.Equal(t, "kg", r.Symbol)

	_, ok = tab.Reduce(unit.Make(1, map[unit.Dimension]int{unit.Candela: 3}))
	assert.False(t, ok)
}

func symbols(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Symbol
	}
	return out
}
