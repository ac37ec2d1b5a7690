package interactive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/units"
)

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	env, err := units.New(units.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	var out bytes.Buffer
	return NewSession(env, &out), &out
}

func TestSessionEvaluatesExpressions(t *testing.T) {
	s, out := newSession(t)

	assert.True(t, s.Exec("kg m / s^2"))
	assert.Equal(t, "1 m kg s^-2\n", out.String())

	out.Reset()
	assert.True(t, s.Exec("bogus"))
	assert.Contains(t, out.String(), "Error:")

	out.Reset()
	assert.True(t, s.Exec("   "))
	assert.True(t, s.Exec("# comment"))
	assert.Empty(t, out.String())
}

func TestSessionDefinesRules(t *testing.T) {
	s, out := newSession(t)

	s.Exec("N = kg m s^-2")
	assert.Equal(t, "N = 1 m kg s^-2\n", out.String())

	out.Reset()
	s.Exec(":define J = N m")
	assert.Equal(t, "J = 1 m^2 kg s^-2\n", out.String())

	out.Reset()
	s.Exec("N = kg")
	assert.Contains(t, out.String(), "Error:")

	out.Reset()
	s.Exec(":rules")
	assert.Equal(t, " N        1 m kg s^-2\n J        1 m^2 kg s^-2\n", out.String())
}

func TestSessionStyleAndReduce(t *testing.T) {
	s, out := newSession(t)
	s.Exec("N = kg m s^-2")

	out.Reset()
	s.Exec(":style latex")
	assert.Equal(t, format.LaTeXInline, s.Style())
	s.Exec(":reduce on")
	assert.True(t, s.Reduce())

	out.Reset()
	s.Exec("kN")
	assert.Equal(t, "$10^{3} \\text{ N}$\n", out.String())

	out.Reset()
	s.Exec(":style html")
	assert.Contains(t, out.String(), "Error:")
	assert.Equal(t, format.LaTeXInline, s.Style())

	s.Exec(":reduce")
	assert.False(t, s.Reduce())
}

func TestSessionRemoveAndReset(t *testing.T) {
	s, out := newSession(t)
	s.Exec("N = kg m s^-2")
	s.Exec("!J = N m")

	out.Reset()
	s.Exec(":remove J")
	assert.Contains(t, out.String(), "Error:")

	out.Reset()
	s.Exec(":remove N")
	assert.Equal(t, "Removed N\n", out.String())

	s.Exec(":reset")
	out.Reset()
	s.Exec(":rules")
	assert.Equal(t, "No user rules defined.\n", out.String())
}

func TestSessionLoadCompareAndError(t *testing.T) {
	s, out := newSession(t)

	path := filepath.Join(t.TempDir(), "si.rules")
	require.NoError(t, os.WriteFile(path, []byte("N = kg m s^-2\nJ = N m\n"), 0644))

	s.Exec(":load " + path)
	assert.Equal(t, "Loaded 2 rules from "+path+"\n", out.String())

	out.Reset()
	s.Exec(":compare J, N m")
	assert.Equal(t, "EQUAL\n", out.String())

	out.Reset()
	s.Exec(":error")
	assert.Equal(t, "No error recorded.\n", out.String())

	s.Exec("bogus")
	out.Reset()
	s.Exec(":error")
	assert.Contains(t, out.String(), "PARSE: ")
	assert.Contains(t, out.String(), "units.(*Env).Parse")
}

func TestSessionCommands(t *testing.T) {
	s, out := newSession(t)

	s.Exec(":frobnicate")
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	out.Reset()
	s.Exec(":help")
	assert.Contains(t, out.String(), ":quit")

	assert.False(t, s.Exec(":quit"))
	assert.False(t, s.Exec(":q"))
}

func TestSessionDefaultsFromConfig(t *testing.T) {
	cfg, err := units.LoadConfig("../../../testdata/units.yaml")
	require.NoError(t, err)
	env, err := units.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	var out bytes.Buffer
	s := NewSession(env, &out)
	assert.Equal(t, format.LaTeXInline, s.Style())
	assert.True(t, s.Reduce())

	s.Exec("kg m s^-2")
	assert.Equal(t, "$1 \\text{ N}$\n", out.String())
}

func TestSessionRulesAllListsGram(t *testing.T) {
	s, out := newSession(t)

	s.Exec(":rules")
	assert.Equal(t, "No user rules defined.\n", out.String())

	out.Reset()
	s.Exec(":rules all")
	assert.Contains(t, out.String(), "!m        1 m\n")
	assert.Contains(t, out.String(), "!g        0.001 kg\n")
}
