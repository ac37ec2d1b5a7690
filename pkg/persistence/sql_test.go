package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLStore(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSet(name string) *RuleSet {
	return &RuleSet{
		Name:      name,
		SessionID: uuid.NewString(),
		Rules: []RuleRecord{
			{Symbol: "N", Definition: "N = 1 m kg s^-2"},
			{Symbol: "J", Definition: "!J = 1 m^2 kg s^-2", Protected: true},
			{Symbol: "W", Definition: "W = 1 m^2 kg s^-3"},
		},
	}
}

func TestSQLStoreSaveLoad(t *testing.T) {
	store := newTestSQLStore(t)

	set := sampleSet("derived")
	require.NoError(t, store.Save(set))

	_, err := uuid.Parse(set.ID)
	require.NoError(t, err, "Save should assign a UUID")
	assert.Equal(t, StateVersion, set.Version)

	got, err := store.Load("derived")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, set.ID, got.ID)
	assert.Equal(t, set.SessionID, got.SessionID)
	assert.WithinDuration(t, set.SavedAt, got.SavedAt, time.Second)
	assert.Equal(t, set.Rules, got.Rules)
}

func TestSQLStoreLoadMissing(t *testing.T) {
	store := newTestSQLStore(t)

	got, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStoreReplacesByName(t *testing.T) {
	store := newTestSQLStore(t)

	require.NoError(t, store.Save(sampleSet("derived")))

	replacement := &RuleSet{
		Name:  "derived",
		Rules: []RuleRecord{{Symbol: "Hz", Definition: "Hz = 1 s^-1"}},
	}
	require.NoError(t, store.Save(replacement))

	got, err := store.Load("derived")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, replacement.ID, got.ID)
	assert.Equal(t, replacement.Rules, got.Rules)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].RuleCount)
}

func TestSQLStoreList(t *testing.T) {
	store := newTestSQLStore(t)

	older := sampleSet("older")
	older.SavedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(older))

	empty := &RuleSet{Name: "empty"}
	require.NoError(t, store.Save(empty))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "empty", list[0].Name)
	assert.Equal(t, 0, list[0].RuleCount)
	assert.Equal(t, "older", list[1].Name)
	assert.Equal(t, 3, list[1].RuleCount)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestSQLStoreDelete(t *testing.T) {
	store := newTestSQLStore(t)

	require.NoError(t, store.Save(sampleSet("derived")))
	require.NoError(t, store.Delete("derived"))

	got, err := store.Load("derived")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Delete("derived"))
}

func TestSQLStoreRequiresName(t *testing.T) {
	store := newTestSQLStore(t)
	assert.ErrorIs(t, store.Save(&RuleSet{}), ErrUnnamedRuleSet)
}

func TestSQLStoreInMemory(t *testing.T) {
	store, err := NewSQLStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(sampleSet("mem")))
	got, err := store.Load("mem")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Rules, 3)
}
