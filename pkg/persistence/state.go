package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// RuleRecord is one rule definition of a rule set.
type RuleRecord struct {
	// Symbol is the rule symbol without the protection marker.
	Symbol string `json:"symbol"`

	// Definition is the full definition line, e.g. "!J = 1 m^2 kg s^-2".
	Definition string `json:"definition"`

	// Protected is true for rules defined with the '!' marker.
	Protected bool `json:"protected,omitempty"`
}

// RuleSet is an ordered list of rule definitions. Order matters: a
// definition may only reference rules defined before it.
type RuleSet struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// ID identifies the rule set in a SQLStore (UUID).
	ID string `json:"id,omitempty"`

	// Name is the user-facing name of the rule set.
	Name string `json:"name,omitempty"`

	// SessionID is the environment session that produced the set.
	SessionID string `json:"session_id,omitempty"`

	// SavedAt is when the rule set was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Rules in definition order.
	Rules []RuleRecord `json:"rules,omitempty"`
}

// StateStore manages persistence of a rule set to a JSON file.
type StateStore struct {
	mu   sync.Mutex
	path string
}

// NewStateStore creates a new state store.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the file the store writes to.
func (s *StateStore) Path() string {
	return s.path
}

// Save persists the rule set to disk.
func (s *StateStore) Save(set *RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	set.Version = StateVersion
	if set.SavedAt.IsZero() {
		set.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the rule set from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *StateStore) Load() (*RuleSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	set := &RuleSet{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, err
	}

	return set, nil
}

// Clear removes the state file.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
