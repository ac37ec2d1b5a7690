package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUnnamedRuleSet is returned when saving a rule set without a name.
var ErrUnnamedRuleSet = errors.New("rule set has no name")

// Summary describes a stored rule set without its rules.
type Summary struct {
	ID        string
	Name      string
	SessionID string
	SavedAt   time.Time
	RuleCount int
}

// SQLStore provides SQLite persistence for named rule sets.
type SQLStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLStore opens the database at dbPath and creates the schema.
// Use ":memory:" for an in-memory database.
func NewSQLStore(dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &SQLStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		session_id TEXT,
		version INTEGER NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		set_id TEXT NOT NULL REFERENCES rule_sets(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		definition TEXT NOT NULL,
		protected INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_rules_set_id ON rules(set_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save stores set under set.Name, replacing any rule set with the same
// name. An empty ID is filled with a new UUID.
func (s *SQLStore) Save(set *RuleSet) error {
	if set.Name == "" {
		return ErrUnnamedRuleSet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	set.Version = StateVersion
	if set.SavedAt.IsZero() {
		set.SavedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rule_sets WHERE name = ? OR id = ?", set.Name, set.ID); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO rule_sets (id, name, session_id, version, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, set.ID, set.Name, set.SessionID, set.Version, set.SavedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rules (set_id, position, symbol, definition, protected)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range set.Rules {
		if _, err := stmt.Exec(set.ID, i, r.Symbol, r.Definition, r.Protected); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i+1, r.Symbol, err)
		}
	}

	return tx.Commit()
}

// Load retrieves a rule set by name.
// Returns nil, nil if no rule set has that name.
func (s *SQLStore) Load(name string) (*RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := RuleSet{Name: name}
	var session sql.NullString

	err := s.db.QueryRow(`
		SELECT id, session_id, version, saved_at FROM rule_sets WHERE name = ?
	`, name).Scan(&set.ID, &session, &set.Version, &set.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session.Valid {
		set.SessionID = session.String
	}

	rows, err := s.db.Query(`
		SELECT symbol, definition, protected FROM rules WHERE set_id = ? ORDER BY position
	`, set.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r RuleRecord
		if err := rows.Scan(&r.Symbol, &r.Definition, &r.Protected); err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, r)
	}

	return &set, rows.Err()
}

// List returns all stored rule sets, most recently saved first.
func (s *SQLStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT s.id, s.name, s.session_id, s.saved_at, COUNT(r.id)
		FROM rule_sets s LEFT JOIN rules r ON r.set_id = s.id
		GROUP BY s.id
		ORDER BY s.saved_at DESC, s.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var session sql.NullString
		if err := rows.Scan(&sum.ID, &sum.Name, &session, &sum.SavedAt, &sum.RuleCount); err != nil {
			return nil, err
		}
		if session.Valid {
			sum.SessionID = session.String
		}
		out = append(out, sum)
	}

	return out, rows.Err()
}

// Delete removes a rule set and its rules. Deleting a missing name is not
// an error.
func (s *SQLStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM rule_sets WHERE name = ?", name)
	return err
}
