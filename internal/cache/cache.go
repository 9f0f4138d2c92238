// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists validation verdicts in a SQLite database so that
// repeated ranking runs over the same candidate URLs skip redundant network
// work.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Store is the on-disk verdict cache. Safe for concurrent use; SQLite
// serializes writers.
type Store struct {
	db *sql.DB
}

// Open opens or creates the verdict database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening verdict cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS verdicts (
		url TEXT PRIMARY KEY,
		verdict TEXT NOT NULL,
		checked_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached verdict for url. The second return value reports
// whether a usable entry was found; corrupt rows are treated as misses.
func (s *Store) Get(url string) (types.ValidationVerdict, bool) {
	var raw string
	err := s.db.QueryRow(`SELECT verdict FROM verdicts WHERE url = ?`, url).Scan(&raw)
	if err != nil {
		return types.ValidationVerdict{}, false
	}

	var v types.ValidationVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return types.ValidationVerdict{}, false
	}
	return v, true
}

// Put stores or replaces the verdict for url.
func (s *Store) Put(url string, v types.ValidationVerdict) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding verdict: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO verdicts (url, verdict, checked_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET verdict = excluded.verdict, checked_at = excluded.checked_at`,
		url, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing verdict for %s: %w", url, err)
	}
	return nil
}

// Prune deletes entries checked before the cutoff and reports how many
// were removed. Pages change; verdicts go stale.
func (s *Store) Prune(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM verdicts WHERE checked_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning verdicts: %w", err)
	}
	return res.RowsAffected()
}
