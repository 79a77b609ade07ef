// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/rulemate-tui/internal/model"
)

// ErrDatabaseError wraps low-level SQLite failures.
var ErrDatabaseError = errors.New("database error")

// Selection is one recorded game choice.
type Selection struct {
	Game     model.Game
	Intent   string
	Count    int
	LastUsed time.Time
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// Store records game selections in SQLite. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initSchema creates tables on first open.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS selections (
		game_id    TEXT NOT NULL,
		game_name  TEXT NOT NULL,
		intent     TEXT NOT NULL DEFAULT '',
		count      INTEGER NOT NULL DEFAULT 0,
		last_used  INTEGER NOT NULL,
		PRIMARY KEY (game_id, intent)
	);
	CREATE INDEX IF NOT EXISTS idx_selections_last_used ON selections(last_used);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSelection notes that the user picked game with the given intent.
// Timestamps are stored as unix nanoseconds: the driver does not
// round-trip time.Time values, and second resolution would tie
// back-to-back selections in the recency ordering.
func (s *Store) RecordSelection(game model.Game, intent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO selections (game_id, game_name, intent, count, last_used)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(game_id, intent) DO UPDATE SET
			count = count + 1,
			game_name = excluded.game_name,
			last_used = excluded.last_used`,
		game.ID, game.Name, intent, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// RecentGames returns up to limit distinct games, most recently used first.
func (s *Store) RecentGames(limit int) ([]Selection, error) {
	// Bare columns resolve to the row holding MAX(last_used), an SQLite
	// guarantee for a single aggregate.
	return s.query(`
		SELECT game_id, game_name, intent, count, MAX(last_used) AS last_used
		FROM selections
		GROUP BY game_id
		ORDER BY last_used DESC
		LIMIT ?`, limit)
}

// TopGames returns up to limit distinct games by total selection count.
func (s *Store) TopGames(limit int) ([]Selection, error) {
	return s.query(`
		SELECT game_id, game_name, intent, SUM(count) AS total, MAX(last_used)
		FROM selections
		GROUP BY game_id
		ORDER BY total DESC
		LIMIT ?`, limit)
}

func (s *Store) query(q string, limit int) ([]Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		var lastUsed int64
		if err := rows.Scan(&sel.Game.ID, &sel.Game.Name, &sel.Intent, &sel.Count, &lastUsed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		sel.LastUsed = time.Unix(0, lastUsed)
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return out, nil
}
