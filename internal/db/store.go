package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	);
`

// Store provides access to the preferences database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "interview-analyzer", "prefs.sqlite")
}

// Open opens (creating if needed) the database with WAL and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Preferences returns the stored preferences, or nil if none were saved.
// Keys that fail to parse are ignored.
func (s *Store) Preferences() (*Preferences, error) {
	rows, err := s.db.Query(`SELECT key, value, updatedAt FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var prefs Preferences
	found := false
	for rows.Next() {
		var key, value string
		var updatedAt float64
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case keyModel:
			prefs.Model = value
		case keyChunkMinutes:
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			prefs.ChunkMinutes = n
		default:
			continue
		}
		found = true
		if t := timeFromUnix(updatedAt); t.After(prefs.UpdatedAt) {
			prefs.UpdatedAt = t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &prefs, nil
}

// SavePreferences upserts the non-zero fields of p.
func (s *Store) SavePreferences(p Preferences) error {
	now := float64(time.Now().UnixNano()) / 1e9
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	upsert := func(key, value string) error {
		_, err := tx.Exec(`
			INSERT INTO preferences (key, value, updatedAt) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
		`, key, value, now)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}

	if p.Model != "" {
		if err := upsert(keyModel, p.Model); err != nil {
			return err
		}
	}
	if p.ChunkMinutes > 0 {
		if err := upsert(keyChunkMinutes, strconv.Itoa(p.ChunkMinutes)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
