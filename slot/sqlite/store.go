// Package sqlite provides a SQLite-backed core.Slot implementation. Several
// named slots can share one database file; each slot is one row keyed by its
// name and every Save replaces that row in a single statement.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/shopcart/slot"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store owns the SQLite handle. Use Slot to obtain a core.Slot for one key.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) a SQLite slot database and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Slot returns the slot stored under key. An empty key selects slot.DefaultKey.
func (s *Store) Slot(key string) *Slot {
	key = strings.TrimSpace(key)
	if key == "" {
		key = slot.DefaultKey
	}
	return &Slot{store: s, key: key}
}

// Slot is one named row of a Store.
type Slot struct {
	store *Store
	key   string
}

// Key returns the slot name.
func (s *Slot) Key() string { return s.key }

// Load returns the stored value or slot.ErrEmpty when the row is missing.
func (s *Slot) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.store == nil || s.store.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var value []byte
	err := s.store.sqlDB.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("load slot %s: %w", s.key, err)
	}
	return value, nil
}

// Save upserts the slot row.
func (s *Slot) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.store == nil || s.store.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.store.sqlDB.ExecContext(
		ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key,
		data,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", s.key, err)
	}
	return nil
}
