// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

// SQLiteStore persists one JSON payload per pattern. Version and timestamps
// are mirrored into columns so they can be inspected without decoding.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the database at path (":memory:" works for tests).
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema. Repeated calls are no-ops.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return ErrPathRequired
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// one connection: sqlite serialises writers, and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil

	return err
}

func (s *SQLiteStore) PutPattern(ctx context.Context, p pattern.Pattern) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	return upsertPattern(ctx, db, p)
}

func (s *SQLiteStore) GetPattern(ctx context.Context, id string) (pattern.Pattern, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return pattern.Pattern{}, false, err
	}

	return selectPattern(ctx, db, id)
}

func (s *SQLiteStore) ListPatterns(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM patterns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// SaveFit reads, updates and writes the pattern inside one transaction.
func (s *SQLiteStore) SaveFit(ctx context.Context, id string, tm tensor.TransferMatrix, m pattern.Manifold) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cur, found, err := selectPattern(ctx, tx, id)
	if err != nil {
		return err
	}
	next, err := applyFit(cur, found, id, tm, m, time.Now())
	if err != nil {
		return err
	}
	if err := upsertPattern(ctx, tx, next); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	return s.db, nil
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)

	return err
}

func upsertPattern(ctx context.Context, q execQuerier, p pattern.Pattern) error {
	payload, err := pattern.EncodeJSON(p)
	if err != nil {
		return registryErrorf("encode", p.ID, err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO patterns (id, version, schema_version, codec_version, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, p.ID, p.Version, pattern.CurrentSchemaVersion, pattern.CurrentCodecVersion, payload,
		p.UpdatedAt.UTC().Format(time.RFC3339Nano))

	return err
}

func selectPattern(ctx context.Context, q execQuerier, id string) (pattern.Pattern, bool, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM patterns WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pattern.Pattern{}, false, nil
		}
		return pattern.Pattern{}, false, err
	}

	p, err := pattern.DecodeJSON(payload)
	if err != nil {
		return pattern.Pattern{}, false, fmt.Errorf("decode pattern %s: %w", id, err)
	}

	return p, true, nil
}
