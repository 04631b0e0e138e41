package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS sequences (
	source_key   TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	run_id       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	node_count   INTEGER NOT NULL DEFAULT 0,
	applications TEXT NOT NULL DEFAULT '[]',
	steps        BLOB NOT NULL
);
`

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// OpenSQL opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory if it does not exist.
func OpenSQL(path string) (*SqlStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// One writer at a time; batch goroutines queue on the pool.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("store: check schema_version table: %w", err)
	}
	if tableCount == 0 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("store: create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("store: set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("store: read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("store: unknown schema version %d", v)
	}
	return nil
}

// List returns the stored keys in lexical order.
func (s *SqlStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source_key FROM sequences ORDER BY source_key")
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SqlStore) Load(ctx context.Context, key string) (*Record, error) {
	var (
		r         Record
		createdAt string
		apps      string
		steps     []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source_key, source, run_id, created_at, node_count, applications, steps
		 FROM sequences WHERE source_key = ?`, key,
	).Scan(&r.Key, &r.Source, &r.RunID, &createdAt, &r.NodeCount, &apps, &steps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", key, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("store: load %q: created_at: %w", key, err)
	}
	if err := json.Unmarshal([]byte(apps), &r.Applications); err != nil {
		return nil, fmt.Errorf("store: load %q: applications: %w", key, err)
	}
	if err := json.Unmarshal(steps, &r.Steps); err != nil {
		return nil, fmt.Errorf("store: load %q: steps: %w", key, err)
	}
	return &r, nil
}

func (s *SqlStore) Save(ctx context.Context, r *Record) error {
	if err := validate(r); err != nil {
		return err
	}
	apps, err := json.Marshal(r.Applications)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", r.Key, err)
	}
	steps, err := json.Marshal(r.Steps)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", r.Key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sequences (source_key, source, run_id, created_at, node_count, applications, steps)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_key) DO UPDATE SET
		   source = excluded.source,
		   run_id = excluded.run_id,
		   created_at = excluded.created_at,
		   node_count = excluded.node_count,
		   applications = excluded.applications,
		   steps = excluded.steps`,
		r.Key, r.Source, r.RunID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.NodeCount, string(apps), steps)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", r.Key, err)
	}
	return nil
}

// Close closes the database.
func (s *SqlStore) Close() error {
	return s.db.Close()
}
