// Package store persists produced step sequences, one record per source
// export, and answers which sources have already been processed.
//
// Two backends implement Store: FileStore keeps one JSON document per
// source in a directory, SqlStore keeps them in a SQLite database. MemStore
// is for tests and dry runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"stepline/internal/procgraph"
)

// DefaultDir is the default store location, relative to the working directory.
const DefaultDir = ".stepline"

// DBName is the SQLite file name inside the store directory.
const DBName = "stepline.db"

// ErrNotFound is returned by Load for an unknown key.
var ErrNotFound = errors.New("store: record not found")

// Record is the persisted result of one source export.
type Record struct {
	Key          string           `json:"key"`
	Source       string           `json:"source"`
	RunID        string           `json:"run_id"`
	CreatedAt    time.Time        `json:"created_at"`
	NodeCount    int              `json:"node_count"`
	Steps        []procgraph.Step `json:"steps"`
	Applications []string         `json:"applications,omitempty"`
}

// Store is the persistence facade. Save replaces any record with the same
// key.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, r *Record) error
	Close() error
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// KeyFor derives the record key of a source path: its base name without
// extension, with anything outside [A-Za-z0-9._-] collapsed to "_".
func KeyFor(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	key := unsafeKeyChars.ReplaceAllString(base, "_")
	if key == "" || key == "." || key == ".." {
		return "_"
	}
	return key
}

// Open returns the backend named by driver rooted at dir.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return OpenSQL(filepath.Join(dir, DBName))
	case "memory":
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}

func validate(r *Record) error {
	if r == nil {
		return errors.New("store: nil record")
	}
	if r.Key == "" {
		return errors.New("store: record has no key")
	}
	return nil
}
