// Package sheet models the row-oriented process-model export: an ordered
// list of rows whose first three cells are a label, a free-text value and a
// type tag. Row position is the only ordering signal the export carries, so
// rows are addressed by their 0-based index and never reordered.
package sheet

import (
	"errors"
	"fmt"
)

// MinColumns is the number of cells a well-formed export row carries.
const MinColumns = 3

const (
	colLabel = iota
	colValue
	colTypeTag
)

// ErrMalformedTable is returned when the input is not a table of at least
// MinColumns columns.
var ErrMalformedTable = errors.New("sheet: malformed table")

// Row is one export row. Missing trailing cells read as empty.
type Row []string

// Cell returns cell i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Label is the operator, relation keyword or structural marker.
func (r Row) Label() string { return r.Cell(colLabel) }

// Value is the free-text cell.
func (r Row) Value() string { return r.Cell(colValue) }

// TypeTag is only meaningful when it equals "Role".
func (r Row) TypeTag() string { return r.Cell(colTypeTag) }

// Complete reports whether the row has all MinColumns cells.
func (r Row) Complete() bool { return len(r) >= MinColumns }

// Table is a raw export. It is read-only once built.
type Table struct {
	Rows []Row
}

// New builds a table from literal rows.
func New(rows ...Row) *Table {
	return &Table{Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Row returns row i and whether i is in bounds.
func (t *Table) Row(i int) (Row, bool) {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[i], true
}

// Width returns the length of the longest row.
func (t *Table) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Validate checks the one hard precondition of the pipeline: a non-empty
// table must have at least MinColumns columns. An empty table is valid.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrMalformedTable)
	}
	if len(t.Rows) == 0 {
		return nil
	}
	if w := t.Width(); w < MinColumns {
		return fmt.Errorf("%w: %d columns, need %d", ErrMalformedTable, w, MinColumns)
	}
	return nil
}
