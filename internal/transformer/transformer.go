// Package transformer turns raw CSV chunks into database-ready batches.
//
// Column kinds are inferred once from the first chunk (InferKinds). A Coercer
// compiles a per-column plan of small closures from those kinds and applies it
// to every chunk of the run, so the hot loop does no map lookups.
package transformer

import (
	"fmt"
)

// Batch is a transformed chunk. Rows[i][j] holds the value for Columns[j]:
// int64, float64, time.Time, string, or nil for an empty cell.
type Batch struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int { return len(b.Rows) }

// FieldError reports a cell that does not fit its column's kind.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d column %q: cannot convert %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
