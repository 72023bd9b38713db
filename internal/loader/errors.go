package loader

import "fmt"

// ParseError reports a failure to read or transform chunk Chunk. Chunks
// before it are already committed.
type ParseError struct {
	Chunk int
	Err   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("chunk %d: parse: %v", e.Chunk, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports that the destination rejected chunk Chunk of Rows rows.
// Nothing of that chunk was written; earlier chunks remain.
type WriteError struct {
	Chunk int
	Rows  int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("chunk %d: write %d rows: %v", e.Chunk, e.Rows, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
