// Package csv reads a CSV document as a header followed by fixed-size chunks
// of records. Only one chunk is held in memory at a time; the document itself
// is streamed.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned by NewChunkReader when the input has no header row.
var ErrNoHeader = errors.New("csv: no header row")

// ParseError reports a malformed record and the line it started on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("csv line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ErrFieldCount is wrapped by ParseError when a record's width differs from
// the header's.
var ErrFieldCount = errors.New("wrong number of fields")

// Chunk is a contiguous run of data records.
type Chunk struct {
	// Index is the 0-based position of the chunk in the document.
	Index int
	// FirstLine is the 1-based line on which the chunk's first record starts.
	FirstLine int
	// Rows are the records, each as wide as the header.
	Rows [][]string
	// Lines[i] is the line on which Rows[i] starts.
	Lines []int
}

// Len returns the number of records in the chunk.
func (c *Chunk) Len() int { return len(c.Rows) }

// ChunkReader hands out records in chunks of at most size rows.
type ChunkReader struct {
	cr     *csv.Reader
	header []string
	size   int
	opt    Options
	next   int
	line   int
	done   bool
}

// NewChunkReader reads the header row from r and prepares to return chunks of
// size records. A leading byte-order mark is dropped.
func NewChunkReader(r io.Reader, size int, opt Options) (*ChunkReader, error) {
	if size < 1 {
		return nil, fmt.Errorf("csv: chunk size must be >= 1, got %d", size)
	}

	cr := csv.NewReader(skipBOM(r))
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, wrapReadErr(err, 1)
	}
	line, _ := cr.FieldPos(0)

	return &ChunkReader{
		cr:     cr,
		header: cleanHeader(raw, opt),
		size:   size,
		opt:    opt,
		line:   line,
	}, nil
}

// Header returns the cleaned column names. The slice must not be modified.
func (c *ChunkReader) Header() []string { return c.header }

// Line returns the line on which the most recently read record started.
func (c *ChunkReader) Line() int { return c.line }

// Next returns the next chunk, or io.EOF once the input is exhausted. Only the
// final chunk may hold fewer than size rows. A malformed record aborts the
// chunk with a *ParseError; the reader should not be used afterwards.
func (c *ChunkReader) Next() (*Chunk, error) {
	if c.done {
		return nil, io.EOF
	}

	ch := &Chunk{Index: c.next}
	for len(ch.Rows) < c.size {
		rec, err := c.cr.Read()
		if errors.Is(err, io.EOF) {
			c.done = true
			break
		}
		if err != nil {
			c.done = true
			return nil, wrapReadErr(err, c.line+1)
		}
		c.line, _ = c.cr.FieldPos(0)

		if len(rec) != len(c.header) {
			c.done = true
			return nil, &ParseError{
				Line: c.line,
				Err:  fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(rec), len(c.header)),
			}
		}
		if c.opt.TrimSpace {
			for i, v := range rec {
				rec[i] = strings.TrimSpace(v)
			}
		}
		if len(ch.Rows) == 0 {
			ch.FirstLine = c.line
			ch.Rows = make([][]string, 0, min(c.size, 4096))
			ch.Lines = make([]int, 0, cap(ch.Rows))
		}
		ch.Rows = append(ch.Rows, rec)
		ch.Lines = append(ch.Lines, c.line)
	}

	if len(ch.Rows) == 0 {
		return nil, io.EOF
	}
	c.next++
	return ch, nil
}

// wrapReadErr turns syntax errors into *ParseError; I/O errors pass through
// wrapped.
func wrapReadErr(err error, fallbackLine int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.StartLine, Err: pe.Err}
	}
	return fmt.Errorf("csv: read near line %d: %w", fallbackLine, err)
}
