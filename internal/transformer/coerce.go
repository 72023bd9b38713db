package transformer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
	csvparser "github.com/dylantanyz/zoomcamp2024/internal/parser/csv"
)

var (
	errNotInt   = errors.New("not an integer")
	errNotFloat = errors.New("not a number")
)

// coerceFunc converts one non-empty cell.
type coerceFunc func(s string) (any, error)

// Coercer applies a compiled per-column plan to chunks. It is not safe for
// concurrent use: the optional index column counts rows across calls.
type Coercer struct {
	header     []string
	columns    []string
	kinds      []ddl.Kind
	plan       []coerceFunc
	indexLabel string
	next       int64
}

// NewCoercer compiles a plan for header/kinds. layouts feed ParseTimestamp.
// When indexLabel is non-empty a 0-based row ordinal column of that name is
// prepended to every batch.
func NewCoercer(header []string, kinds []ddl.Kind, layouts []string, indexLabel string) (*Coercer, error) {
	if len(header) != len(kinds) {
		return nil, fmt.Errorf("transformer: %d columns but %d kinds", len(header), len(kinds))
	}
	c := &Coercer{
		header:     header,
		kinds:      kinds,
		plan:       make([]coerceFunc, len(header)),
		indexLabel: indexLabel,
	}
	if indexLabel != "" {
		for _, h := range header {
			if h == indexLabel {
				return nil, fmt.Errorf("transformer: index label %q collides with a CSV column", indexLabel)
			}
		}
		c.columns = append(c.columns, indexLabel)
	}
	c.columns = append(c.columns, header...)

	lay := layouts
	if len(lay) == 0 {
		lay = DefaultLayouts
	}
	for i, k := range kinds {
		switch k {
		case ddl.KindInt:
			c.plan[i] = func(s string) (any, error) {
				v, ok := toIntFast(s)
				if !ok {
					return nil, errNotInt
				}
				return v, nil
			}
		case ddl.KindFloat:
			c.plan[i] = func(s string) (any, error) {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, errNotFloat
				}
				return f, nil
			}
		case ddl.KindTimestamp:
			c.plan[i] = func(s string) (any, error) {
				t, err := ParseTimestamp(s, lay)
				if err != nil {
					return nil, err
				}
				return t, nil
			}
		case ddl.KindText:
			c.plan[i] = func(s string) (any, error) { return s, nil }
		default:
			return nil, fmt.Errorf("transformer: column %q has unknown kind %q", header[i], k)
		}
	}
	return c, nil
}

// Columns returns the output column names, index column first when enabled.
func (c *Coercer) Columns() []string { return c.columns }

// Kinds returns the output column kinds aligned with Columns.
func (c *Coercer) Kinds() []ddl.Kind {
	if c.indexLabel == "" {
		return c.kinds
	}
	return append([]ddl.Kind{ddl.KindInt}, c.kinds...)
}

// Apply converts every row of ch. Empty cells become nil. The first cell that
// does not fit its kind aborts the chunk with a *FieldError.
func (c *Coercer) Apply(ch *csvparser.Chunk) (Batch, error) {
	off := 0
	if c.indexLabel != "" {
		off = 1
	}
	rows := make([][]any, len(ch.Rows))
	for i, raw := range ch.Rows {
		if len(raw) != len(c.header) {
			return Batch{}, &FieldError{
				Line: lineOf(ch, i),
				Err:  fmt.Errorf("row has %d fields, want %d", len(raw), len(c.header)),
			}
		}
		row := make([]any, len(raw)+off)
		if off == 1 {
			row[0] = c.next + int64(i)
		}
		for j, s := range raw {
			if s == "" {
				continue
			}
			v, err := c.plan[j](s)
			if err != nil {
				return Batch{}, &FieldError{Line: lineOf(ch, i), Column: c.header[j], Value: s, Err: err}
			}
			row[j+off] = v
		}
		rows[i] = row
	}
	c.next += int64(len(rows))
	return Batch{Columns: c.columns, Rows: rows}, nil
}

func lineOf(ch *csvparser.Chunk, i int) int {
	if i < len(ch.Lines) {
		return ch.Lines[i]
	}
	return ch.FirstLine + i
}

// toIntFast parses integers and falls back to float parsing only when the
// field contains a '.', so "42.0" is accepted and "42.5" is not.
func toIntFast(s string) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if strings.IndexByte(s, '.') >= 0 {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if f == float64(int64(f)) {
				return int64(f), true
			}
		}
	}
	return 0, false
}
