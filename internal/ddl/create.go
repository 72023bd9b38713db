// Package ddl defines a small, backend-agnostic model for table DDL and the
// shared rendering used by the dialect packages under internal/storage.
//
// Column types are carried either as a logical Kind, which each backend maps
// to its own SQL type, or as an explicit SQLType. Quoting and the
// create-if-absent wrapper are the only parts a dialect must supply.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect supplies the backend-specific pieces of a CREATE TABLE statement.
type Dialect struct {
	// Name prefixes error messages, e.g. "sqlite ddl".
	Name string
	// Quote quotes one identifier segment. Nil leaves names as-is.
	Quote func(string) string
	// MapType turns a Kind into a SQL type. Required unless every column has
	// an explicit SQLType.
	MapType func(Kind) string
}

func (d Dialect) quote(s string) string {
	if d.Quote == nil {
		return s
	}
	return d.Quote(s)
}

// QuoteFQN quotes every dot-separated segment of fqn. Empty segments are
// dropped.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.quote(p))
	}
	return strings.Join(out, ".")
}

// ColumnClauses renders the body of a CREATE TABLE, one clause per column:
//
//	<Name> <Type> [NOT NULL]
//
// It validates the table name and every column.
func (d Dialect) ColumnClauses(t TableDef) ([]string, error) {
	name := d.Name
	if name == "" {
		name = "ddl"
	}
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return nil, fmt.Errorf("%s: table FQN must not be empty", name)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%s: at least one column is required", name)
	}

	cols := make([]string, 0, len(t.Columns))
	seen := make(map[string]struct{}, len(t.Columns))

	for _, c := range t.Columns {
		col := c.Name
		if strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("%s: column with empty name in table %s", name, fqn)
		}
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("%s: duplicate column %s in table %s", name, col, fqn)
		}
		seen[col] = struct{}{}

		typ := strings.TrimSpace(c.SQLType)
		if typ == "" && c.Kind != "" && d.MapType != nil {
			typ = d.MapType(c.Kind)
		}
		if typ == "" {
			return nil, fmt.Errorf("%s: column %s missing SQLType", name, col)
		}

		clause := d.quote(col) + " " + typ
		if !c.Nullable {
			clause += " NOT NULL"
		}
		cols = append(cols, clause)
	}
	return cols, nil
}
