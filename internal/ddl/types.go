package ddl

import "fmt"

// Kind is the logical type of a column, independent of any SQL dialect.
// Backends translate it with their own MapType.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text"
)

// ParseKind accepts the names above plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int", "integer", "bigint":
		return KindInt, nil
	case "float", "double", "real":
		return KindFloat, nil
	case "timestamp", "datetime":
		return KindTimestamp, nil
	case "text", "string":
		return KindText, nil
	}
	return "", fmt.Errorf("ddl: unknown column kind %q", s)
}

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name as it appears in the CSV header (unquoted)
//   - Kind: logical type; used when SQLType is empty
//   - SQLType: explicit target SQL type, overriding Kind
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	Kind     Kind
	SQLType  string
	Nullable bool
}

// TableDef holds the table name (optionally "schema.table") and an ordered
// list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// FromKinds builds a TableDef whose columns are all nullable and typed only
// by Kind. names and kinds must be the same length.
func FromKinds(fqn string, names []string, kinds []Kind) (TableDef, error) {
	if len(names) != len(kinds) {
		return TableDef{}, fmt.Errorf("ddl: %d column names but %d kinds", len(names), len(kinds))
	}
	cols := make([]ColumnDef, len(names))
	for i, n := range names {
		cols[i] = ColumnDef{Name: n, Kind: kinds[i], Nullable: true}
	}
	return TableDef{FQN: fqn, Columns: cols}, nil
}
