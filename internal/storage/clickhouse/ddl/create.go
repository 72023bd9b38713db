package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

var dialect = gddl.Dialect{
	Name:  "clickhouse ddl",
	Quote: QuoteIdent,
}

// QuoteIdent backtick-quotes one identifier.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "\\`") + "`"
}

// QuoteFQN quotes a possibly "database.table" name.
func QuoteFQN(fqn string) string { return dialect.QuoteFQN(fqn) }

// BuildCreateTableSQL returns
//
//	CREATE TABLE IF NOT EXISTS `db`.`t` (
//	  `col` Nullable(Int64),
//	  ...
//	) ENGINE = MergeTree ORDER BY tuple();
//
// ORDER BY tuple() keeps insertion order and needs no sorting key, which an
// append-only load does not have.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	typed := gddl.TableDef{FQN: t.FQN, Columns: make([]gddl.ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		if c.SQLType == "" && c.Kind != "" {
			c.SQLType = MapType(c.Kind)
		}
		if c.Nullable && c.SQLType != "" && !strings.HasPrefix(c.SQLType, "Nullable(") {
			c.SQLType = "Nullable(" + c.SQLType + ")"
		}
		typed.Columns[i] = c
	}

	cols, err := dialect.ColumnClauses(typed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n) ENGINE = MergeTree ORDER BY tuple();",
		QuoteFQN(t.FQN), strings.Join(cols, ",\n  ")), nil
}
