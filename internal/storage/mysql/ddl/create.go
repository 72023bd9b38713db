package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

var dialect = gddl.Dialect{
	Name:    "mysql ddl",
	Quote:   QuoteIdent,
	MapType: MapType,
}

// QuoteIdent backtick-quotes one identifier, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes each segment of a possibly "db.table" name.
func QuoteFQN(fqn string) string { return dialect.QuoteFQN(fqn) }

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := dialect.ColumnClauses(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(t.FQN), strings.Join(cols, ",\n  ")), nil
}
