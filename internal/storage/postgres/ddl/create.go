package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

var dialect = gddl.Dialect{
	Name:    "postgres ddl",
	Quote:   pgIdent,
	MapType: MapType,
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// BuildCreateTableSQL returns
//
//	CREATE TABLE IF NOT EXISTS "schema"."table" (
//	  "col1" TYPE,
//	  ...
//	);
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := dialect.ColumnClauses(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		dialect.QuoteFQN(t.FQN), strings.Join(cols, ",\n  ")), nil
}
