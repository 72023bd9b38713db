package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

var dialect = gddl.Dialect{
	Name:    "mssql ddl",
	Quote:   QuoteIdent,
	MapType: MapType,
}

// QuoteIdent brackets one identifier, escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified name: dbo.trips -> [dbo].[trips].
func QuoteFQN(fqn string) string { return dialect.QuoteFQN(fqn) }

// BuildCreateTableSQL returns a T-SQL batch that creates the table unless it
// already exists. T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement
// is guarded with OBJECT_ID:
//
//	IF OBJECT_ID(N'[dbo].[t]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[t] (
//	    [col] TYPE
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := dialect.ColumnClauses(t)
	if err != nil {
		return "", err
	}
	fqn := QuoteFQN(t.FQN)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"), fqn, strings.Join(cols, ",\n    "),
	), nil
}
