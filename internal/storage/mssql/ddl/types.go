// Package ddl renders SQL Server DDL for the generic ddl.TableDef model.
package ddl

import gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"

// MapType maps a logical kind to a SQL Server type. Text uses NVARCHAR(MAX)
// since CSV cells have no declared length.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "BIGINT"
	case gddl.KindFloat:
		return "FLOAT"
	case gddl.KindTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
