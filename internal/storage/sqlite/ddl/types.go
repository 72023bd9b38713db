// Package ddl renders SQLite DDL for the generic ddl.TableDef model.
package ddl

import gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"

// MapType maps a logical kind to a SQLite column type. Timestamps are stored
// as ISO-8601 TEXT, which sorts and compares correctly as strings.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "INTEGER"
	case gddl.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
