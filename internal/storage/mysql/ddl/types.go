// Package ddl renders MySQL DDL for the generic ddl.TableDef model.
package ddl

import gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"

// MapType maps a logical kind to a MySQL type.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "BIGINT"
	case gddl.KindFloat:
		return "DOUBLE"
	case gddl.KindTimestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}
