// Package ddl renders ClickHouse DDL for the generic ddl.TableDef model.
package ddl

import gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"

// MapType maps a logical kind to a ClickHouse type. Nullability is applied
// separately by wrapping in Nullable(...).
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "Int64"
	case gddl.KindFloat:
		return "Float64"
	case gddl.KindTimestamp:
		return "DateTime64(6)"
	default:
		return "String"
	}
}
