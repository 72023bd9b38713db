// Package ddl renders Postgres DDL for the generic ddl.TableDef model.
package ddl

import gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"

// MapType maps a logical kind to a Postgres type.
//
//	int       -> BIGINT
//	float     -> DOUBLE PRECISION
//	timestamp -> TIMESTAMP (without time zone)
//	text      -> TEXT
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "BIGINT"
	case gddl.KindFloat:
		return "DOUBLE PRECISION"
	case gddl.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
