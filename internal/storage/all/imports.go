// Package all wires every built-in storage backend into the storage factory.
//
// It exists for side effects only: a blank import runs each backend's init,
// which registers its Factory and DDLBuilder. After
//
//	import _ "github.com/dylantanyz/zoomcamp2024/internal/storage/all"
//
// storage.New accepts the kinds postgres, sqlite, mssql, mysql and clickhouse.
// A binary that needs fewer drivers can import the backend packages it wants
// directly instead.
package all

import (
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/clickhouse"
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/mssql"
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/mysql"
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/postgres"
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/sqlite"
)
