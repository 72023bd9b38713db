//go:build integration

package mssql

import (
	"context"
	"os"
	"testing"
	"time"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
	msddl "github.com/dylantanyz/zoomcamp2024/internal/storage/mssql/ddl"
)

// getTestDSN reads MSSQL_TEST_DSN and skips when it is unset.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MSSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MSSQL_TEST_DSN not set; skipping MSSQL integration tests")
	}
	return dsn
}

// TestCopyFromIntegration creates the table through the guarded DDL, appends
// two chunks, and checks the row count.
func TestCopyFromIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn, Table: "dbo.ingest_copyfrom_test"})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	_ = repo.Exec(ctx, "IF OBJECT_ID(N'[dbo].[ingest_copyfrom_test]', N'U') IS NOT NULL DROP TABLE [dbo].[ingest_copyfrom_test];")

	def, _ := gddl.FromKinds("dbo.ingest_copyfrom_test",
		[]string{"VendorID", "tpep_pickup_datetime", "fare_amount"},
		[]gddl.Kind{gddl.KindInt, gddl.KindTimestamp, gddl.KindFloat})
	ddlSQL, err := msddl.BuildCreateTableSQL(def)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.Exec(ctx, ddlSQL); err != nil {
			t.Fatalf("Exec(DDL) #%d: %v", i, err)
		}
	}

	pickup := time.Date(2021, 1, 1, 0, 30, 10, 0, time.UTC)
	cols := []string{"VendorID", "tpep_pickup_datetime", "fare_amount"}
	for chunk := 0; chunk < 2; chunk++ {
		n, err := repo.CopyFrom(ctx, cols, [][]any{{int64(1), pickup, 8.5}, {int64(2), pickup, nil}})
		if err != nil {
			t.Fatalf("CopyFrom chunk %d: %v", chunk, err)
		}
		if n != 2 {
			t.Fatalf("chunk %d inserted %d, want 2", chunk, n)
		}
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM [dbo].[ingest_copyfrom_test]").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
}
