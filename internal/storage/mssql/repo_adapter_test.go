package mssql

import (
	"context"
	"strings"
	"testing"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
	"github.com/dylantanyz/zoomcamp2024/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "mssql" backend
// goes through newRepository and that wrappedRepo propagates Close.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		gotCfg Config
		closed bool
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:  "mssql",
		DSN:   "sqlserver://sa:pw@localhost:1433?database=ny_taxi",
		Table: "dbo.yellow_taxi_data",
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.Table != "dbo.yellow_taxi_data" {
		t.Fatalf("cfg.Table = %q", gotCfg.Table)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call closeFn")
	}
}

func TestDDLRegistered(t *testing.T) {
	sql, err := storage.BuildDDL("mssql", gddl.TableDef{
		FQN:     "dbo.t",
		Columns: []gddl.ColumnDef{{Name: "a", Kind: gddl.KindTimestamp, Nullable: true}},
	})
	if err != nil {
		t.Fatalf("BuildDDL: %v", err)
	}
	if !strings.HasPrefix(sql, "IF OBJECT_ID(") || !strings.Contains(sql, "[a] DATETIME2") {
		t.Fatalf("sql = %s", sql)
	}
}
