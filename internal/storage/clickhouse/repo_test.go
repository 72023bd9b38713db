package clickhouse

import (
	"context"
	"testing"

	"github.com/dylantanyz/zoomcamp2024/internal/storage"
)

func TestInsertSQL(t *testing.T) {
	got := insertSQL("ny_taxi.trips", []string{"VendorID", "tpep_pickup_datetime"})
	want := "INSERT INTO `ny_taxi`.`trips` (`VendorID`, `tpep_pickup_datetime`)"
	if got != want {
		t.Fatalf("insertSQL = %s; want %s", got, want)
	}
}

func TestUninitializedRepository(t *testing.T) {
	r := &Repository{}
	if _, err := r.CopyFrom(context.Background(), []string{"a"}, [][]any{{1}}); err == nil {
		t.Fatal("expected error from CopyFrom without a connection")
	}
	if err := r.Exec(context.Background(), "SELECT 1"); err == nil {
		t.Fatal("expected error from Exec without a connection")
	}
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "clickhouse", DSN: "clickhouse://localhost:9000/ny_taxi", Table: "trips"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.Table != "trips" {
		t.Fatalf("cfg = %+v", gotCfg)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call closeFn")
	}
}
