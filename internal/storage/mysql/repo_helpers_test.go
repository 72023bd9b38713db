package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/dylantanyz/zoomcamp2024/internal/storage"
)

func TestInsertSQL(t *testing.T) {
	got := insertSQL("ny_taxi.trips", []string{"VendorID", "fare_amount"}, 3)
	want := "INSERT INTO `ny_taxi`.`trips` (`VendorID`, `fare_amount`) VALUES (?, ?), (?, ?), (?, ?)"
	if got != want {
		t.Fatalf("insertSQL =\n%s\nwant\n%s", got, want)
	}
}

func TestRowsPerInsert(t *testing.T) {
	cases := []struct {
		ncols, want int
	}{
		{1, maxRowsPerInsert},
		{18, maxRowsPerInsert},
		{100, 655},
		{70000, 1},
	}
	for _, tc := range cases {
		if got := rowsPerInsert(tc.ncols); got != tc.want {
			t.Fatalf("rowsPerInsert(%d) = %d; want %d", tc.ncols, got, tc.want)
		}
	}
}

func TestNewRepository_InvalidDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{DSN: "root:pw@tcp(db:3306"})
	if err == nil || !strings.HasPrefix(err.Error(), "mysql dsn:") {
		t.Fatalf("err = %v; want mysql dsn error", err)
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

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mysql", DSN: "root:pw@tcp(db:3306)/ny_taxi", Table: "trips"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.Table != "trips" || gotCfg.DSN != "root:pw@tcp(db:3306)/ny_taxi" {
		t.Fatalf("cfg = %+v", gotCfg)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call closeFn")
	}
}
