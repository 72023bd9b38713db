// Package clickhouse appends chunks to a ClickHouse table through the
// database/sql interface of clickhouse-go/v2. A chunk is sent as one native
// batch: prepared INSERT, one Exec per row, then Commit.
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	chddl "github.com/dylantanyz/zoomcamp2024/internal/storage/clickhouse/ddl"
)

// Config holds ClickHouse repository configuration.
type Config struct {
	DSN   string // e.g. clickhouse://default:@localhost:9000/ny_taxi
	Table string
}

// Repository is a ClickHouse-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens and pings the server and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("clickhouse: DSN must not be empty")
	}
	db, err := sql.Open("clickhouse", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom sends rows as a single batch. Nothing is written unless Commit
// succeeds.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertSQL(r.cfg.Table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("append row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("send batch: %w", err)
	}
	return int64(len(rows)), nil
}

// Exec runs a statement that returns no rows.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if r.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// insertSQL renders the batch header. clickhouse-go appends the rows itself,
// so there is no VALUES list.
func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = chddl.QuoteIdent(c)
	}
	return "INSERT INTO " + chddl.QuoteFQN(table) + " (" + strings.Join(quoted, ", ") + ")"
}
