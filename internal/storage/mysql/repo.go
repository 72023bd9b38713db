// Package mysql appends chunks to a MySQL table using go-sql-driver/mysql.
// MySQL has no COPY; a chunk is written as a series of multi-row INSERT
// statements inside one transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	myddl "github.com/dylantanyz/zoomcamp2024/internal/storage/mysql/ddl"
)

// maxPlaceholders is the server's limit on bound parameters per statement.
const maxPlaceholders = 65535

// maxRowsPerInsert caps a single VALUES list regardless of column count.
const maxRowsPerInsert = 1000

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string
	Table string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository parses the DSN, forces parseTime so DATETIME columns scan
// into time.Time, connects, and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := driver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true

	connector, err := driver.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom writes rows with batched multi-row INSERTs in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	per := rowsPerInsert(len(columns))
	var total int64
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		batch := rows[start:end]

		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("mysql: row %d has %d values, want %d", start+i, len(row), len(columns))
			}
			args = append(args, row...)
		}

		res, err := tx.ExecContext(ctx, insertSQL(r.cfg.Table, columns, len(batch)), args...)
		if err != nil {
			return 0, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

// Exec runs a statement that returns no rows.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func rowsPerInsert(ncols int) int {
	n := maxPlaceholders / ncols
	if n > maxRowsPerInsert {
		n = maxRowsPerInsert
	}
	if n < 1 {
		n = 1
	}
	return n
}

// insertSQL renders INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?), ...
func insertSQL(table string, columns []string, nrows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myddl.QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(myddl.QuoteFQN(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")
	for i := 0; i < nrows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
	}
	return sb.String()
}
