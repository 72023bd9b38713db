// Package storage defines the write-side contract the loader talks to and a
// small registry that maps a storage kind ("postgres", "sqlite", ...) to the
// backend that implements it. Backends register themselves from init; import
// internal/storage/all to get every built-in one.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository appends rows to one destination table.
type Repository interface {
	// CopyFrom appends rows, aligned to columns, in a single all-or-nothing
	// unit (one COPY or one transaction). It returns the number of rows the
	// backend reports as written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement that returns no rows, e.g. CREATE TABLE.
	Exec(ctx context.Context, sql string) error

	// Close releases the connection or pool.
	Close()
}

// Config is what every backend factory receives.
type Config struct {
	Kind string
	// DSN is the driver-specific connection string.
	DSN string
	// Table is the destination, optionally "schema.table".
	Table string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository through the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
