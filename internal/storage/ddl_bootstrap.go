package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

// DDLBuilder renders a create-if-absent statement for def in a backend's
// dialect. Backends register one per kind from init.
type DDLBuilder func(def ddl.TableDef) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL installs (or replaces) the DDLBuilder for kind.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// BuildDDL renders def with the builder registered for kind.
func BuildDDL(kind string, def ddl.TableDef) (string, error) {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no DDL builder registered for storage.kind=%q", kind)
	}
	return fn(def)
}

// EnsureTable creates the destination table if it does not exist yet. The
// statement is idempotent; an existing table is left untouched even when its
// columns differ from def.
func EnsureTable(ctx context.Context, kind string, repo Repository, def ddl.TableDef) error {
	sql, err := BuildDDL(kind, def)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create table %s: %w", def.FQN, err)
	}
	return nil
}
