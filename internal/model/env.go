package model

import (
	"io"
	"log/slog"
	"time"

	"github.com/hlop3z/linkdb/internal/sqlgen"
	"github.com/hlop3z/linkdb/internal/store"
)

// Principal is the authenticated user a request runs as.
type Principal struct {
	ID string
}

// Env carries the services every row operation needs. It is passed
// explicitly into each call; nothing in this package reads globals.
type Env struct {
	Catalog   *Catalog
	Exec      store.Executor
	Principal *Principal // nil when no one is authenticated
	OwnerKey  string     // column that scopes rows to their owner, e.g. "user_id"
	Logger    *slog.Logger
	Now       func() time.Time
}

// WithPrincipal returns a copy of e running as p.
func (e *Env) WithPrincipal(p *Principal) *Env {
	cp := *e
	cp.Principal = p
	return &cp
}

// Log returns the configured logger or a discarding one.
func (e *Env) Log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Clock returns the current time in UTC.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

// Owned reports whether rows of t are scoped to the current principal.
func (e *Env) Owned(t *Table) bool {
	return e.Principal != nil && e.OwnerKey != "" && t.HasColumn(e.OwnerKey)
}

// scope appends the ownership predicate for t when one applies.
func (e *Env) scope(t *Table, conds ...sqlgen.Cond) []sqlgen.Cond {
	if e.Owned(t) {
		conds = append(conds, sqlgen.Eq(e.OwnerKey, e.Principal.ID))
	}
	return conds
}

func (e *Env) sql() *sqlgen.Builder {
	return sqlgen.New(e.Exec.Dialect())
}
