// Package store runs parameterized statements against the backing database.
// It is the only package that talks to database/sql directly for row data.
package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/sqlgen"
)

// Executor runs statements. Implementations must report "no rows affected"
// through ExecResult rather than as an error.
type Executor interface {
	Dialect() sqlgen.Dialect
	Query(ctx context.Context, query string, args ...any) (*Rows, error)
	Exec(ctx context.Context, query string, args ...any) (ExecResult, error)
	// InsertID runs an INSERT and returns the generated key. On Postgres the
	// statement must end in RETURNING <key>.
	InsertID(ctx context.Context, query string, args ...any) (int64, error)
}

// Rows is a fully read result set. Text values are returned as strings.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// ExecResult reports the outcome of a write.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// DB is an Executor over a *sql.DB.
type DB struct {
	db      *sql.DB
	dialect sqlgen.Dialect
	logger  *slog.Logger
}

// New wraps an open *sql.DB. A nil logger discards output.
func New(db *sql.DB, dialect sqlgen.Dialect, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DB{db: db, dialect: dialect, logger: logger}
}

// Dialect returns the SQL dialect of the connection.
func (d *DB) Dialect() sqlgen.Dialect {
	return d.dialect
}

// SQL returns the underlying connection pool.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Query runs a SELECT and reads every row.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, alerr.WrapSQL(err, "run query", query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, alerr.WrapSQL(err, "read columns", query)
	}

	out := &Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, alerr.WrapSQL(err, "scan row", query)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "read rows", query)
	}

	d.logger.Debug("query", "sql", query, "rows", len(out.Values), "duration", time.Since(start))
	return out, nil
}

// Exec runs a write statement.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (ExecResult, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, alerr.WrapSQL(err, "execute statement", query)
	}

	var out ExecResult
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if d.dialect != sqlgen.Postgres {
		if id, err := res.LastInsertId(); err == nil {
			out.LastInsertID = id
		}
	}

	d.logger.Debug("exec", "sql", query, "affected", out.RowsAffected, "duration", time.Since(start))
	return out, nil
}

// InsertID runs an INSERT and returns the generated key.
func (d *DB) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	if !d.dialect.SupportsReturning() {
		res, err := d.Exec(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertID, nil
	}

	start := time.Now()
	var id int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, alerr.WrapSQL(err, "insert row", query)
	}
	d.logger.Debug("insert", "sql", query, "id", id, "duration", time.Since(start))
	return id, nil
}
