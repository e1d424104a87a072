// Package sqlgen provides dialect-aware SQL building helpers to reduce string concatenation.
// Values are never inlined: every value goes through a placeholder and is
// collected in the builder's argument list.
package sqlgen

import (
	"strconv"
	"strings"
)

// Dialect represents a supported SQL database dialect.
type Dialect int

const (
	// Postgres represents PostgreSQL dialect.
	Postgres Dialect = iota
	// SQLite represents SQLite dialect.
	SQLite
	// MySQL represents MySQL/MariaDB dialect.
	MySQL
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case MySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// ParseDialect maps a dialect name (and common aliases) to a Dialect.
func ParseDialect(name string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, true
	case "sqlite", "sqlite3":
		return SQLite, true
	case "mysql", "mariadb":
		return MySQL, true
	default:
		return 0, false
	}
}

// SupportsReturning reports whether INSERT ... RETURNING is used to fetch
// generated keys. The other dialects report them through the driver.
func (d Dialect) SupportsReturning() bool {
	return d == Postgres
}

// Cond is an equality predicate "column = value".
type Cond struct {
	Column string
	Value  any
}

// Eq builds a Cond.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Value: value}
}

// Builder provides fluent SQL construction with dialect awareness.
type Builder struct {
	dialect Dialect
	buf     strings.Builder
	args    []any
}

// New creates a new Builder for the specified dialect.
func New(dialect Dialect) *Builder {
	return &Builder{
		dialect: dialect,
	}
}

// Dialect returns the dialect of this builder.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// ----------------------------------------------------------------------------
// DML
// ----------------------------------------------------------------------------

// Select appends "SELECT <cols>". No columns selects "*".
func (b *Builder) Select(cols ...string) *Builder {
	b.buf.WriteString("SELECT ")
	if len(cols) == 0 {
		b.buf.WriteString("*")
		return b
	}
	b.buf.WriteString(Columns(b.dialect, cols...))
	return b
}

// From appends " FROM <table>".
func (b *Builder) From(table string) *Builder {
	b.buf.WriteString(" FROM ")
	b.buf.WriteString(QuoteIdent(b.dialect, table))
	return b
}

// Where appends " WHERE a = ? AND b = ?". Nothing is written for no conditions.
func (b *Builder) Where(conds ...Cond) *Builder {
	if len(conds) == 0 {
		return b
	}
	b.buf.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			b.buf.WriteString(" AND ")
		}
		b.buf.WriteString(QuoteIdent(b.dialect, c.Column))
		b.buf.WriteString(" = ")
		b.Arg(c.Value)
	}
	return b
}

// OrderBy appends " ORDER BY <cols>" in ascending order.
func (b *Builder) OrderBy(cols ...string) *Builder {
	if len(cols) == 0 {
		return b
	}
	b.buf.WriteString(" ORDER BY ")
	b.buf.WriteString(Columns(b.dialect, cols...))
	return b
}

// InsertInto appends "INSERT INTO <table> (<cols>) VALUES (<placeholders>)".
// cols and vals must have the same length.
func (b *Builder) InsertInto(table string, cols []string, vals []any) *Builder {
	b.buf.WriteString("INSERT INTO ")
	b.buf.WriteString(QuoteIdent(b.dialect, table))
	if len(cols) == 0 {
		if b.dialect == MySQL {
			b.buf.WriteString(" () VALUES ()")
		} else {
			b.buf.WriteString(" DEFAULT VALUES")
		}
		return b
	}
	b.buf.WriteString(" (")
	b.buf.WriteString(Columns(b.dialect, cols...))
	b.buf.WriteString(") VALUES (")
	for i, v := range vals {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.Arg(v)
	}
	b.buf.WriteString(")")
	return b
}

// Returning appends " RETURNING <col>" on dialects that support it and is a
// no-op elsewhere.
func (b *Builder) Returning(col string) *Builder {
	if !b.dialect.SupportsReturning() || col == "" {
		return b
	}
	b.buf.WriteString(" RETURNING ")
	b.buf.WriteString(QuoteIdent(b.dialect, col))
	return b
}

// Update appends "UPDATE <table>".
func (b *Builder) Update(table string) *Builder {
	b.buf.WriteString("UPDATE ")
	b.buf.WriteString(QuoteIdent(b.dialect, table))
	return b
}

// Set appends " SET a = ?, b = ?". cols and vals must have the same length.
func (b *Builder) Set(cols []string, vals []any) *Builder {
	b.buf.WriteString(" SET ")
	for i, col := range cols {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.buf.WriteString(QuoteIdent(b.dialect, col))
		b.buf.WriteString(" = ")
		b.Arg(vals[i])
	}
	return b
}

// DeleteFrom appends "DELETE FROM <table>".
func (b *Builder) DeleteFrom(table string) *Builder {
	b.buf.WriteString("DELETE FROM ")
	b.buf.WriteString(QuoteIdent(b.dialect, table))
	return b
}

// Arg appends the next placeholder and records its value.
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	b.buf.WriteString(Placeholder(b.dialect, len(b.args)))
	return b
}

// ----------------------------------------------------------------------------
// Utilities
// ----------------------------------------------------------------------------

// String returns the accumulated SQL string.
func (b *Builder) String() string {
	return b.buf.String()
}

// Build returns the statement and its arguments.
func (b *Builder) Build() (string, []any) {
	return b.buf.String(), b.args
}

// ----------------------------------------------------------------------------
// Standalone Helpers
// ----------------------------------------------------------------------------

// QuoteIdent returns the identifier quoted according to the dialect.
// PostgreSQL and SQLite use double quotes: "name"
// MySQL uses backticks: `name`
func QuoteIdent(dialect Dialect, s string) string {
	if dialect == MySQL {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Columns returns a comma-separated list of quoted column names.
// Example: Columns(SQLite, "a", "b") -> `"a", "b"`
func Columns(dialect Dialect, cols ...string) string {
	if len(cols) == 0 {
		return ""
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = QuoteIdent(dialect, col)
	}
	return strings.Join(parts, ", ")
}

// Placeholder returns the n-th (1-based) placeholder.
// PostgreSQL uses numbered placeholders ($1); SQLite and MySQL use "?".
func Placeholder(dialect Dialect, n int) string {
	if dialect == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
