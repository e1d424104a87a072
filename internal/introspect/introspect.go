// Package introspect reads table and column metadata from the database
// catalogs of every supported dialect and maps raw SQL types to semantic types.
package introspect

import (
	"context"
	"database/sql"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/sqlgen"
	"github.com/hlop3z/linkdb/internal/types"
)

// Introspector queries database catalogs to discover schema information.
type Introspector interface {
	// ListTables returns every user table, ordered by name.
	ListTables(ctx context.Context) ([]string, error)

	// DescribeTable returns the table's columns in catalog order.
	// A table that does not exist yields no columns and no error.
	DescribeTable(ctx context.Context, table string) ([]Column, error)
}

// Column is the driver's description of one column.
type Column struct {
	Name          string
	DataType      string         // Raw SQL type as reported by the catalog
	Type          types.Semantic // Semantic type derived from DataType
	Size          int            // Character width, 0 when unbounded
	Nullable      bool
	HasDefault    bool
	Key           bool // Part of the primary key
	AutoIncrement bool
	Enum          []string // Allowed values for Enumeration columns
}

// Required reports whether a value must be supplied on insert.
func (c Column) Required() bool {
	return !c.Nullable && !c.HasDefault && !c.AutoIncrement
}

// Table is a table name with its described columns.
type Table struct {
	Name    string
	Columns []Column
}

// RawColumn represents column metadata from database catalog before
// semantic mapping.
type RawColumn struct {
	Name         string
	DataType     string // Raw SQL type (VARCHAR(32), INTEGER, ...)
	ColumnType   string // Full column type where the catalog has one (MySQL)
	IsNullable   bool
	Default      sql.NullString
	IsPrimaryKey bool
	IsIdentity   bool
	MaxLength    sql.NullInt64
}

// New creates an Introspector for the given dialect.
func New(db *sql.DB, d sqlgen.Dialect) (Introspector, error) {
	switch d {
	case sqlgen.Postgres:
		return &postgresIntrospector{db: db}, nil
	case sqlgen.SQLite:
		return &sqliteIntrospector{db: db}, nil
	case sqlgen.MySQL:
		return &mysqlIntrospector{db: db}, nil
	default:
		return nil, alerr.Newf(alerr.EUnsupportedDialect, "introspection is not supported for dialect %s", d)
	}
}

// DescribeAll lists every table and describes it.
func DescribeAll(ctx context.Context, in Introspector) ([]Table, error) {
	names, err := in.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		cols, err := in.DescribeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, Table{Name: name, Columns: cols})
	}
	return tables, nil
}

// listNames runs a single-column query and collects the names.
func listNames(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrIntrospection, err, "failed to list tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, alerr.Wrap(alerr.ErrIntrospection, err, "failed to scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.Wrap(alerr.ErrIntrospection, err, "failed to list tables")
	}
	return names, nil
}

func describeErr(err error, op, table string) error {
	return alerr.Wrapf(alerr.ErrIntrospection, err, "failed to %s", op).WithTable(table)
}
