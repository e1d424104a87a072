package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/linkdb/internal/types"
)

type mysqlIntrospector struct {
	db *sql.DB
}

func (m *mysqlIntrospector) ListTables(ctx context.Context) ([]string, error) {
	return listNames(ctx, m.db, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
}

func (m *mysqlIntrospector) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			column_name,
			data_type,
			column_type,
			is_nullable,
			column_default,
			character_maximum_length,
			column_key,
			extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, describeErr(err, "introspect columns", table)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var raw RawColumn
		var isNullable, columnKey, extra string
		err := rows.Scan(
			&raw.Name,
			&raw.DataType,
			&raw.ColumnType,
			&isNullable,
			&raw.Default,
			&raw.MaxLength,
			&columnKey,
			&extra,
		)
		if err != nil {
			return nil, describeErr(err, "scan column", table)
		}
		raw.IsNullable = isNullable == "YES"
		raw.IsPrimaryKey = columnKey == "PRI"

		tm := MapMySQLType(raw.DataType, raw.ColumnType, raw.MaxLength)
		col := Column{
			Name:          raw.Name,
			DataType:      raw.ColumnType,
			Type:          tm.Type,
			Size:          tm.Size,
			Nullable:      raw.IsNullable && !raw.IsPrimaryKey,
			HasDefault:    raw.Default.Valid,
			Key:           raw.IsPrimaryKey,
			AutoIncrement: strings.Contains(strings.ToLower(extra), "auto_increment"),
		}
		if tm.Type == types.Enumeration {
			col.Enum = parseMySQLEnum(raw.ColumnType)
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}
