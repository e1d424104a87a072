package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/linkdb/internal/types"
)

type postgresIntrospector struct {
	db *sql.DB
}

func (p *postgresIntrospector) ListTables(ctx context.Context) ([]string, error) {
	return listNames(ctx, p.db, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = current_schema()
		ORDER BY tablename
	`)
}

type postgresColumn struct {
	RawColumn
	udtName string
}

func (p *postgresIntrospector) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.is_identity,
			COALESCE(pk.is_pk, FALSE) AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name, TRUE AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.table_name = $1
				AND tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = current_schema()
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = current_schema()
			AND c.table_name = $1
		ORDER BY c.ordinal_position
	`

	rows, err := p.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, describeErr(err, "introspect columns", table)
	}

	var raws []postgresColumn
	for rows.Next() {
		var raw postgresColumn
		var isNullable, isIdentity string
		err := rows.Scan(
			&raw.Name,
			&raw.DataType,
			&raw.udtName,
			&isNullable,
			&raw.Default,
			&raw.MaxLength,
			&isIdentity,
			&raw.IsPrimaryKey,
		)
		if err != nil {
			rows.Close()
			return nil, describeErr(err, "scan column", table)
		}
		raw.IsNullable = isNullable == "YES"
		raw.IsIdentity = isIdentity == "YES"
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, describeErr(err, "introspect columns", table)
	}
	rows.Close()

	columns := make([]Column, 0, len(raws))
	for _, raw := range raws {
		m := MapPostgresType(raw.DataType, raw.MaxLength)
		col := Column{
			Name:       raw.Name,
			DataType:   raw.DataType,
			Type:       m.Type,
			Size:       m.Size,
			Nullable:   raw.IsNullable && !raw.IsPrimaryKey,
			HasDefault: raw.Default.Valid,
			Key:        raw.IsPrimaryKey,
			AutoIncrement: raw.IsIdentity ||
				(raw.Default.Valid && strings.HasPrefix(raw.Default.String, "nextval(")),
		}
		if m.Type == types.Enumeration {
			values, err := p.enumValues(ctx, raw.udtName)
			if err != nil {
				return nil, describeErr(err, "read enum values", table)
			}
			if len(values) == 0 {
				// A user-defined type that is not an enum.
				col.Type = types.ShortText
				col.Size = defaultShortTextSize
			}
			col.Enum = values
		}
		columns = append(columns, col)
	}

	return columns, nil
}

func (p *postgresIntrospector) enumValues(ctx context.Context, typeName string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`, typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
