package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/linkdb/internal/sqlgen"
	"github.com/hlop3z/linkdb/internal/types"
)

type sqliteIntrospector struct {
	db *sql.DB
}

func (s *sqliteIntrospector) ListTables(ctx context.Context) ([]string, error) {
	return listNames(ctx, s.db, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
}

// checkInPattern matches CHECK ("col" IN ('a', 'b')) in a CREATE TABLE statement.
var checkInPattern = regexp.MustCompile("(?is)CHECK\\s*\\(\\s*[\"`\\[]?(\\w+)[\"`\\]]?\\s+IN\\s*\\((.*?)\\)\\s*\\)")

func (s *sqliteIntrospector) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	// The CREATE statement is read before PRAGMA table_info so only one
	// result set is open at a time; shared-cache in-memory databases do not
	// cope well with interleaved queries.
	var createSQL sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&createSQL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, describeErr(err, "read table definition", table)
	}

	// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
	query := fmt.Sprintf("PRAGMA table_info(%s)", sqlgen.QuoteIdent(sqlgen.SQLite, table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, describeErr(err, "introspect columns", table)
	}
	defer rows.Close()

	var raws []RawColumn
	for rows.Next() {
		var cid, notNull, pk int
		var raw RawColumn
		if err := rows.Scan(&cid, &raw.Name, &raw.DataType, &notNull, &raw.Default, &pk); err != nil {
			return nil, describeErr(err, "scan column", table)
		}
		raw.IsNullable = notNull == 0
		raw.IsPrimaryKey = pk > 0
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, describeErr(err, "introspect columns", table)
	}

	enums := sqliteEnums(createSQL.String)
	pkCount := 0
	for _, r := range raws {
		if r.IsPrimaryKey {
			pkCount++
		}
	}

	columns := make([]Column, 0, len(raws))
	for _, raw := range raws {
		m := MapSQLiteType(raw.DataType)
		col := Column{
			Name:       raw.Name,
			DataType:   raw.DataType,
			Type:       m.Type,
			Size:       m.Size,
			Nullable:   raw.IsNullable && !raw.IsPrimaryKey,
			HasDefault: raw.Default.Valid,
			Key:        raw.IsPrimaryKey,
		}
		// A lone INTEGER PRIMARY KEY aliases the rowid and is generated on insert.
		if raw.IsPrimaryKey && pkCount == 1 && strings.EqualFold(strings.TrimSpace(raw.DataType), "INTEGER") {
			col.AutoIncrement = true
		}
		if values, ok := enums[strings.ToLower(raw.Name)]; ok {
			col.Type = types.Enumeration
			col.Size = 0
			col.Enum = values
		}
		columns = append(columns, col)
	}

	return columns, nil
}

// sqliteEnums collects CHECK ... IN (...) constraints keyed by lower-cased column name.
func sqliteEnums(createSQL string) map[string][]string {
	enums := make(map[string][]string)
	for _, m := range checkInPattern.FindAllStringSubmatch(createSQL, -1) {
		if values := parseEnumList(m[2]); len(values) > 0 {
			enums[strings.ToLower(m[1])] = values
		}
	}
	return enums
}
