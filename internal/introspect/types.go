package introspect

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/hlop3z/linkdb/internal/types"
)

// Default widths for types whose catalogs report no length.
const (
	defaultShortTextSize = 255
	defaultIntegerSize   = 11
	defaultNumericSize   = 20
)

// TypeMapping holds the result of mapping a SQL type to a semantic type.
type TypeMapping struct {
	Type types.Semantic
	Size int
}

// MapPostgresType converts a PostgreSQL information_schema data_type.
func MapPostgresType(dataType string, maxLen sql.NullInt64) TypeMapping {
	upper := strings.ToUpper(dataType)

	switch {
	case upper == "CHARACTER VARYING", upper == "VARCHAR", upper == "CHARACTER", upper == "CHAR", upper == "UUID":
		if maxLen.Valid && maxLen.Int64 > 0 {
			return TypeMapping{Type: types.ShortText, Size: int(maxLen.Int64)}
		}
		return TypeMapping{Type: types.ShortText, Size: defaultShortTextSize}

	case upper == "TEXT", upper == "JSON", upper == "JSONB", upper == "XML":
		return TypeMapping{Type: types.LongText}

	case upper == "INTEGER", upper == "SMALLINT", upper == "BIGINT":
		return TypeMapping{Type: types.Integer, Size: defaultIntegerSize}

	case upper == "REAL", upper == "DOUBLE PRECISION", upper == "NUMERIC", upper == "MONEY":
		return TypeMapping{Type: types.Numeric, Size: defaultNumericSize}

	case upper == "DATE":
		return TypeMapping{Type: types.Date, Size: types.Date.FixedSize()}

	case strings.HasPrefix(upper, "TIME WITH"), upper == "TIME":
		return TypeMapping{Type: types.Time, Size: types.Time.FixedSize()}

	case strings.HasPrefix(upper, "TIMESTAMP"):
		return TypeMapping{Type: types.DateTime, Size: types.DateTime.FixedSize()}

	case upper == "USER-DEFINED":
		return TypeMapping{Type: types.Enumeration}

	default:
		return TypeMapping{Type: types.ShortText, Size: defaultShortTextSize}
	}
}

// MapSQLiteType converts a declared SQLite column type.
// SQLite has dynamic typing with type affinity, so we map based on the
// declared name and keep any declared width.
func MapSQLiteType(declared string) TypeMapping {
	upper := strings.ToUpper(strings.TrimSpace(declared))
	base, size := splitTypeSize(upper)

	switch {
	case base == "DATE":
		return TypeMapping{Type: types.Date, Size: types.Date.FixedSize()}

	case base == "TIME":
		return TypeMapping{Type: types.Time, Size: types.Time.FixedSize()}

	case base == "DATETIME", strings.HasPrefix(base, "TIMESTAMP"):
		return TypeMapping{Type: types.DateTime, Size: types.DateTime.FixedSize()}

	case strings.Contains(base, "INT"):
		return TypeMapping{Type: types.Integer, Size: orDefault(size, defaultIntegerSize)}

	case strings.Contains(base, "CHAR"):
		return TypeMapping{Type: types.ShortText, Size: orDefault(size, defaultShortTextSize)}

	case base == "TEXT", base == "CLOB":
		return TypeMapping{Type: types.LongText}

	case strings.Contains(base, "REAL"), strings.Contains(base, "FLOA"), strings.Contains(base, "DOUB"),
		base == "NUMERIC", base == "DECIMAL":
		return TypeMapping{Type: types.Numeric, Size: orDefault(size, defaultNumericSize)}

	default:
		return TypeMapping{Type: types.ShortText, Size: orDefault(size, defaultShortTextSize)}
	}
}

// MapMySQLType converts a MySQL data_type; columnType carries the full
// declaration, e.g. "enum('a','b')".
func MapMySQLType(dataType, columnType string, maxLen sql.NullInt64) TypeMapping {
	lower := strings.ToLower(dataType)

	switch lower {
	case "varchar", "char":
		if maxLen.Valid && maxLen.Int64 > 0 {
			return TypeMapping{Type: types.ShortText, Size: int(maxLen.Int64)}
		}
		return TypeMapping{Type: types.ShortText, Size: defaultShortTextSize}

	case "text", "tinytext", "mediumtext", "longtext", "json":
		return TypeMapping{Type: types.LongText}

	case "int", "integer", "tinyint", "smallint", "mediumint", "bigint":
		_, size := splitTypeSize(strings.ToUpper(columnType))
		return TypeMapping{Type: types.Integer, Size: orDefault(size, defaultIntegerSize)}

	case "decimal", "numeric", "float", "double", "real":
		return TypeMapping{Type: types.Numeric, Size: defaultNumericSize}

	case "enum", "set":
		return TypeMapping{Type: types.Enumeration}

	case "date":
		return TypeMapping{Type: types.Date, Size: types.Date.FixedSize()}

	case "time":
		return TypeMapping{Type: types.Time, Size: types.Time.FixedSize()}

	case "datetime", "timestamp":
		return TypeMapping{Type: types.DateTime, Size: types.DateTime.FixedSize()}

	default:
		return TypeMapping{Type: types.ShortText, Size: defaultShortTextSize}
	}
}

// splitTypeSize splits "VARCHAR(32)" into ("VARCHAR", 32).
// For "DECIMAL(10,2)" the size is the precision.
func splitTypeSize(t string) (string, int) {
	open := strings.Index(t, "(")
	if open == -1 {
		return t, 0
	}
	closing := strings.Index(t[open:], ")")
	if closing == -1 {
		return strings.TrimSpace(t[:open]), 0
	}
	args := t[open+1 : open+closing]
	first, _, _ := strings.Cut(args, ",")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		n = 0
	}
	return strings.TrimSpace(t[:open]), n
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

// parseEnumList parses a comma-separated list of quoted values, as found in
// CHECK (x IN ('a', 'b')) constraints and MySQL enum('a','b') types.
// Doubled quotes inside values are unescaped.
func parseEnumList(list string) []string {
	var values []string
	var cur strings.Builder
	inQuote := false

	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(list) && list[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			inQuote = !inQuote
			if !inQuote {
				values = append(values, cur.String())
				cur.Reset()
			}
		case inQuote:
			cur.WriteByte(c)
		}
	}
	return values
}

// parseMySQLEnum extracts the values of "enum('a','b')" or "set(...)".
func parseMySQLEnum(columnType string) []string {
	open := strings.Index(columnType, "(")
	closing := strings.LastIndex(columnType, ")")
	if open == -1 || closing <= open {
		return nil
	}
	return parseEnumList(columnType[open+1 : closing])
}
