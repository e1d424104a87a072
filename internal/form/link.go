package form

import (
	"strconv"
	"strings"

	"github.com/hlop3z/linkdb/internal/alerr"
)

// ParseLink parses a "table:id" reference to a pre-existing row.
func ParseLink(s string) (Link, error) {
	table, raw, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || table == "" {
		return Link{}, alerr.Newf(alerr.ErrInvalidRowID, "'%s' is not a table:id reference", s).
			With("value", s).
			WithHelp("use the form table:id, e.g. author:7").
			WithArgs(s, table)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Link{}, alerr.Newf(alerr.ErrInvalidRowID, "'%s' is not a row id", raw).
			WithTable(table).
			With("value", raw).
			WithArgs(raw, table)
	}
	return Link{Table: table, ID: id}, nil
}

// String formats the link as "table:id".
func (l Link) String() string {
	return l.Table + ":" + strconv.FormatInt(l.ID, 10)
}
