package model

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/sqlgen"
)

// Filter is a conjunction of equality predicates on column values.
type Filter []sqlgen.Cond

// Listing is the result of GetRows: display-formatted rows aligned with Columns.
type Listing struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"` // storage names
	Header  []string   `json:"header"`  // external names
	Rows    [][]string `json:"rows"`    // display values
}

// Grid returns the rows with the header row prepended.
func (l *Listing) Grid() [][]string {
	out := make([][]string, 0, len(l.Rows)+1)
	out = append(out, l.Header)
	return append(out, l.Rows...)
}

// Record is one row keyed by column name, with display-formatted values.
type Record map[string]string

// GetRows selects the rows of table matching filter, ordered by key, and
// formats every value for display. Rows of an owned table are limited to
// the current principal's.
func (e *Env) GetRows(ctx context.Context, table string, filter Filter) (*Listing, error) {
	t, err := e.Catalog.Table(table)
	if err != nil {
		return nil, err
	}
	for _, c := range filter {
		if _, err := t.Column(c.Column); err != nil {
			return nil, err
		}
	}

	order := []string{t.PrimaryKey}
	if t.IsLink() {
		order = []string{e.Catalog.tables[t.Class.A].PrimaryKey, e.Catalog.tables[t.Class.B].PrimaryKey}
	}

	cols := t.ColumnNames()
	query, args := e.sql().
		Select(cols...).
		From(t.Name).
		Where(e.scope(t, filter...)...).
		OrderBy(order...).
		Build()

	res, err := e.Exec.Query(ctx, query, args...)
	if err != nil {
		return nil, withTable(err, t.Name)
	}

	l := &Listing{Table: t.Name, Columns: cols, Header: make([]string, len(cols))}
	for i, c := range t.columns {
		l.Header[i] = c.ExternalName
	}
	for _, vals := range res.Values {
		row := make([]string, len(cols))
		for i, c := range t.columns {
			row[i] = c.Type.ToDisplay(vals[i])
		}
		l.Rows = append(l.Rows, row)
	}

	e.Log().Debug("rows selected", "table", t.Name, "rows", len(l.Rows))
	return l, nil
}

// GetRow returns the row of a data table with the given key. A missing row
// yields an empty Record and no error.
func (e *Env) GetRow(ctx context.Context, table string, id int64) (Record, error) {
	t, err := e.Catalog.DataTable(table)
	if err != nil {
		return nil, err
	}

	l, err := e.GetRows(ctx, t.Name, Filter{sqlgen.Eq(t.PrimaryKey, id)})
	if err != nil {
		return nil, err
	}

	rec := Record{}
	if len(l.Rows) == 0 {
		return rec, nil
	}
	for i, col := range l.Columns {
		rec[col] = l.Rows[0][i]
	}
	return rec, nil
}

// LinkSet is the set of rows in one data table linked to a row through one junction.
type LinkSet struct {
	Junction string  `json:"junction"`
	Table    string  `json:"table"`
	IDs      []int64 `json:"ids"`
}

// Joined returns the ids separated by colons, e.g. "7:9".
func (s LinkSet) Joined() string {
	parts := make([]string, len(s.IDs))
	for i, id := range s.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ":")
}

// ParseJoined splits a colon-joined id list.
func ParseJoined(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, alerr.Newf(alerr.ErrInvalidNumber, "'%s' is not a row id", p).With("value", s)
		}
		ids[i] = id
	}
	return ids, nil
}

// GetLinks returns, for each junction of table holding at least one row for
// id, the other table and the ids linked to it. Junctions without matches
// are omitted.
func (e *Env) GetLinks(ctx context.Context, table string, id int64) ([]LinkSet, error) {
	t, err := e.Catalog.DataTable(table)
	if err != nil {
		return nil, err
	}

	var out []LinkSet
	for _, name := range t.links {
		j := e.Catalog.tables[name]
		other, _ := j.Other(t.Name)
		otherKey := e.Catalog.tables[other].PrimaryKey

		query, args := e.sql().
			Select(otherKey).
			From(j.Name).
			Where(sqlgen.Eq(t.PrimaryKey, id)).
			OrderBy(otherKey).
			Build()
		res, err := e.Exec.Query(ctx, query, args...)
		if err != nil {
			return nil, withTable(err, j.Name)
		}
		if res.Len() == 0 {
			continue
		}

		set := LinkSet{Junction: j.Name, Table: other}
		for _, vals := range res.Values {
			linked, err := toID(vals[0])
			if err != nil {
				return nil, alerr.Wrap(alerr.ErrSQLExecution, err, "junction row holds a non-integer key").
					WithTable(j.Name).
					WithColumn(otherKey)
			}
			set.IDs = append(set.IDs, linked)
		}
		out = append(out, set)
	}
	return out, nil
}

// toID converts a driver value for an integer key column.
func toID(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected key value %v (%T)", v, v)
	}
}

func withTable(err error, table string) error {
	if e, ok := err.(*alerr.Error); ok {
		return e.WithTable(table)
	}
	return err
}
