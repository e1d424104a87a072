package model

import (
	"context"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/sqlgen"
)

// DeleteRowAndLinks deletes a row of a data table together with every row
// linked to it and the junction rows that link them.
//
// The links are captured first. The linked rows are deleted from those
// captured ids, then the junction rows, then the row itself. Deleting an id that does not
// exist (or was already deleted) fails with ErrRowNotFound before anything
// is written. Linked rows that are already gone are skipped.
//
// The statements are not wrapped in a transaction; a failure part way
// leaves the earlier deletes in place.
func (e *Env) DeleteRowAndLinks(ctx context.Context, table string, id int64) error {
	t, err := e.Catalog.DataTable(table)
	if err != nil {
		return err
	}

	row, err := e.GetRow(ctx, t.Name, id)
	if err != nil {
		return err
	}
	if len(row) == 0 {
		return notFound(t.Name, id)
	}

	links, err := e.GetLinks(ctx, t.Name, id)
	if err != nil {
		return err
	}

	linked := 0
	for _, set := range links {
		other := e.Catalog.tables[set.Table]
		for _, lid := range set.IDs {
			query, args := e.sql().
				DeleteFrom(other.Name).
				Where(e.scope(other, sqlgen.Eq(other.PrimaryKey, lid))...).
				Build()
			res, err := e.Exec.Exec(ctx, query, args...)
			if err != nil {
				return withTable(err, other.Name)
			}
			linked += int(res.RowsAffected)
		}
	}

	for _, name := range t.links {
		query, args := e.sql().
			DeleteFrom(name).
			Where(sqlgen.Eq(t.PrimaryKey, id)).
			Build()
		if _, err := e.Exec.Exec(ctx, query, args...); err != nil {
			return withTable(err, name)
		}
	}

	query, args := e.sql().
		DeleteFrom(t.Name).
		Where(e.scope(t, sqlgen.Eq(t.PrimaryKey, id))...).
		Build()
	res, err := e.Exec.Exec(ctx, query, args...)
	if err != nil {
		return withTable(err, t.Name)
	}
	if res.RowsAffected == 0 {
		return notFound(t.Name, id)
	}

	e.Log().Info("row deleted", "table", t.Name, "id", id, "linked_rows", linked, "junctions", len(t.links))
	return nil
}

func notFound(table string, id int64) error {
	return alerr.Newf(alerr.ErrRowNotFound, "no row %d in table '%s'", id, table).
		WithTable(table).
		With("id", id).
		WithArgs(table)
}
