package model

import (
	"context"
)

// Entry is one line of a read-only record view. Title entries carry the
// table's external name in Label and no value.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	Title bool   `json:"title,omitempty"`
}

// RowView returns a label/value view of one row, without its primary key,
// optionally preceded by a title entry. A missing row yields no entries.
func (e *Env) RowView(ctx context.Context, table string, id int64, showName bool) ([]Entry, error) {
	t, err := e.Catalog.DataTable(table)
	if err != nil {
		return nil, err
	}
	row, err := e.GetRow(ctx, t.Name, id)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, nil
	}

	var out []Entry
	if showName {
		out = append(out, Entry{Label: t.ExternalName, Title: true})
	}
	for _, c := range t.columns {
		if c.Name == t.PrimaryKey {
			continue
		}
		out = append(out, Entry{Label: c.ExternalName, Value: row[c.Name]})
	}
	return out, nil
}

// RowAndLinksView returns the view of a row followed by the views of every
// row linked to it, grouped by linked table.
func (e *Env) RowAndLinksView(ctx context.Context, table string, id int64, showName bool) ([]Entry, error) {
	out, err := e.RowView(ctx, table, id, showName)
	if err != nil || len(out) == 0 {
		return out, err
	}

	links, err := e.GetLinks(ctx, table, id)
	if err != nil {
		return nil, err
	}
	for _, set := range links {
		for _, lid := range set.IDs {
			v, err := e.RowView(ctx, set.Table, lid, showName)
			if err != nil {
				return nil, err
			}
			out = append(out, v...)
		}
	}
	return out, nil
}
