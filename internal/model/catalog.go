// Package model holds the in-memory schema graph inferred from table and
// column naming conventions, and the row-level operations that run against it.
package model

import (
	"context"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/introspect"
	"github.com/hlop3z/linkdb/internal/strutil"
	"github.com/hlop3z/linkdb/internal/types"
)

// TableOverride replaces the conventional external name or primary key of a table.
type TableOverride struct {
	ExternalName string `yaml:"external_name"`
	PrimaryKey   string `yaml:"primary_key"`
}

// Catalog is the classified, cross-linked set of every table in the store.
// It is built once and is read-only afterwards, so it can be shared by
// concurrent requests.
type Catalog struct {
	tables map[string]*Table
	names  []string
}

// Load describes every table through in and builds the catalog.
func Load(ctx context.Context, in introspect.Introspector, overrides map[string]TableOverride) (*Catalog, error) {
	raw, err := introspect.DescribeAll(ctx, in)
	if err != nil {
		return nil, err
	}
	return Build(raw, overrides)
}

// Build runs relationship inference over raw table metadata.
//
// Pass 1 marks every table whose primary key column exists and is a key as
// a data table. Pass 2 runs only after pass 1 has seen every table: each
// remaining table must be named A_B where A and B are data tables and the
// table holds both of their key columns. Anything else fails the build.
func Build(raw []introspect.Table, overrides map[string]TableOverride) (*Catalog, error) {
	if len(raw) == 0 {
		return nil, alerr.New(alerr.ErrSchemaEmpty, "the database has no tables")
	}

	c := &Catalog{tables: make(map[string]*Table, len(raw))}
	for _, rt := range raw {
		cols := make([]*Column, len(rt.Columns))
		for i, rc := range rt.Columns {
			cols[i] = NewColumn(rc)
		}

		external := strutil.ExternalName(rt.Name)
		pk := strutil.PrimaryKey(rt.Name)
		if o, ok := overrides[rt.Name]; ok {
			if o.ExternalName != "" {
				external = o.ExternalName
			}
			if o.PrimaryKey != "" {
				pk = o.PrimaryKey
			}
		}

		c.tables[rt.Name] = newTable(rt.Name, external, pk, cols)
		c.names = append(c.names, rt.Name)
	}

	// Pass 1: data tables
	data := make(map[string]bool, len(c.names))
	for _, name := range c.names {
		t := c.tables[name]
		i, ok := t.index[t.PrimaryKey]
		if !ok || !t.columns[i].Key {
			continue
		}
		for _, field := range []string{DateAdded, DateUpdated} {
			if j, ok := t.index[field]; ok && t.columns[j].Type != types.DateTime {
				return nil, alerr.Newf(alerr.ErrDateFieldType,
					"column '%s' in table '%s' must be a date and time", field, name).
					WithTable(name).
					WithColumn(field).
					With("type", t.columns[j].Type.String()).
					WithArgs(field, name)
			}
		}
		t.Class = Classification{Kind: KindData}
		data[name] = true
	}

	// Pass 2: link tables
	for _, name := range c.names {
		if data[name] {
			continue
		}
		t := c.tables[name]
		a, b, err := c.linkParts(t, data)
		if err != nil {
			return nil, err
		}

		t.PrimaryKey = ""
		t.Class = Classification{Kind: KindLink, A: a, B: b}
		t.links = []string{a, b}
		c.tables[a].links = append(c.tables[a].links, name)
		c.tables[b].links = append(c.tables[b].links, name)
	}

	return c, nil
}

func (c *Catalog) linkParts(t *Table, data map[string]bool) (string, string, error) {
	fail := func(reason string) (string, string, error) {
		return "", "", alerr.Newf(alerr.ErrInvalidLinkTable, "table '%s' is not a valid link table", t.Name).
			WithTable(t.Name).
			WithNote(reason).
			WithArgs(t.Name)
	}

	a, b, ok := strutil.SplitLinkName(t.Name)
	if !ok {
		return fail("it has no primary key column '" + t.PrimaryKey + "' and its name is not of the form a_b")
	}
	if a == b {
		return fail("a table cannot be linked to itself")
	}
	if !data[a] || !data[b] {
		return fail("'" + a + "' and '" + b + "' must both be data tables")
	}

	ka, kb := c.tables[a].PrimaryKey, c.tables[b].PrimaryKey
	if ka == kb {
		return fail("'" + a + "' and '" + b + "' share the key column '" + ka + "'")
	}
	for _, k := range []string{ka, kb} {
		if !t.HasColumn(k) {
			return fail("missing key column '" + k + "'")
		}
	}
	return a, b, nil
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (*Table, error) {
	if t, ok := c.tables[name]; ok {
		return t, nil
	}
	return nil, alerr.UnknownName(alerr.ErrInvalidTableName, "table", name, c.names).
		WithArgs(name)
}

// DataTable looks up a table and requires it to be a data table.
func (c *Catalog) DataTable(name string) (*Table, error) {
	t, err := c.Table(name)
	if err != nil {
		return nil, err
	}
	if !t.IsData() {
		return nil, alerr.Newf(alerr.ErrInvalidTableInForm, "'%s' is a link table", name).
			WithTable(name).
			WithNote("only data tables hold rows that can be shown, edited or deleted").
			WithArgs(name)
	}
	return t, nil
}

// Names returns every table name in driver order.
func (c *Catalog) Names() []string {
	return c.names
}

// Tables returns every table in driver order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, len(c.names))
	for i, n := range c.names {
		out[i] = c.tables[n]
	}
	return out
}

// DataTables returns the data tables in driver order.
func (c *Catalog) DataTables() []*Table {
	return c.filter(KindData)
}

// LinkTables returns the junction tables in driver order.
func (c *Catalog) LinkTables() []*Table {
	return c.filter(KindLink)
}

func (c *Catalog) filter(k Kind) []*Table {
	var out []*Table
	for _, n := range c.names {
		if t := c.tables[n]; t.Class.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// Junction returns the link table joining data tables a and b, in either order.
func (c *Catalog) Junction(a, b string) (*Table, bool) {
	t, ok := c.tables[a]
	if !ok {
		return nil, false
	}
	for _, name := range t.links {
		j := c.tables[name]
		if other, ok := j.Other(a); ok && other == b {
			return j, true
		}
	}
	return nil, false
}
