package model

import (
	"github.com/hlop3z/linkdb/internal/alerr"
)

// Kind classifies a table.
type Kind int

const (
	// KindData is an entity table with a single-column primary key.
	KindData Kind = iota
	// KindLink is an A_B junction table joining two data tables.
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Classification is the result of relationship inference for one table.
// A and B are set only for link tables and name the joined data tables.
type Classification struct {
	Kind Kind
	A, B string
}

// Table owns its columns, its classification and the names of the tables
// it is related to. Relationships are stored as names resolved through the
// Catalog, never as pointers.
type Table struct {
	Name         string
	ExternalName string
	PrimaryKey   string // empty for link tables
	Class        Classification

	columns []*Column
	index   map[string]int
	links   []string
}

func newTable(name, external, primaryKey string, cols []*Column) *Table {
	t := &Table{
		Name:         name,
		ExternalName: external,
		PrimaryKey:   primaryKey,
		columns:      cols,
		index:        make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// IsData reports whether t is a data table.
func (t *Table) IsData() bool {
	return t.Class.Kind == KindData
}

// IsLink reports whether t is a junction table.
func (t *Table) IsLink() bool {
	return t.Class.Kind == KindLink
}

// Columns returns the columns in driver metadata order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	if i, ok := t.index[name]; ok {
		return t.columns[i], nil
	}
	return nil, alerr.UnknownName(alerr.ErrInvalidColumnName, "column", name, t.ColumnNames()).
		WithTable(t.Name)
}

// Links returns, for a data table, the names of the junction tables that
// reference it, and for a link table the two data tables it joins.
func (t *Table) Links() []string {
	return t.links
}

// Other returns the data table on the other side of junction t from table.
func (t *Table) Other(table string) (string, bool) {
	if !t.IsLink() {
		return "", false
	}
	switch table {
	case t.Class.A:
		return t.Class.B, true
	case t.Class.B:
		return t.Class.A, true
	default:
		return "", false
	}
}
