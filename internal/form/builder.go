package form

import (
	"context"
	"strconv"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/model"
	"github.com/hlop3z/linkdb/internal/strutil"
	"github.com/hlop3z/linkdb/internal/types"
)

// Option configures a Builder.
type Option func(*Builder)

// WithName sets the form's name attribute.
func WithName(name string) Option {
	return func(b *Builder) {
		b.name = name
	}
}

// WithTitles shows or hides the table title above each section.
func WithTitles(show bool) Option {
	return func(b *Builder) {
		b.titles = show
	}
}

// WithClass sets the CSS class for one element kind: "table" (a section),
// "input", "textarea" or "select".
func WithClass(kind, class string) Option {
	return func(b *Builder) {
		b.classes[kind] = class
	}
}

type entry struct {
	table *model.Table
	id    int64
}

// Builder collects the tables and links of one form. A Builder is used
// for a single render and is not safe for concurrent use.
type Builder struct {
	env     *model.Env
	entries []entry
	links   []entry
	name    string
	titles  bool
	classes map[string]string
}

// NewBuilder creates a Builder.
func NewBuilder(env *model.Env, opts ...Option) *Builder {
	b := &Builder{
		env:     env,
		name:    "linkdb",
		titles:  true,
		classes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddTable adds a section for table. id 0 renders a new row; any other id
// edits that row.
func (b *Builder) AddTable(name string, id int64) error {
	t, err := b.env.Catalog.DataTable(name)
	if err != nil {
		return err
	}
	if id < 0 {
		return invalidRowID(name, id)
	}
	b.entries = append(b.entries, entry{table: t, id: id})
	return nil
}

// AddTables adds several sections. ids may be nil (all new rows); otherwise
// it must be as long as names.
func (b *Builder) AddTables(names []string, ids []int64) error {
	if ids != nil && len(ids) != len(names) {
		return alerr.Newf(alerr.ErrFormTableCount, "%d tables but %d ids", len(names), len(ids)).
			WithArgs(strconv.Itoa(len(names)), strconv.Itoa(len(ids)))
	}
	for i, name := range names {
		var id int64
		if ids != nil {
			id = ids[i]
		}
		if err := b.AddTable(name, id); err != nil {
			return err
		}
	}
	return nil
}

// AddLink records a pre-existing row that every row inserted by the form
// will be linked to.
func (b *Builder) AddLink(name string, id int64) error {
	t, err := b.env.Catalog.DataTable(name)
	if err != nil {
		return err
	}
	if id <= 0 {
		return invalidRowID(name, id)
	}
	b.links = append(b.links, entry{table: t, id: id})
	return nil
}

// AddRowWithLinks adds a section editing the row and one section for every
// row linked to it.
func (b *Builder) AddRowWithLinks(ctx context.Context, name string, id int64) error {
	if err := b.AddTable(name, id); err != nil {
		return err
	}
	links, err := b.env.GetLinks(ctx, name, id)
	if err != nil {
		return err
	}
	for _, set := range links {
		for _, lid := range set.IDs {
			if err := b.AddTable(set.Table, lid); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build renders the collected tables. Existing rows are read to fill the
// widgets; a row that does not exist fails with ErrInvalidRowID.
func (b *Builder) Build(ctx context.Context, action string) (*Form, error) {
	f := &Form{Name: b.name, Action: action}
	seen := make(map[string]int)

	for _, e := range b.entries {
		t := e.table
		name := EntryName(t.Name, seen[t.Name])
		seen[t.Name]++

		var row model.Record
		if e.id != 0 {
			var err error
			row, err = b.env.GetRow(ctx, t.Name, e.id)
			if err != nil {
				return nil, err
			}
			if len(row) == 0 {
				return nil, invalidRowID(t.Name, e.id)
			}
		}

		sec := Section{Entry: name, Table: t.Name, ID: e.id, Class: b.classes["table"]}
		if b.titles {
			sec.Title = t.ExternalName
		}
		for _, c := range t.Columns() {
			if c.Name == t.PrimaryKey || c.IsTimestamp() {
				continue
			}
			sec.Fields = append(sec.Fields, b.field(t, c, row))
		}
		f.Sections = append(f.Sections, sec)

		f.Hidden = append(f.Hidden, Hidden{Name: FieldTables, Value: name})
		if e.id != 0 {
			f.Hidden = append(f.Hidden, Hidden{Name: strutil.IDField(name), Value: strconv.FormatInt(e.id, 10)})
		}
	}

	for _, l := range b.links {
		f.Hidden = append(f.Hidden,
			Hidden{Name: FieldLinkTables, Value: l.table.Name},
			Hidden{Name: FieldLinkIDs, Value: strconv.FormatInt(l.id, 10)},
		)
	}

	qualify(f)

	f.Controls = []Control{
		{Kind: "submit", Label: "Save"},
		{Kind: "cancel", Label: "Cancel"},
	}
	return f, nil
}

func (b *Builder) field(t *model.Table, c *model.Column, row model.Record) Field {
	fld := Field{
		Name:     c.Name,
		Label:    c.ExternalName,
		Column:   c.Name,
		Type:     c.Type,
		Widget:   c.Type.Widget(),
		Value:    row[c.Name],
		Required: c.Required,
		Size:     c.Size,
		Hint:     c.Type.Def().Hint,
	}

	if c.Name == b.env.OwnerKey && b.env.Owned(t) {
		fld.Widget = types.WidgetHidden
		fld.Required = false
		if fld.Value == "" {
			fld.Value = b.env.Principal.ID
		}
		return fld
	}

	if fld.Widget == types.WidgetSelect {
		fld.Options = append([]string{""}, c.Enum...)
	}
	fld.Class = b.classes[fld.Widget.String()]
	return fld
}

// qualify renames fields whose plain column name is used by more than one
// section or clashes with a bookkeeping field.
func qualify(f *Form) {
	reserved := map[string]bool{
		FieldTables:     true,
		FieldLinkTables: true,
		FieldLinkIDs:    true,
	}
	for _, s := range f.Sections {
		reserved[strutil.IDField(s.Entry)] = true
	}

	uses := make(map[string]int)
	for _, s := range f.Sections {
		for _, fld := range s.Fields {
			uses[fld.Name]++
		}
	}

	for i := range f.Sections {
		s := &f.Sections[i]
		for j := range s.Fields {
			fld := &s.Fields[j]
			if uses[fld.Name] > 1 || reserved[fld.Name] {
				fld.Name = strutil.QualifiedField(s.Entry, fld.Column)
			}
		}
	}
}

func invalidRowID(table string, id int64) *alerr.Error {
	return alerr.Newf(alerr.ErrInvalidRowID, "no row %d in table '%s'", id, table).
		WithTable(table).
		With("id", id).
		WithArgs(strconv.FormatInt(id, 10), table)
}
