// Package form renders data tables into editable field sets and processes
// the submitted values: validation, type conversion, insert or update of
// every submitted row, and creation of the junction rows that link them.
//
// Wire format of a submission:
//
//	tables          one value per submitted entry: "book", "author", "author[1]"
//	<entry>_id      present when the entry edits an existing row
//	link_tables     table of each pre-existing row to link new rows to
//	link_ids        id of each pre-existing row, parallel to link_tables
//	<column>        column value; "<entry>.<column>" when the plain name is ambiguous
//
// An entry is the table name for its first occurrence in a form and
// "<table>[n]" for later ones, so one form can hold several new rows of the
// same table.
package form

import (
	"strconv"
	"strings"

	"github.com/hlop3z/linkdb/internal/types"
)

// Reserved field names.
const (
	FieldTables     = "tables"
	FieldLinkTables = "link_tables"
	FieldLinkIDs    = "link_ids"
)

// Field is one editable (or hidden) column of a section.
type Field struct {
	Name     string // wire name
	Label    string
	Column   string
	Type     types.Semantic
	Widget   types.Widget
	Value    string
	Options  []string // select options, blank first
	Required bool
	Size     int
	Hint     string
	Class    string
}

// Selected reports whether option is the field's current value.
func (f Field) Selected(option string) bool {
	return f.Value == option
}

// Section is the field set of one table entry.
type Section struct {
	Entry  string
	Table  string
	Title  string // empty when titles are hidden
	ID     int64  // 0 for a new row
	Class  string
	Fields []Field
}

// Hidden is a bookkeeping field.
type Hidden struct {
	Name  string
	Value string
}

// Control is a submit or cancel button.
type Control struct {
	Kind  string // "submit" or "cancel"
	Label string
}

// Form is a rendered, presentation-neutral form.
type Form struct {
	Name     string
	Action   string
	Sections []Section
	Hidden   []Hidden
	Controls []Control
}

// Values returns the field values the form would post unchanged.
func (f *Form) Values() map[string][]string {
	v := make(map[string][]string)
	for _, h := range f.Hidden {
		v[h.Name] = append(v[h.Name], h.Value)
	}
	for _, s := range f.Sections {
		for _, fld := range s.Fields {
			v[fld.Name] = append(v[fld.Name], fld.Value)
		}
	}
	return v
}

// EntryName returns the entry name of the n-th (0-based) occurrence of table.
func EntryName(table string, n int) string {
	if n == 0 {
		return table
	}
	return table + "[" + strconv.Itoa(n) + "]"
}

// EntryTable returns the table an entry name refers to.
func EntryTable(entry string) string {
	if i := strings.IndexByte(entry, '['); i > 0 && strings.HasSuffix(entry, "]") {
		return entry[:i]
	}
	return entry
}
