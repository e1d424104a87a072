package form

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/model"
	"github.com/hlop3z/linkdb/internal/sqlgen"
	"github.com/hlop3z/linkdb/internal/strutil"
	"github.com/hlop3z/linkdb/internal/types"
)

// Entry is one submitted table section.
type Entry struct {
	Name  string // entry name, e.g. "author[1]"
	Table string
	ID    int64 // 0 inserts a new row
}

// Link is a pre-existing row that inserted rows are linked to.
type Link struct {
	Table string
	ID    int64
}

// Submission is a parsed form post.
type Submission struct {
	Entries []Entry
	Links   []Link
	values  url.Values
}

// ParseSubmission reads the bookkeeping fields of a form post. Table names
// are not resolved here; Process does that against the catalog.
func ParseSubmission(v url.Values) (*Submission, error) {
	names := multi(v, FieldTables)

	s := &Submission{values: v}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		e := Entry{Name: name, Table: EntryTable(name)}
		if raw := strings.TrimSpace(v.Get(strutil.IDField(name))); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return nil, alerr.Newf(alerr.ErrInvalidRowID, "'%s' is not a row id", raw).
					WithTable(e.Table).
					With("value", raw).
					WithArgs(raw, e.Table)
			}
			e.ID = id
		}
		s.Entries = append(s.Entries, e)
	}
	// blank names are dropped above, so check what is left
	if len(s.Entries) == 0 {
		return nil, alerr.New(alerr.ErrRequiredField, "the submission names no tables").
			WithColumn(FieldTables).
			WithArgs(FieldTables)
	}

	tables, ids := multi(v, FieldLinkTables), multi(v, FieldLinkIDs)
	if len(tables) != len(ids) {
		return nil, alerr.Newf(alerr.ErrFormTableCount, "%d link tables but %d link ids", len(tables), len(ids)).
			WithArgs(strconv.Itoa(len(tables)), strconv.Itoa(len(ids)))
	}
	for i, table := range tables {
		id, err := strconv.ParseInt(strings.TrimSpace(ids[i]), 10, 64)
		if err != nil || id <= 0 {
			return nil, alerr.Newf(alerr.ErrInvalidRowID, "'%s' is not a row id", ids[i]).
				WithTable(table).
				With("value", ids[i]).
				WithArgs(ids[i], table)
		}
		s.Links = append(s.Links, Link{Table: strings.TrimSpace(table), ID: id})
	}

	return s, nil
}

// multi returns the values of a multi-valued field, accepting both "name"
// and "name[]".
func multi(v url.Values, name string) []string {
	return append(append([]string(nil), v[name]...), v[name+"[]"]...)
}

// Value returns the submitted value of column for an entry, preferring the
// qualified "<entry>.<column>" field over the plain column name.
func (s *Submission) Value(entry, column string) (string, bool) {
	if vs, ok := s.values[strutil.QualifiedField(entry, column)]; ok && len(vs) > 0 {
		return vs[0], true
	}
	if vs, ok := s.values[column]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// Row is one row written by Process.
type Row struct {
	Entry    string `json:"entry"`
	Table    string `json:"table"`
	ID       int64  `json:"id"`
	Inserted bool   `json:"inserted"`
}

// JunctionRow is one junction row written by Process.
type JunctionRow struct {
	Junction string    `json:"junction"`
	Tables   [2]string `json:"tables"`
	IDs      [2]int64  `json:"ids"`
	Explicit bool      `json:"explicit"`
}

// Result reports what Process wrote.
type Result struct {
	Rows  []Row         `json:"rows"`
	Links []JunctionRow `json:"links"`

	inserted map[string]int64
}

// Inserted returns the id of the first row inserted into table.
func (r *Result) Inserted(table string) (int64, bool) {
	id, ok := r.inserted[table]
	return id, ok
}

// Process validates and writes every entry of the submission in order,
// then links the rows it inserted.
//
// Each entry is validated completely before its statement runs. Nothing is
// wrapped in a transaction: when an entry fails, rows written for earlier
// entries stay written and the error is returned together with the partial
// Result.
//
// Implicit links join two tables that were both inserted by this
// submission. Only the first inserted row of each table is considered and
// each junction is filled at most once, by the first pair found. Explicit
// links join every inserted row to every linked row its table has a
// junction with.
func Process(ctx context.Context, env *model.Env, sub *Submission) (*Result, error) {
	res := &Result{inserted: make(map[string]int64)}

	tables := make([]*model.Table, len(sub.Entries))
	for i, e := range sub.Entries {
		t, err := env.Catalog.Table(e.Table)
		if err != nil {
			return res, err
		}
		if !t.IsData() {
			return res, alerr.Newf(alerr.ErrInvalidTableInForm, "'%s' is a link table and cannot be submitted", t.Name).
				WithTable(t.Name).
				WithArgs(t.Name)
		}
		tables[i] = t
	}
	links := make([]*model.Table, len(sub.Links))
	for i, l := range sub.Links {
		t, err := env.Catalog.DataTable(l.Table)
		if err != nil {
			return res, err
		}
		links[i] = t
	}

	var order []string
	for i, e := range sub.Entries {
		id, err := write(ctx, env, sub, e, tables[i])
		if err != nil {
			return res, err
		}
		res.Rows = append(res.Rows, Row{Entry: e.Name, Table: e.Table, ID: id, Inserted: e.ID == 0})
		if e.ID == 0 {
			if _, ok := res.inserted[e.Table]; !ok {
				res.inserted[e.Table] = id
				order = append(order, e.Table)
			}
		}
	}

	// Implicit links
	completed := make(map[string]bool)
	for _, name := range order {
		t, _ := env.Catalog.Table(name)
		for _, jname := range t.Links() {
			if completed[jname] {
				continue
			}
			j, _ := env.Catalog.Table(jname)
			other, _ := j.Other(name)
			otherID, ok := res.inserted[other]
			if !ok {
				continue
			}
			row, err := link(ctx, env, j, name, res.inserted[name], other, otherID)
			if err != nil {
				return res, err
			}
			res.Links = append(res.Links, row)
			completed[jname] = true
		}
	}

	// Explicit links
	for _, name := range order {
		for i, l := range sub.Links {
			j, ok := env.Catalog.Junction(name, links[i].Name)
			if !ok {
				continue
			}
			row, err := link(ctx, env, j, name, res.inserted[name], l.Table, l.ID)
			if err != nil {
				return res, err
			}
			row.Explicit = true
			res.Links = append(res.Links, row)
		}
	}

	env.Log().Info("form processed",
		"rows", len(res.Rows),
		"inserted", len(order),
		"links", len(res.Links),
	)
	return res, nil
}

// write inserts or updates the row of one entry and returns its id.
func write(ctx context.Context, env *model.Env, sub *Submission, e Entry, t *model.Table) (int64, error) {
	var cols []string
	var vals []any

	owned := env.Owned(t)
	for _, c := range t.Columns() {
		if c.Name == t.PrimaryKey || c.IsTimestamp() {
			continue
		}
		if owned && c.Name == env.OwnerKey {
			if e.ID == 0 {
				cols = append(cols, c.Name)
				vals = append(vals, env.Principal.ID)
			}
			continue
		}

		raw, present := sub.Value(e.Name, c.Name)
		if c.Required && strings.TrimSpace(raw) == "" {
			return 0, alerr.Newf(alerr.ErrRequiredField, "required field '%s' is missing", c.ExternalName).
				WithTable(t.Name).
				WithColumn(c.Name).
				WithArgs(c.ExternalName)
		}
		if !present {
			continue
		}

		v, err := c.Type.ToStorage(raw, c.Enum)
		if err != nil {
			return 0, fieldErr(err, t, c)
		}
		cols = append(cols, c.Name)
		vals = append(vals, v)
	}

	now := types.StorageNow(env.Clock())
	if e.ID == 0 && t.HasColumn(model.DateAdded) {
		cols = append(cols, model.DateAdded)
		vals = append(vals, now)
	}
	if t.HasColumn(model.DateUpdated) {
		cols = append(cols, model.DateUpdated)
		vals = append(vals, now)
	}

	b := sqlgen.New(env.Exec.Dialect())
	if e.ID == 0 {
		query, args := b.InsertInto(t.Name, cols, vals).Returning(t.PrimaryKey).Build()
		id, err := env.Exec.InsertID(ctx, query, args...)
		if err != nil {
			return 0, withTable(err, t.Name)
		}
		env.Log().Debug("row inserted", "table", t.Name, "id", id)
		return id, nil
	}

	if len(cols) == 0 {
		return e.ID, nil
	}
	conds := []sqlgen.Cond{sqlgen.Eq(t.PrimaryKey, e.ID)}
	if owned {
		conds = append(conds, sqlgen.Eq(env.OwnerKey, env.Principal.ID))
	}
	query, args := b.Update(t.Name).Set(cols, vals).Where(conds...).Build()
	r, err := env.Exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, withTable(err, t.Name)
	}
	if r.RowsAffected == 0 {
		return 0, alerr.Newf(alerr.ErrNoRowsAffected, "update of row %d in table '%s' changed nothing", e.ID, t.Name).
			WithTable(t.Name).
			With("id", e.ID).
			WithArgs(t.Name)
	}
	env.Log().Debug("row updated", "table", t.Name, "id", e.ID)
	return e.ID, nil
}

// link inserts one junction row.
func link(ctx context.Context, env *model.Env, j *model.Table, a string, aID int64, b string, bID int64) (JunctionRow, error) {
	ka, _ := env.Catalog.Table(a)
	kb, _ := env.Catalog.Table(b)

	query, args := sqlgen.New(env.Exec.Dialect()).
		InsertInto(j.Name, []string{ka.PrimaryKey, kb.PrimaryKey}, []any{aID, bID}).
		Build()
	if _, err := env.Exec.Exec(ctx, query, args...); err != nil {
		return JunctionRow{}, withTable(err, j.Name)
	}
	env.Log().Debug("rows linked", "junction", j.Name, a, aID, b, bID)
	return JunctionRow{Junction: j.Name, Tables: [2]string{a, b}, IDs: [2]int64{aID, bID}}, nil
}

func fieldErr(err error, t *model.Table, c *model.Column) error {
	ae, ok := err.(*alerr.Error)
	if !ok {
		return err
	}
	value, _ := ae.GetContext()["value"].(string)
	return ae.WithTable(t.Name).WithColumn(c.Name).WithArgs(c.ExternalName, value)
}

func withTable(err error, table string) error {
	if ae, ok := err.(*alerr.Error); ok {
		return ae.WithTable(table)
	}
	return err
}
