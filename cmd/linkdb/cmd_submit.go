package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/linkdb/internal/cli"
	"github.com/hlop3z/linkdb/internal/form"
	"github.com/hlop3z/linkdb/internal/strutil"
	"github.com/hlop3z/linkdb/pkg/linkdb"
)

// linkList is a repeatable --link table:id flag.
type linkList []form.Link

var _ pflag.Value = (*linkList)(nil)

func (l *linkList) String() string {
	parts := make([]string, len(*l))
	for i, link := range *l {
		parts[i] = link.String()
	}
	return strings.Join(parts, ",")
}

func (l *linkList) Set(s string) error {
	link, err := form.ParseLink(s)
	if err != nil {
		return err
	}
	*l = append(*l, link)
	return nil
}

func (l *linkList) Type() string {
	return "table:id"
}

// submitCmd posts a submission built from flags, exactly as the HTML form
// would.
func submitCmd() *cobra.Command {
	var (
		tables []string
		ids    []string
		sets   []string
		links  linkList
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Insert or update rows and link them",
		Long: `Insert or update rows and link them.

Each --table adds a section; repeat a table to insert several of its rows
and refer to later occurrences as table[1], table[2]. Fields are set with
--set column=value, or --set entry.column=value when a column name is shared.
Rows inserted together are linked when a link table joins their tables;
--link table:id links every inserted row to an existing row.`,
		Example: `  linkdb submit -t book -s title=Dune -s published=08-01-1965 --link author:7
  linkdb submit -t book -t author -s title=Dune -s name="Frank Herbert"
  linkdb submit -t book --id book=3 -s title="Dune Messiah"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := submission(tables, ids, sets, links)
			if err != nil {
				return err
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Submit(cmd.Context(), values)
			if err != nil {
				if res != nil && len(res.Rows) > 0 {
					w := cmd.ErrOrStderr()
					fmt.Fprint(w, cli.FormatWarning(fmt.Sprintf("%s written before the failure",
						cli.FormatCount(len(res.Rows), "row was", "rows were"))))
					list := resultList(res)
					list.AddError("remaining sections were not written")
					fmt.Fprint(w, list.String())
				}
				return client.Describe(err)
			}

			out := cli.Default()
			if out.IsJSON() {
				return out.Emit("", res)
			}
			fmt.Fprint(out.Writer, resultList(res).String())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&tables, "table", "t", nil, "Table section to submit (repeatable)")
	f.StringArrayVar(&ids, "id", nil, "Update instead of insert: entry=id (repeatable)")
	f.StringArrayVarP(&sets, "set", "s", nil, "Field value: column=value or entry.column=value (repeatable)")
	f.VarP(&links, "link", "l", "Link inserted rows to an existing row (repeatable)")
	return cmd
}

func resultList(res *linkdb.Result) *cli.List {
	list := cli.NewList()
	for _, r := range res.Rows {
		verb := "updated"
		if r.Inserted {
			verb = "inserted"
		}
		list.AddSuccess(fmt.Sprintf("%s %s %d", verb, r.Table, r.ID))
	}
	for _, j := range res.Links {
		list.AddInfo(fmt.Sprintf("linked %s %d ↔ %s %d (%s)", j.Tables[0], j.IDs[0], j.Tables[1], j.IDs[1], j.Junction))
	}
	return list
}

// submission encodes the flags in the form wire format.
func submission(tables, ids, sets []string, links linkList) (url.Values, error) {
	if len(tables) == 0 {
		return nil, usagef("at least one --table is required")
	}

	v := url.Values{}
	seen := map[string]int{}
	for _, t := range tables {
		v.Add(form.FieldTables, form.EntryName(t, seen[t]))
		seen[t]++
	}

	idMap, err := parseAssignments("--id", ids)
	if err != nil {
		return nil, err
	}
	for entry, raw := range idMap {
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, usagef("--id %s=%s: '%s' is not a row id", entry, raw, raw)
		}
		v.Set(strutil.IDField(entry), raw)
	}

	fields, err := parseAssignments("--set", sets)
	if err != nil {
		return nil, err
	}
	for k, val := range fields {
		v.Set(k, val)
	}

	for _, l := range links {
		v.Add(form.FieldLinkTables, l.Table)
		v.Add(form.FieldLinkIDs, strconv.FormatInt(l.ID, 10))
	}
	return v, nil
}
