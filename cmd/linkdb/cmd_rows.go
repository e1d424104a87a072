package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/linkdb/internal/cli"
)

// rowsCmd lists the rows of a table.
func rowsCmd() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "rows <table>",
		Short: "List the rows of a table",
		Example: `  linkdb rows book
  linkdb rows book --where format=paperback
  linkdb rows book --as 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseAssignments("--where", where)
			if err != nil {
				return err
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			l, err := client.Rows(cmd.Context(), args[0], filter)
			if err != nil {
				return client.Describe(err)
			}

			out := cli.Default()
			if out.IsJSON() {
				return out.Emit("", l)
			}
			fmt.Fprint(out.Writer, cli.ListingTable(l).String())
			fmt.Fprintln(out.Writer, cli.Dim(cli.FormatCount(len(l.Rows), "row", "rows")))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality filter column=value (repeatable)")
	return cmd
}

// showCmd prints one row as a label/value view.
func showCmd() *cobra.Command {
	var withLinks bool

	cmd := &cobra.Command{
		Use:   "show <table> <id>",
		Short: "Show one row, optionally followed by its linked rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if _, err := client.Row(cmd.Context(), args[0], id); err != nil {
				return client.Describe(err)
			}
			entries, err := client.View(cmd.Context(), args[0], id, withLinks)
			if err != nil {
				return client.Describe(err)
			}

			out := cli.Default()
			if out.IsJSON() {
				return out.Emit("", entries)
			}
			fmt.Fprint(out.Writer, cli.FormatEntries(entries))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withLinks, "links", "l", false, "Also show every linked row")
	return cmd
}

// linksCmd prints the rows linked to one row, grouped by junction.
func linksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links <table> <id>",
		Short: "Show the rows linked to one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			sets, err := client.Links(cmd.Context(), args[0], id)
			if err != nil {
				return client.Describe(err)
			}

			out := cli.Default()
			if out.IsJSON() {
				return out.Emit("", sets)
			}
			fmt.Fprint(out.Writer, cli.FormatLinks(sets))
			return nil
		},
	}
}

// deleteCmd deletes a row together with its junction rows and linked rows.
func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a row, its links and every row linked to it",
		Long: `Delete a row, its links and every row linked to it.

Linked rows are deleted too, not only the junction rows that point at them.
Use --yes to confirm.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}
			if !yes {
				return usagef("deleting %s %d also deletes every row linked to it; pass --yes to confirm", args[0], id)
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Delete(cmd.Context(), args[0], id); err != nil {
				return client.Describe(err)
			}
			return cli.Default().Emit(
				cli.FormatSuccess(fmt.Sprintf("deleted %s %d and its linked rows", args[0], id)),
				map[string]any{"table": args[0], "id": id, "deleted": true},
			)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the delete")
	return cmd
}

// parseAssignments splits column=value flags.
func parseAssignments(flag string, raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, usagef("%s expects column=value, got '%s'", flag, kv)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
