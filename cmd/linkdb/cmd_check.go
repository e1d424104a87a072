package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/linkdb/internal/cli"
	"github.com/hlop3z/linkdb/pkg/linkdb"
)

// checkCmd loads the catalog and reports how every table was classified.
// Loading fails on the first table that breaks the naming conventions.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Classify every table and validate the naming conventions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			infos := client.Tables()
			out := cli.Default()
			if out.IsJSON() {
				return out.Emit("", map[string]any{"valid": true, "tables": infos})
			}

			table := cli.NewTable("TABLE", "KIND", "KEY", "LINKS")
			data, links := 0, 0
			for _, info := range infos {
				t, err := client.Table(info.Name)
				if err != nil {
					return err
				}
				if t.IsLink() {
					links++
					table.AddRow(info.Name, info.Kind, "", t.Class.A+" ↔ "+t.Class.B)
					continue
				}
				data++
				table.AddRow(info.Name, info.Kind, info.PrimaryKey, strings.Join(info.Links, ", "))
			}

			fmt.Fprint(out.Writer, table.String())
			fmt.Fprintln(out.Writer)
			fmt.Fprint(out.Writer, cli.FormatSuccess(fmt.Sprintf("%s: %s, %s",
				cli.FormatCount(len(infos), "table", "tables"),
				cli.FormatCount(data, "data table", "data tables"),
				cli.FormatCount(links, "link table", "link tables"),
			)))
			return nil
		},
	}
}

// schemaCmd prints the inferred catalog.
func schemaCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the inferred catalog as YAML (or JSON with --json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			infos := client.Tables()
			if table != "" {
				t, err := client.Table(table)
				if err != nil {
					return err
				}
				infos = []linkdb.TableInfo{t.Info()}
			}
			return emitYAML(infos)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "Describe only this table")
	return cmd
}
