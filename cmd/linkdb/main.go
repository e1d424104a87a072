// Package main provides the linkdb command line tool.
// linkdb reads a relational database whose tables follow a small naming
// convention, infers which tables hold data and which link two data tables,
// and serves or edits rows together with their links.
//
// Usage:
//
//	linkdb check                         # Classify every table, fail on convention errors
//	linkdb schema                        # Print the inferred catalog (YAML, or JSON with --json)
//	linkdb rows <table> [--where c=v]    # List rows
//	linkdb show <table> <id> [--links]   # Show one row, optionally with linked rows
//	linkdb links <table> <id>            # Show the rows linked to one row
//	linkdb submit --table T --set c=v    # Insert or update rows and link them
//	linkdb delete <table> <id>           # Delete a row, its links and linked rows
//	linkdb serve                         # Start the HTML and JSON server
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hlop3z/linkdb/internal/cli"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "linkdb",
		Short:         "Browse and edit linked rows of a relational database",
		Long:          `linkdb infers data tables and link tables from a database schema and reads, writes and deletes rows together with their links.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				cfg := *cli.Default()
				cfg.Mode = cli.ModeJSON
				cli.SetDefault(&cfg)
			}
		},
	}
	addGlobalFlags(cmd)

	cmd.AddCommand(
		checkCmd(),
		schemaCmd(),
		rowsCmd(),
		showCmd(),
		linksCmd(),
		submitCmd(),
		deleteCmd(),
		serveCmd(),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(os.Stderr, cli.Error("error")+": "+usage.Error())
		os.Exit(2)
	}
	fmt.Fprint(os.Stderr, cli.FormatError(err))
	stop()
	os.Exit(cli.ExitCode(err))
}

// usageError is a malformed command line, as opposed to a failed operation.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
