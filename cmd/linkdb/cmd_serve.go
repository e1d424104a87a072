package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hlop3z/linkdb/internal/cli"
)

const shutdownTimeout = 5 * time.Second

// serveCmd starts the HTML and JSON server and shuts it down gracefully on
// SIGINT or SIGTERM.
func serveCmd() *cobra.Command {
	var (
		addr   string
		header string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTML and JSON server",
		Example: `  linkdb serve --addr :8080
  linkdb serve --principal-header X-Forwarded-User`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			client, cfg, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("principal-header") {
				cfg.Server.PrincipalHeader = header
			}
			srv := client.Server(cfg.Server).HTTPServer()

			errc := make(chan error, 1)
			go func() {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatNote("listening on "+srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err, ok := <-errc:
				if ok {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatNote("shutting down"))
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "Listen address")
	f.StringVar(&header, "principal-header", "X-User-ID", "Request header carrying the authenticated user id")
	f.BoolVar(&debug, "debug", false, "Run gin in debug mode")
	return cmd
}
