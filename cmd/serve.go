package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hmans/library/internal/graph"
	"github.com/hmans/library/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST)
  - GraphQL Playground at /graphql (GET) for interactive queries

Examples:
  # Start server on the configured port (default 3000)
  library serve

  # Start server on a custom port
  library serve --port 4000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		return runServer()
	},
}

func runServer() error {
	schema, err := graph.NewSchema(newResolver())
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}

	srv := server.New(schema, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, srv, logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
