package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/internal/server"
)

var (
	watchDefinitions bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the form server",
	Long: `Start the jsonform HTTP server.

Routes:
  GET  /forms                   Form names
  GET  /forms/{form}            Rendered descriptor (?locale=, ?format=json|values)
  GET  /forms/{form}/schema     OpenAPI schema of the submitted values
  *    /forms/{form}/submit     Bind a submission, echo the bound values
  GET  /autocomplete/{source}   Lookup suggestions
  GET  /openapi.json            OpenAPI document of every form
  GET  /healthz                 Health check

Examples:
  jsonform serve
  jsonform serve --config /etc/jsonform/config.yaml --watch`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&watchDefinitions, "watch", false, "reload definitions when files change")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDefinitions {
		cfg.Definitions.Watch = true
	}

	logger := server.NewLogger(cfg.Logging, os.Stdout)
	opts := []server.Option{server.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(metrics.New()))
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return err
	}

	if cfg.Definitions.Watch {
		if cfg.Definitions.Dir == "" {
			return fmt.Errorf("--watch requires definitions.dir")
		}
		watcher, err := srv.Watch()
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
