package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/internal/config"
	"github.com/goliatone/go-jsonform/internal/server"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsonform",
	Short: "Schema driven forms rendered as JSON descriptors",
	Long: `jsonform serves form definitions as JSON descriptors a frontend
renders, and binds submissions back into typed values.

Quick start:
  jsonform serve             # Start the HTTP server
  jsonform render contact    # Print the contact form descriptor
  jsonform schema            # Print the OpenAPI contract of every form
  jsonform prompt contact    # Fill the contact form in the terminal`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "jsonform.yaml", "config file path")
}

// loadConfig reads --config when the file exists, JSONFORM_* variables
// otherwise.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newOfflineServer loads the forms without serving them, for commands that
// print to the terminal. Logs go to stderr so stdout stays parseable.
func newOfflineServer(cfg *config.Config) (*server.Server, error) {
	logger := server.NewLogger(cfg.Logging, os.Stderr).Level(zerolog.WarnLevel)
	return server.New(cfg, server.WithLogger(logger))
}
