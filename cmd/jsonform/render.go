package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/pkg/render"
)

var (
	renderLocale string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render <form>",
	Short: "Print the rendered descriptor of a form",
	Long: `Render a form with its definition defaults and print the descriptor.

Formats:
  json     The descriptor itself (default)
  values   The initial value bag the descriptor seeds a client with

Examples:
  jsonform render contact
  jsonform render contact --locale nb --format values`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderLocale, "locale", "l", "", "label locale")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "json", "output format (json, values)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srv, err := newOfflineServer(cfg)
	if err != nil {
		return err
	}

	renderer, err := render.DefaultRegistry(true).Resolve(renderFormat)
	if err != nil {
		return err
	}
	desc, err := srv.Describe(cmd.Context(), args[0], renderLocale)
	if err != nil {
		return err
	}
	out, err := renderer.Render(cmd.Context(), desc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
