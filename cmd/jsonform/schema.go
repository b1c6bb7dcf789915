package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsonform/pkg/openapi"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema [form]",
	Short: "Print the OpenAPI contract of the forms",
	Long: `Print the OpenAPI document of every form, or the value schema of one
form when its name is given.

Examples:
  jsonform schema
  jsonform schema contact --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "json", "output format (json, yaml)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srv, err := newOfflineServer(cfg)
	if err != nil {
		return err
	}

	var doc any
	if len(args) == 1 {
		svc, err := srv.Forms().Get(args[0])
		if err != nil {
			return err
		}
		f, err := svc.Form(nil)
		if err != nil {
			return err
		}
		doc = openapi.Schema(f)
	} else {
		if doc, err = srv.Document(); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	switch schemaFormat {
	case "json":
	case "yaml":
		// Round trip through a generic value so yaml sees the JSON field names.
		var generic any
		if err := json.Unmarshal(out, &generic); err != nil {
			return err
		}
		if out, err = yaml.Marshal(generic); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", schemaFormat)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
