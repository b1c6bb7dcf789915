package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/prompt"
)

var (
	promptLocale string
	promptFormat string
	promptRemote string
	promptSubmit bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt <form>",
	Short: "Fill a form in the terminal",
	Long: `Ask for every element of a form and print the collected values.

The descriptor is rendered from the local definitions, or fetched from a
running server with --remote. With --remote, autocomplete elements look up
suggestions on the server and --submit posts the answers to the form action.

Examples:
  jsonform prompt contact
  jsonform prompt contact --format form
  jsonform prompt contact --remote http://localhost:8080 --submit`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringVarP(&promptLocale, "locale", "l", "", "label locale")
	promptCmd.Flags().StringVarP(&promptFormat, "format", "f", "json", "output format (json, form, pretty)")
	promptCmd.Flags().StringVar(&promptRemote, "remote", "", "base URL of a running jsonform server")
	promptCmd.Flags().BoolVar(&promptSubmit, "submit", false, "submit the answers to the form action")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	if promptSubmit && promptRemote == "" {
		return fmt.Errorf("--submit requires --remote")
	}
	switch prompt.Format(promptFormat) {
	case prompt.FormatJSON, prompt.FormatForm, prompt.FormatPretty:
	default:
		return fmt.Errorf("unknown format %q", promptFormat)
	}

	opts := []prompt.Option{prompt.WithFormat(prompt.Format(promptFormat))}
	var desc *element.Descriptor
	if promptRemote != "" {
		client := &http.Client{Timeout: 30 * time.Second}
		opts = append(opts, prompt.WithHTTPClient(client), prompt.WithBaseURL(promptRemote))

		fetched, err := fetchDescriptor(cmd, client, args[0])
		if err != nil {
			return err
		}
		desc = fetched
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		srv, err := newOfflineServer(cfg)
		if err != nil {
			return err
		}
		if desc, err = srv.Describe(cmd.Context(), args[0], promptLocale); err != nil {
			return err
		}
	}

	client := prompt.New(opts...)
	values, err := client.Run(cmd.Context(), desc)
	if err != nil {
		return err
	}

	out, err := prompt.Encode(prompt.Format(promptFormat), desc.StringValue("name"), values)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))

	if !promptSubmit {
		return nil
	}
	resp, err := client.Submit(cmd.Context(), desc, values, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "submitted: %d\n%s\n", resp.Status, resp.Body)
	if resp.Status >= http.StatusBadRequest {
		return fmt.Errorf("submission rejected with status %d", resp.Status)
	}
	return nil
}

func fetchDescriptor(cmd *cobra.Command, client *http.Client, name string) (*element.Descriptor, error) {
	target := strings.TrimRight(promptRemote, "/") + "/forms/" + name
	if promptLocale != "" {
		target += "?locale=" + promptLocale
	}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch form %q: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch form %q: status %d", name, resp.StatusCode)
	}

	desc := element.NewDescriptor()
	if err := json.NewDecoder(resp.Body).Decode(desc); err != nil {
		return nil, fmt.Errorf("decode form %q: %w", name, err)
	}
	return desc, nil
}
