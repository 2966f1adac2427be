package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-riskform/pkg/schema"
)

type schemaReport struct {
	Source   schema.Source `json:"source"`
	Location string        `json:"location,omitempty"`
	Fallback bool          `json:"fallback"`
	Features []string      `json:"features"`
}

func (a *app) newSchemaCommand() *cobra.Command {
	var (
		asJSON       bool
		writeSidecar string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the resolved feature order and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			resolved := orch.Schema()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(schemaReport{
					Source:   resolved.Source(),
					Location: resolved.Location(),
					Fallback: resolved.Fallback(),
					Features: resolved.Features(),
				}); err != nil {
					return fmt.Errorf("schema: encode: %w", err)
				}
			} else {
				source := string(resolved.Source())
				if loc := resolved.Location(); loc != "" {
					source += " (" + loc + ")"
				}
				fmt.Fprintf(out, "source: %s\n", source)
				if resolved.Fallback() {
					fmt.Fprintln(out, "warning: declared catalog order, not confirmed by the model")
				}
				for i, name := range resolved.Features() {
					fmt.Fprintf(out, "%2d  %s\n", i, name)
				}
			}

			if path := strings.TrimSpace(writeSidecar); path != "" {
				if err := schema.WriteSidecar(path, resolved); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&writeSidecar, "write-sidecar", "", "persist the resolved order to this sidecar file")
	return cmd
}
