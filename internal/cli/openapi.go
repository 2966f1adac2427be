package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-riskform/pkg/openapi"
)

func (a *app) newOpenAPICommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the prediction API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.open(ctx)
			if err != nil {
				return err
			}
			fm, err := orch.Form(ctx)
			if err != nil {
				return err
			}
			var opts []openapi.Option
			if server != "" {
				opts = append(opts, openapi.WithServer(server))
			}
			doc, err := openapi.Document(ctx, fm, opts...)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("openapi: encode: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server URL to advertise")
	return cmd
}
