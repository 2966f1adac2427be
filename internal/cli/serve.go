package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/server"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML form and the JSON prediction API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.open(ctx)
			if err != nil {
				return err
			}
			srv, err := server.New(ctx, orch, server.WithLogger(a.logger))
			if err != nil {
				return err
			}
			a.logger.Info("riskform starting",
				zap.String("addr", a.cfg.Addr),
				zap.String("locale", orch.Locale()),
			)
			return srv.Run(ctx, a.cfg.Addr, a.cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
