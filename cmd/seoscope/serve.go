package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cognicore/seoscope/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer closeStore(a.log, st)

			engine, err := a.newEngine(st)
			if err != nil {
				return err
			}

			cfg := a.settings.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := server.New(cfg, server.NewHandler(engine, st, a.log), a.log)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	return cmd
}
