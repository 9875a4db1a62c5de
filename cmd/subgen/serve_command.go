package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"subgen/internal/generate"
	"subgen/internal/runlog"
	"subgen/internal/webui"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if cmd.Flags().Changed("bind") {
				cfg.Web.Bind = bind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := ctx.newLogger(false)
			store, err := runlog.Open(&cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			svc := generate.NewService(&cfg, generate.NewEngine(&cfg), store, logger)
			server, err := webui.New(&cfg, svc, store, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := server.Start(runCtx); err != nil {
				return err
			}
			defer server.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s (Ctrl-C to stop)\n", server.Addr())
			<-runCtx.Done()
			if err := runCtx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (host:port)")
	return cmd
}
