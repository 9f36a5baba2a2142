package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/relay/core/config"
	"github.com/dmitrymomot/relay/core/logger"
)

func serveCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg cliConfig
			if err := config.Load(&cfg, config.WithEnvFiles(envFiles...)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := setupTracing(cfg.TraceExporter)
			if err != nil {
				return err
			}

			app, err := build(ctx, cfg, true)
			if err != nil {
				return errors.Join(err, shutdownTracing(context.WithoutCancel(ctx)))
			}

			runErr := app.Run(ctx)
			if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
				app.Logger().Error("tracer shutdown failed", logger.Error(err))
			}
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	return cmd
}
