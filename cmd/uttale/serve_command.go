package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"uttale/internal/index"
	"uttale/internal/logging"
	"uttale/internal/reindex"
	"uttale/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var reindexOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the uttale HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := index.Open(cfg)
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			signalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if reindexOnStart {
				coordinator := reindex.NewCoordinator(cfg, store, logger)
				if _, err := coordinator.Run(signalCtx); err != nil {
					return fmt.Errorf("startup reindex: %w", err)
				}
			}

			srv := server.New(cfg, store, logger)
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			defer srv.Stop()

			<-signalCtx.Done()
			logger.Info("uttale shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reindexOnStart, "reindex", false, "Rebuild the index before serving")
	return cmd
}
