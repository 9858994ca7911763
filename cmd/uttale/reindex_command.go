package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"uttale/internal/index"
	"uttale/internal/logging"
	"uttale/internal/reindex"
)

func newReindexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the caption index from the configured root",
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

			coordinator := reindex.NewCoordinator(cfg, store, logger,
				reindex.WithReporter(barReporter()))
			summary, err := coordinator.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d records from %d of %d caption files\n",
				summary.Records, summary.ParsedFiles, summary.TotalFiles)
			return nil
		},
	}
}

// barReporter renders reindex progress as a terminal bar. The bar is created
// on the first sample, when the total is known.
func barReporter() reindex.ReportFunc {
	var bar *progressbar.ProgressBar
	return func(completed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Reindexing"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(completed)
	}
}
