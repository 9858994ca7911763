package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uttale/internal/index"
)

func newScopesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scopes [query]",
		Short: "List indexed scopes matching an optional query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := index.Open(cfg)
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			scopes, err := store.SearchScopes(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if len(scopes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no scopes found")
				return nil
			}
			rows := make([][]string, 0, len(scopes))
			for _, scope := range scopes {
				rows = append(rows, []string{scope})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Scope"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum scopes to list")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search caption text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := index.Open(cfg)
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			records, err := store.SearchText(cmd.Context(), args[0], scope, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches found")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.Scope, rec.Start, rec.End, rec.Text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Scope", "Start", "End", "Text"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Restrict matches to scopes containing this substring")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum records to list")
	return cmd
}
