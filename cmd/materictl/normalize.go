package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"materihub/internal/config"
	"materihub/internal/repository/postgres"
	"materihub/internal/service"
	"materihub/internal/service/drivetree"
)

func newNormalizeCmd(verbose *bool) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite stored folder trees into the canonical shape",
		Long: `Decode the metadata of every folder materi and store it back as
{"folderTree": [...]}. Unreadable blobs are reported and left untouched.

Examples:
  materictl normalize --dry-run   # Show what would change
  materictl normalize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			logger := cliLogger(cmd.ErrOrStderr(), *verbose)

			pool, err := postgres.CreateConnectionPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			materiRepo := postgres.NewMateriRepository(&postgres.RepositoryConfig{
				Pool:   pool,
				Tables: postgres.NewTableNames(cfg.TablePrefix),
				Logger: logger,
			})
			kinds, err := drivetree.NewKindRegistry()
			if err != nil {
				return err
			}

			migrator := service.NewMetadataMigrator(materiRepo, drivetree.NewCodec(kinds, logger), logger)
			report, err := migrator.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			verb := "rewrote"
			if dryRun {
				verb = "would rewrite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d folder materi, %s %d, skipped %d unreadable\n",
				report.Scanned, verb, report.Rewritten, report.Skipped)
			for shape, n := range report.Shapes {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %d\n", shape, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	return cmd
}
