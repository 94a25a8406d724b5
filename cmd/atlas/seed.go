package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres"
	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/slide-atlas/internal/app"
	"github.com/heartmarshall/slide-atlas/internal/app/seeder"
)

// Compile-time interface assertion.
var _ seeder.CatalogBulkRepo = (*catalog.Repo)(nil)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		seederConfig string
		dryRun       bool
		batchSize    int
	)

	cmd := &cobra.Command{
		Use:   "seed [manifest.yaml]",
		Short: "Load slides from a YAML manifest into the catalog",
		Long: `Seed upserts catalog entries and their details from a manifest.
Entries are matched by name and details by entry, so reruns are safe.
The whole manifest is written in one transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			seedCfg, err := seeder.LoadConfig(seederConfig)
			if err != nil {
				return err
			}
			// CLI flags override config.
			if len(args) == 1 {
				seedCfg.ManifestPath = args[0]
			}
			if cmd.Flags().Changed("dry-run") {
				seedCfg.DryRun = dryRun
			}
			if cmd.Flags().Changed("batch-size") {
				seedCfg.BatchSize = batchSize
			}
			if seedCfg.ManifestPath == "" {
				return fmt.Errorf("manifest path is required (argument or SEEDER_MANIFEST_PATH)")
			}

			manifest, err := seeder.LoadManifest(seedCfg.ManifestPath)
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			pipeline := seeder.NewPipeline(logger, catalog.New(pool), postgres.NewTxManager(pool), *seedCfg)
			if err := pipeline.Run(cmd.Context(), manifest); err != nil {
				logger.Error("seed failed", slog.String("error", err.Error()))
				return err
			}

			for _, phase := range []string{"entries", "details"} {
				r := pipeline.Results()[phase]
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s written=%d skipped=%d\n", phase, r.Written, r.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seederConfig, "seeder-config", "", "path to seeder YAML config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the manifest without writing to the database")
	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "rows per INSERT statement")

	return cmd
}
