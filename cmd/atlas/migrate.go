package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres"
	"github.com/heartmarshall/slide-atlas/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog database schema",
	}

	cmd.AddCommand(
		migrateAction(opts, "up", "Apply all pending migrations", func(cmd *cobra.Command, m *postgres.Migrator) error {
			versions, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			return printVersions(cmd, "applied", versions)
		}),
		migrateAction(opts, "down", "Roll back the most recent migration", func(cmd *cobra.Command, m *postgres.Migrator) error {
			versions, err := m.Down(cmd.Context())
			if err != nil {
				return err
			}
			return printVersions(cmd, "rolled back", versions)
		}),
		migrateAction(opts, "status", "List migrations and whether they are applied", func(cmd *cobra.Command, m *postgres.Migrator) error {
			statuses, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Source)
			}
			return tw.Flush()
		}),
	)

	return cmd
}

func migrateAction(opts *rootOptions, use, short string, run func(*cobra.Command, *postgres.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			m, err := postgres.NewMigrator(cmd.Context(), cfg.Database.DSN, migrations.FS)
			if err != nil {
				return err
			}
			defer m.Close()

			return run(cmd, m)
		},
	}
}

func printVersions(cmd *cobra.Command, verb string, versions []int64) error {
	if len(versions) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no migrations "+verb)
		return err
	}
	for _, v := range versions {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %05d\n", verb, v); err != nil {
			return err
		}
	}
	return nil
}
