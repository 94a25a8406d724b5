package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/slide-atlas/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Microscope slide catalog and viewer backend",
		Long: `Atlas serves a catalog of digitized microscope slides.

It searches slides by name or by descriptive metadata, and assembles
viewport payloads from catalog rows and sidecar bundle files.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to YAML config (default: $CONFIG_PATH or ./config.yaml)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newBundleCmd(opts),
		newSeedCmd(opts),
	)

	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}
