package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/slide-atlas/internal/adapter/assets"
	"github.com/heartmarshall/slide-atlas/internal/app"
	"github.com/heartmarshall/slide-atlas/internal/domain"
	"github.com/heartmarshall/slide-atlas/internal/service/sidecar"
)

func newBundleCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Work with sidecar bundle files",
	}
	cmd.AddCommand(newBundleInspectCmd(opts))
	return cmd
}

func newBundleInspectCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <ref>",
		Short: "Parse a bundle and print its fields and narrative",
		Example: `  atlas bundle inspect liver-he-01.txt
  atlas bundle inspect liver-he-01.txt --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			store, err := assets.New(cfg.Assets)
			if err != nil {
				return err
			}
			if c, ok := store.(io.Closer); ok {
				defer c.Close()
			}

			svc := sidecar.NewService(logger, store, sidecar.Options{
				BundleDir:         cfg.Sidecar.BundleDir,
				MaxNarrativeBytes: cfg.Sidecar.MaxNarrativeBytes,
			})

			bundle, err := svc.ResolveBundle(cmd.Context(), args[0])
			if err != nil {
				logger.Error("resolve bundle", slog.String("ref", args[0]), slog.String("error", err.Error()))
				return err
			}
			return writeBundle(cmd.OutOrStdout(), format, bundle)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")

	return cmd
}

func writeBundle(w io.Writer, format string, b *domain.SidecarBundle) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}
