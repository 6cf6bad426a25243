// Package cli implements paddockctl, the maintenance tool that works on the
// same storage as the API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/apexcharge/paddock/backend/internal/setup"
	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFolder string
	Format       string // "json" | "text"
	Verbose      bool

	// Config, when set, is used instead of loading ConfigFolder.
	Config *config.Config
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of paddockctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "paddockctl",
		Short:         "Maintenance commands for the paddock content store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Logs go to stderr so stdout stays a clean document.
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logger.InitializeWriter(cmd.ErrOrStderr(), level, false)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFolder, "config_folder", "config", "path to folder with configs")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newGCCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newThreadsCommand(opts))
	cmd.AddCommand(newKeygenCommand(opts))

	return cmd
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		o.Config = config.MustLoad(o.ConfigFolder)
	}
	return o.Config
}

// withRecords opens the configured storage, runs fn and closes it again.
func (o *RootOptions) withRecords(ctx context.Context, fn func(cfg *config.Config, rec *records.Records) error) error {
	cfg := o.config()
	rec, store, err := setup.OpenRecords(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Component("cli").Warn("failed to close storage", "error", err)
		}
	}()
	return fn(cfg, rec)
}

// output writes v as indented JSON, or calls text for the text format.
func (o *RootOptions) output(w io.Writer, v any, text func(io.Writer) error) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}
