package cli

import (
	"fmt"
	"io"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/backend/internal/setup"
	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/spf13/cobra"
)

func newGCCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove orphaned replies, votes and cover blobs once",
		Long: `Runs one pass of the content garbage collector: reply lists whose
thread or comment is gone, votes on deleted threads and photos, and cover
blobs older than gc.safety_threshold that no photo references.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRecords(cmd.Context(), func(cfg *config.Config, rec *records.Records) error {
				blobs, err := setup.OpenBlobs(cmd.Context(), cfg)
				if err != nil {
					return fmt.Errorf("failed to open %s blob store: %w", cfg.Public.Blobs.Driver, err)
				}
				gc := service.NewContentGarbageCollector(rec, rec, blobs, cfg.Public.GC.SafetyThreshold)
				if err := gc.RunCleanup(cmd.Context()); err != nil {
					return err
				}
				stats := gc.GetLastCleanupStats()
				return opts.output(cmd.OutOrStdout(), stats, func(w io.Writer) error {
					fmt.Fprintf(w, "replies pruned:  %d\n", stats.RepliesPruned)
					fmt.Fprintf(w, "votes pruned:    %d\n", stats.VotesPruned)
					fmt.Fprintf(w, "blobs scanned:   %d\n", stats.BlobsScanned)
					fmt.Fprintf(w, "blobs deleted:   %d of %d orphaned (%d bytes)\n", stats.BlobsDeleted, stats.OrphanedBlobs, stats.BytesReclaimed)
					for _, e := range stats.Errors {
						fmt.Fprintf(w, "error: %s\n", e)
					}
					return nil
				})
			})
		},
	}
}
