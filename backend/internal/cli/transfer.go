package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump every collection as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRecords(cmd.Context(), func(_ *config.Config, rec *records.Records) error {
				snap := rec.Export(cmd.Context())
				if out == "" || out == "-" {
					return encodeExport(cmd.OutOrStdout(), snap)
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				return writeExport(f, snap)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func encodeExport(w io.Writer, snap records.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// writeExport encodes snap into wc and closes it. A failed close is reported
// since the dump may not have reached disk.
func writeExport(wc io.WriteCloser, snap records.Snapshot) error {
	if err := encodeExport(wc, snap); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	return nil
}

type importSummary struct {
	Threads     int `json:"threads"`
	Comments    int `json:"comments"`
	Replies     int `json:"replies"`
	ThreadVotes int `json:"threadVotes"`
	PhotoVotes  int `json:"photoVotes"`
	Photos      int `json:"photos"`
}

func summarize(snap records.Snapshot) importSummary {
	s := importSummary{Threads: len(snap.Threads), Photos: len(snap.Photos)}
	for _, t := range snap.Threads {
		s.Comments += len(t.Comments)
	}
	for _, byComment := range snap.Replies {
		for _, list := range byComment {
			s.Replies += len(list)
		}
	}
	for _, votes := range snap.ThreadVotes {
		s.ThreadVotes += len(votes)
	}
	for _, votes := range snap.PhotoVotes {
		s.PhotoVotes += len(votes)
	}
	return s
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Normalize an exported document and replace every collection with it",
		Long: `Reads a document in the export format, repairs malformed records the same
way reads do, and overwrites all five collections. Missing collections are
imported as empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			raw, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}
			if !json.Valid(raw) {
				return fmt.Errorf("%s is not valid JSON", args[0])
			}

			return opts.withRecords(cmd.Context(), func(_ *config.Config, rec *records.Records) error {
				summary := summarize(rec.Import(cmd.Context(), raw))
				return opts.output(cmd.OutOrStdout(), summary, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "imported %d threads (%d comments), %d replies, %d thread votes, %d photos, %d photo votes\n",
						summary.Threads, summary.Comments, summary.Replies, summary.ThreadVotes, summary.Photos, summary.PhotoVotes)
					return err
				})
			})
		},
	}
}
