package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/spf13/cobra"
)

func newThreadsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Inspect forum threads",
	}
	cmd.AddCommand(newThreadsListCommand(opts))
	return cmd
}

func newThreadsListCommand(opts *RootOptions) *cobra.Command {
	var (
		search   string
		category string
		page     int
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List threads newest first, as the forum page shows them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && !domain.Category(category).Valid() {
				return fmt.Errorf("unknown category %q", category)
			}
			return opts.withRecords(cmd.Context(), func(cfg *config.Config, rec *records.Records) error {
				result := service.NewThread(rec, &cfg.Public).Browse(cmd.Context(), domain.ThreadQuery{
					Search:   search,
					Category: domain.Category(category),
					Page:     page,
				})
				return opts.output(cmd.OutOrStdout(), result, func(w io.Writer) error {
					return printThreads(w, result)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&search, "query", "q", "", "search title, content, author and category")
	cmd.Flags().StringVar(&category, "category", "", "strategy, driver or free")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func printThreads(w io.Writer, page domain.Page[domain.Thread]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tAUTHOR\tCOMMENTS\tVIEWS\tLIKES\tCREATED")
	for _, t := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			t.Id, t.Category, t.Title, t.AuthorDisplayName, len(t.Comments),
			t.ViewCount, t.LikeCount, t.DislikeCount, t.CreatedAt.Format(time.DateTime))
	}
	fmt.Fprintf(tw, "page %d of %d, %d threads\n", page.Page, page.TotalPages, page.TotalItems)
	return tw.Flush()
}
