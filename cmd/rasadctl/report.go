package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/report"
)

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read stored items grouped by Jalali day and agency",
	}
	cmd.AddCommand(c.reportDayCmd(), c.reportRecentCmd(), c.reportAgenciesCmd())
	return cmd
}

func (c *cli) reportDayCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the items of one Jalali day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				var (
					r   *report.DayReport
					err error
				)
				if len(args) == 1 {
					r, err = a.Reports.Day(ctx, args[0])
				} else {
					r, err = a.Reports.Today(ctx)
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), r)
				}
				return printDayReport(cmd.OutOrStdout(), r, a.Location)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printDayReport(w io.Writer, r *report.DayReport, loc *time.Location) error {
	if _, err := fmt.Fprintf(w, "📅 %s (%s): %d خبر\n", r.Long, r.Day, len(r.Items)); err != nil {
		return err
	}
	for _, g := range r.Agencies {
		fmt.Fprintf(w, "\n📰 %s: %d خبر\n", g.Agency, len(g.Items))
		printItems(w, g.Items, loc)
	}
	return nil
}

func printItems(w io.Writer, items []*entity.NewsItem, loc *time.Location) {
	for _, it := range items {
		fmt.Fprintf(w, "  %s  %s\n", it.PublishedAt.In(loc).Format("15:04"), it.Title)
		if it.Summary != "" {
			fmt.Fprintf(w, "         %s\n", it.Summary)
		}
	}
}

func (c *cli) reportRecentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest items grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				days, err := a.Reports.Recent(ctx, limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for i, d := range days {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "📅 %s\n", d.Day)
					for _, it := range d.Items {
						fmt.Fprintf(w, "  [%s] %s\n", it.Agency, it.Title)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "number of items to read")
	return cmd
}

func (c *cli) reportAgenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agencies",
		Short: "Count stored items per agency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				counts, err := a.Reports.AgencyCounts(ctx)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				slices.Sort(names)

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, name := range names {
					fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
				}
				return tw.Flush()
			})
		},
	}
}
