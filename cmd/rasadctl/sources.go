package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
	"rasad-feed/internal/domain/entity"
)

func (c *cli) sourcesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Print the effective source table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(_ context.Context, a *app.App) error {
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), a.Sources)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "AGENCY\tKIND\tLIMIT\tENABLED\tURL")
				for _, s := range a.Sources {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", s.Agency, sourceKind(s), s.Limit, s.IsEnabled(), sourceURL(s))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func sourceKind(s entity.SourceConfig) string {
	switch {
	case s.FeedURL != "":
		return "feed"
	case s.NeedsBrowser:
		return "browser"
	default:
		return "html"
	}
}

func sourceURL(s entity.SourceConfig) string {
	if s.FeedURL != "" {
		return s.FeedURL
	}
	return s.PageURL()
}
