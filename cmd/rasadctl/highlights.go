package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
)

func (c *cli) highlightsCmd() *cobra.Command {
	var (
		keywords []string
		groups   bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "Select today's items by keyword, or by repetition across agencies",
		Long: `Without --keyword the keyword filter file is used. When no keyword is
configured, items whose titles repeat across agencies are selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				w := cmd.OutOrStdout()
				if !groups {
					items, err := a.Reports.Highlights(ctx, keywords)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(w, items)
					}
					if len(items) == 0 {
						_, err := fmt.Fprintln(w, "no highlights")
						return err
					}
					printItems(w, items, a.Location)
					return nil
				}

				gs, err := a.Reports.HighlightGroups(ctx, keywords)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(w, gs)
				}
				if len(gs) == 0 {
					_, err := fmt.Fprintln(w, "no highlights")
					return err
				}
				for i, g := range gs {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "⭐ %s: %s (%s)\n", g.Reason, g.Key, strings.Join(g.Agencies(), "، "))
					printItems(w, g.Items, a.Location)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "keyword to match (repeatable)")
	cmd.Flags().BoolVar(&groups, "groups", false, "print the groups that selected each item")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
