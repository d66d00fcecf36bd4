package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
)

func (c *cli) filtersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage the highlight keyword file",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				kws, err := a.Filters.List(ctx)
				if err != nil {
					return err
				}
				return printKeywords(cmd.OutOrStdout(), kws)
			})
		},
	}

	add := &cobra.Command{
		Use:   "add KEYWORD...",
		Short: "Append keywords, skipping ones already present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				kws, err := a.Filters.Add(ctx, args...)
				if err != nil {
					return err
				}
				return printKeywords(cmd.OutOrStdout(), kws)
			})
		},
	}

	remove := &cobra.Command{
		Use:     "remove KEYWORD...",
		Aliases: []string{"rm"},
		Short:   "Remove keywords",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				kws, err := a.Filters.Remove(ctx, args...)
				if err != nil {
					return err
				}
				return printKeywords(cmd.OutOrStdout(), kws)
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func printKeywords(w io.Writer, kws []string) error {
	for _, k := range kws {
		if _, err := fmt.Fprintln(w, k); err != nil {
			return err
		}
	}
	return nil
}
