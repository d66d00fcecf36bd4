package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
	"rasad-feed/internal/usecase/ingest"
)

func (c *cli) ingestCmd() *cobra.Command {
	var (
		agencies []string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Collect, summarize and store new items from the sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{}, func(ctx context.Context, a *app.App) error {
				report, err := a.Ingest.Run(ctx, agencies...)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				return printRunReport(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringSliceVar(&agencies, "agency", nil, "agency to ingest (repeatable, default all enabled)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run report as JSON")
	return cmd
}

func printRunReport(w io.Writer, r *ingest.RunReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENCY\tCANDIDATES\tADDED\tSKIPPED\tERROR")
	for _, s := range r.Sources {
		errText := "-"
		if s.Error != "" {
			errText = s.Stage + ": " + s.Error
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Agency, s.Candidates, s.Added, s.Skipped, errText)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "added %d, skipped %d, failed %d in %s\n", r.Added, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
