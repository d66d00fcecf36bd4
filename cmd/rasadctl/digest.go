package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
)

func (c *cli) digestCmd() *cobra.Command {
	var (
		perAgency int
		send      bool
	)
	cmd := &cobra.Command{
		Use:   "digest [YYYY-MM-DD]",
		Short: "Render the plain-text digest of a Jalali day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ""
			if len(args) == 1 {
				day = args[0]
			}
			if !cmd.Flags().Changed("per-agency") {
				perAgency = c.v.GetInt("digest.per_agency")
			}

			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				text, err := a.Reports.DigestFor(ctx, day, perAgency)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprint(w, text); err != nil {
					return err
				}
				if !send {
					return nil
				}

				a.Publisher.PerAgency = perAgency
				sent, err := a.Publisher.PublishDay(ctx, day)
				if err != nil {
					return err
				}
				if sent {
					fmt.Fprintf(cmd.ErrOrStderr(), "sent to %d channel(s)\n", a.Notify.Enabled())
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "nothing sent: no items or no enabled channel")
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&perAgency, "per-agency", 3, "titles listed per agency (config digest.per_agency)")
	cmd.Flags().BoolVar(&send, "send", false, "also publish the digest to the enabled chat channels")
	return cmd
}
