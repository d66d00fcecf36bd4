package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rasad-feed/internal/app"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/message"
)

func (c *cli) messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Manage daily messages",
	}

	var in message.CreateInput
	var priority int
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a daily message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("priority") {
				in.Priority = &priority
			}
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				m, err := a.Messages.Create(ctx, in)
				if err != nil {
					return err
				}
				printMessages(cmd.OutOrStdout(), []*entity.DailyMessage{m}, a.Location)
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "message title")
	add.Flags().StringVar(&in.Content, "content", "", "message body")
	add.Flags().StringVar(&in.Category, "category", "", "category (default عمومی)")
	add.Flags().IntVar(&priority, "priority", 1, "priority, higher first")

	var (
		category string
		limit    int
		today    bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List daily messages, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				var (
					ms  []*entity.DailyMessage
					err error
				)
				if today {
					ms, err = a.Messages.Today(ctx)
				} else {
					ms, err = a.Messages.List(ctx, category, limit)
				}
				if err != nil {
					return err
				}
				printMessages(cmd.OutOrStdout(), ms, a.Location)
				return nil
			})
		},
	}
	list.Flags().StringVar(&category, "category", "", "only this category")
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of messages")
	list.Flags().BoolVar(&today, "today", false, "only messages created today")

	remove := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a daily message",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid message id %q", args[0])
			}
			return c.withApp(cmd, app.Options{SkipIngest: true}, func(ctx context.Context, a *app.App) error {
				if err := a.Messages.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted message #%d\n", id)
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

func printMessages(w io.Writer, ms []*entity.DailyMessage, loc *time.Location) {
	for _, m := range ms {
		fmt.Fprintf(w, "#%d [%s] (%d) %s\n", m.ID, m.Category, m.Priority, m.Title)
		fmt.Fprintf(w, "    %s\n", m.Content)
		fmt.Fprintf(w, "    %s\n", m.CreatedAt.In(loc).Format("2006-01-02 15:04"))
	}
}
