package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newOutboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect queued notification events",
	}
	cmd.AddCommand(newOutboxFailedCmd(app), newOutboxReplayCmd(app))
	return cmd
}

func newOutboxFailedCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "failed",
		Short: "List events that could not be published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOutbox(cmd.Context(), app, func(ctx context.Context, admin OutboxAdmin) error {
				events, err := admin.GetFailedEvents(ctx, limit)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No failed events")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSUBMISSION\tROUTING KEY\tRETRIES\tCREATED")
				for _, e := range events {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", e.ID, e.AggregateID, e.RoutingKey, e.RetryCount, e.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events to list")
	return cmd
}

func newOutboxReplayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <event-id>",
		Short: "Reset a failed event so it is published again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid event id %q", args[0])
			}
			return withOutbox(cmd.Context(), app, func(ctx context.Context, admin OutboxAdmin) error {
				if err := admin.ReplayEvent(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Event %d queued for replay\n", id)
				return nil
			})
		},
	}
}

func withOutbox(ctx context.Context, app *App, fn func(context.Context, OutboxAdmin) error) error {
	if app.OpenOutbox == nil {
		return fmt.Errorf("outbox is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	admin, closeFn, err := app.OpenOutbox(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, admin)
}
