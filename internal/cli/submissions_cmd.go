package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSubmissionsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "submissions <client-id>",
		Short: "List recent notification submissions for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.OpenSubmissions == nil {
				return fmt.Errorf("submission log is not configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			lister, closeFn, err := app.OpenSubmissions(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			subs, err := lister.ListByClient(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No submissions for %s\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tSTATUS\tREASON\tCREATED")
			for _, s := range subs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Kind, s.Status, s.ErrorReason, s.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of submissions to list")
	return cmd
}
