package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"clientportal/internal/progress"
)

const barWidth = 20

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <client-id>",
		Short: "Print the derived progress summary for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range app.Data.Progress {
				if p.ClientID == args[0] {
					printSummary(cmd.OutOrStdout(), progress.Summary(p))
					return nil
				}
			}
			return fmt.Errorf("no progress data for %q", args[0])
		},
	}
}

func printSummary(w io.Writer, s progress.ProgressSummary) {
	fmt.Fprintf(w, "Client: %s\n", s.ClientID)
	fmt.Fprintf(w, "Overall    %s\n", bar(s.OverallPercent))
	for _, ch := range s.Channels {
		fmt.Fprintf(w, "  %-9s%s\n", ch.Name, bar(ch.Percentage))
	}

	fmt.Fprintf(w, "Timeline   %s\n", bar(s.TimelinePercent))
	for _, m := range s.Milestones {
		marker := " "
		if m.ID == s.CurrentMilestoneID {
			marker = ">"
		}
		fmt.Fprintf(w, " %s %-12s %s (due %s)\n", marker, m.Status, m.Name, m.DueLabel)
	}

	c := s.DeliverableCounts
	fmt.Fprintf(w, "Deliverables: %d/%d completed, %d premium\n", c.Completed, c.Total, c.Premium)
	fmt.Fprintf(w, "Payment    %s  %s of %s\n", bar(s.Payment.PaidPercent), s.Payment.PaidLabel, s.Payment.TotalLabel)
	fmt.Fprintf(w, "Last updated: %s\n", progress.FormatTimestamp(s.LastUpdated))
}

// bar renders pct as a fixed-width text bar.
func bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * barWidth / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), pct)
}
