package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRosterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List roster accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tCOMPANY\tTIER")
			for _, a := range app.Data.Accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Username, a.Name, a.Company, a.Tier)
			}
			return w.Flush()
		},
	}
}
