package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// notifyCmd runs one alert pass, the same one the scheduler runs each morning
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Print the deadline list and send today's alerts if they are still due",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := desk.Notifications.Current(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No upcoming deadlines")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tPRIORITY\tTITLE\tMESSAGE")
		for _, n := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Date, n.Priority, n.Title, n.Message)
		}
		return w.Flush()
	},
}
