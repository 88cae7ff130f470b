// Command lawdesk runs office administration tasks against the same
// databases as the server.
package main

import (
	"fmt"
	"os"

	"law_desk_app_go/app"
	"law_desk_app_go/config"

	"github.com/spf13/cobra"
)

// desk is opened before every subcommand
var desk *app.App

var rootCmd = &cobra.Command{
	Use:           "lawdesk",
	Short:         "Law office administration",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a, err := app.Open(cfg)
		if err != nil {
			return err
		}
		desk = a
		return nil
	},
}

// closeDesk runs after Execute so failed commands close the stores too
func closeDesk() {
	if desk == nil {
		return
	}
	if err := desk.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Error closing databases:", err)
	}
	desk = nil
}

func init() {
	createUserCmd.Flags().StringVar(&userName, "name", "", "Account holder name")
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "Login email")

	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default: <entity>-<date>.xlsx)")
	exportCmd.Flags().StringSliceVar(&exportFields, "fields", nil, "Columns to include (default: the usual set)")

	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	err := rootCmd.Execute()
	closeDesk()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
