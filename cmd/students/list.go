package main

import (
	"fmt"

	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored student and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.persister.Close()

		if err := a.load(); err != nil {
			return err
		}

		students := a.store.List()
		if len(students) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No student records found.")
			return nil
		}
		console.WriteTable(cmd.OutOrStdout(), students)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
