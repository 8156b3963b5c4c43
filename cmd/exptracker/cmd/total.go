package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the sum of all expense amounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), application.TotalExpense())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(totalCmd)
}
