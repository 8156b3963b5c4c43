package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"view"},
	Short:   "Show every expense in the order it was added",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), application.ViewExpenses())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
