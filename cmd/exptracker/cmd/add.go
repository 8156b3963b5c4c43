package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"exptracker/internal/app"
)

var addCmd = &cobra.Command{
	Use:   "add <description> <amount> <category>",
	Short: "Record a new expense",
	Long: `Add validates the three fields and appends the expense to the data file.

All three fields are required and the amount must be a number. Put negative
amounts after "--" so they are not read as flags.

Example:
  exptracker add Coffee 3.50 Food
  exptracker add -- Refund -12 Shopping`,
	Args: cobra.ExactArgs(3),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	fb := application.AddExpense(cmd.Context(), app.Form{
		Description: args[0],
		Amount:      args[1],
		Category:    args[2],
	})
	if !fb.OK {
		fmt.Fprintln(cmd.ErrOrStderr(), fb.Message)
		return errValidation
	}

	fmt.Fprintln(cmd.OutOrStdout(), fb.Message)
	if fb.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), fb.Warning)
	}
	return nil
}
