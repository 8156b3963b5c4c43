package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"exptracker/internal/expenses"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all expenses after confirmation",
	Long: `Reset asks for confirmation and then removes every expense.

Answering anything other than y or yes leaves the data untouched. Use --yes to
skip the prompt in scripts.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetYes bool

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "reset without asking")
}

func runReset(cmd *cobra.Command, args []string) error {
	var confirmer expenses.Confirmer = expenses.Always(true)
	if !resetYes {
		confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	fb := application.Reset(cmd.Context(), confirmer)
	if !fb.OK {
		return errors.New(fb.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), fb.Message)
	if fb.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), fb.Warning)
	}
	return nil
}

// promptConfirmer asks on out and reads one line from in. End of input
// counts as "no".
func promptConfirmer(in io.Reader, out io.Writer) expenses.Confirmer {
	return expenses.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
