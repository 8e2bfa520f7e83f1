package main

import (
	"fmt"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/spf13/cobra"
)

func newShareCommand(a *app) *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a plain-text attendance summary to paste elsewhere",
		Example: `  bunk share
  bunk share --total 40 --attended 36 | pbcopy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := a.resolveInput(cmd.Context(), cmd, &input)
			if err != nil {
				return err
			}

			result := attendance.Evaluate(in)
			if result.Status == attendance.StatusAwaiting {
				// Nothing to summarise yet.
				_, err := fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), share.Text(result, in))
			return err
		},
	}

	addInputFlags(cmd, &input)

	return cmd
}
