package main

import (
	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/card"
	"github.com/bunkapp/bunk/internal/form"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/bunkapp/bunk/internal/utils"
	"github.com/spf13/cobra"
)

func newFormCommand(a *app) *cobra.Command {
	var (
		format string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Enter your attendance interactively",
		Long: `Open an interactive form for total lectures, attended lectures and the
attendance criteria. Fields start from the saved inputs, and what you enter
is saved for next time.

When input is not a terminal the form falls back to a line-based prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			initial := attendance.Input{Criteria: a.cfg.Defaults.Criteria}
			s, err := a.stateStore()
			if err != nil {
				return err
			}
			if s != nil {
				if saved, ok := store.Restore(ctx, s); ok {
					initial = saved
				}
			}

			in, err := form.Run(cmd.InOrStdin(), cmd.OutOrStdout(), initial)
			if err != nil {
				return err
			}

			result := attendance.Evaluate(in)
			utils.ResultToSlog(in, result)

			if format == "" {
				format = a.cfg.Output.Format
			}
			if err := card.Render(cmd.OutOrStdout(), format, in, result, card.Options{Color: a.color, Now: a.now}); err != nil {
				return err
			}

			if noSave {
				return nil
			}
			return a.save(ctx, in)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml, markdown, html (default from config, text)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not remember the entered inputs")

	return cmd
}
