package main

import (
	"fmt"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/card"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/bunkapp/bunk/internal/utils"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	input  inputFlags
	format string
	strict bool
	noSave bool
}

func newCalcCommand(a *app) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate how many lectures you can bunk or must attend",
		Long: `Evaluate your attendance against the required percentage.

With --total and --attended the counts are taken from the command line and
remembered for next time. Without them the saved inputs are used.

Exit codes with --strict:
  0  attendance meets the criteria (or there is nothing to evaluate)
  1  attendance is below the criteria
  2  any other error`,
		Example: `  bunk calc --total 100 --attended 80
  bunk calc -t 40 -a 28 --criteria 80%
  bunk calc --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return calcE(cmd, a, opts)
		},
	}

	addInputFlags(cmd, &opts.input)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: text, json, yaml, markdown, html (default from config, text)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with code 1 when attendance is below the criteria")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not remember these inputs")

	return cmd
}

func calcE(cmd *cobra.Command, a *app, opts *calcOptions) error {
	ctx := cmd.Context()

	in, fromFlags, err := a.resolveInput(ctx, cmd, &opts.input)
	if err != nil {
		return err
	}

	result := attendance.Evaluate(in)
	utils.ResultToSlog(in, result)

	format := opts.format
	if format == "" {
		format = a.cfg.Output.Format
	}
	if err := card.Render(cmd.OutOrStdout(), format, in, result, card.Options{Color: a.color, Now: a.now}); err != nil {
		return err
	}

	if fromFlags && !opts.noSave {
		if err := a.save(ctx, in); err != nil {
			return err
		}
	}

	if opts.strict && result.Status == attendance.StatusCritical {
		return belowThreshold(in, result)
	}
	return nil
}

func belowThreshold(in attendance.Input, result attendance.Result) *BelowThresholdError {
	msg := fmt.Sprintf("attendance %.1f%% is below the required %s%%", result.CurrentAttendance, share.FormatCriteria(in.Criteria))
	if result.MustAttend > 0 {
		msg += fmt.Sprintf(": attend %s more lecture(s)", share.FormatCount(result.MustAttend))
	}
	return &BelowThresholdError{Message: msg}
}
