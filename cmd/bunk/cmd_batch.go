package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/batch"
	"github.com/bunkapp/bunk/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchReport is the json/yaml output of the batch command.
type batchReport struct {
	Courses []batch.Row   `json:"courses" yaml:"courses"`
	Summary batch.Summary `json:"summary" yaml:"summary"`
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		criteria percentValue
		format   string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "batch <course-file>...",
		Short: "Evaluate every course listed in one or more course files",
		Long: `Evaluate several courses at once. Each course file is YAML or JSON:

  criteria: 75            # optional, applies to every course in the file
  courses:
    - name: Operating Systems
      totalLectures: 40
      attendedLectures: 34
    - name: Compilers
      totalLectures: 30
      attendedLectures: 18
      attendanceCriteria: 80   # optional, this course only

Files are validated before anything is evaluated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := batch.LoadFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			defaultCriteria := a.cfg.Defaults.Criteria
			if cmd.Flags().Changed("criteria") {
				defaultCriteria = float64(criteria)
			}

			rows := batch.Evaluate(files, defaultCriteria)
			for _, r := range rows {
				utils.ResultToSlog(r.Input, r.Result)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "", "text", "table":
				err = batch.WriteTable(out, rows, a.color)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(batchReport{Courses: rows, Summary: batch.Summarize(rows)})
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err = enc.Encode(batchReport{Courses: rows, Summary: batch.Summarize(rows)}); err == nil {
					err = enc.Close()
				}
			default:
				return fmt.Errorf("unknown format %q (expected text, json or yaml)", format)
			}
			if err != nil {
				return err
			}

			if strict {
				var below []string
				for _, r := range rows {
					if r.Result.Status == attendance.StatusCritical {
						below = append(below, r.Course)
					}
				}
				if len(below) > 0 {
					return &BelowThresholdError{
						Message: fmt.Sprintf("%d course(s) below the attendance criteria: %s", len(below), strings.Join(below, ", ")),
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().VarP(&criteria, "criteria", "c", "Criteria for courses and files that do not set one (default from config, 75)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with code 1 when any course is below its criteria")

	return cmd
}
