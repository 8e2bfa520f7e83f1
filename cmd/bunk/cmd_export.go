package main

import (
	"fmt"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/card"
	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		input  inputFlags
		format string
		dir    string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the result card as an HTML or Markdown document",
		Long: `Render the result card to a file. The file is named
<name>.<ext> inside --dir (defaults come from the export section of
.bunk.yaml: the current directory and "attendance-report").`,
		Example: `  bunk export
  bunk export --format markdown --dir reports --name week-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := a.resolveInput(cmd.Context(), cmd, &input)
			if err != nil {
				return err
			}

			result := attendance.Evaluate(in)
			if result.Status == attendance.StatusAwaiting {
				return fmt.Errorf("nothing to export: %s", result.Message)
			}

			if dir == "" {
				dir = a.cfg.Export.Dir
			}
			if name == "" {
				name = a.cfg.Export.Name
			}

			path, err := card.Export(dir, name, format, in, result, card.Options{Now: a.now})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported: %s\n", path)
			return err
		},
	}

	addInputFlags(cmd, &input)
	cmd.Flags().StringVarP(&format, "format", "f", card.FormatHTML, "Export format: html, markdown, text, json, yaml")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write to (default from config, .)")
	cmd.Flags().StringVar(&name, "name", "", "File name without extension (default from config, attendance-report)")

	return cmd
}
