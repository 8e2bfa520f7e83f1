package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bunkapp/bunk/internal/config"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newStateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear the remembered inputs",
		Long: `Inspect or clear the inputs remembered between runs.

Inputs are kept in a local state directory, or in an Azure Storage container
when state.backend is azblob.`,
	}

	cmd.AddCommand(newStateShowCommand(a))
	cmd.AddCommand(newStateClearCommand(a))
	cmd.AddCommand(newStatePathCommand(a))

	return cmd
}

func newStateShowCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := a.stateStore()
			if err != nil {
				return err
			}
			if s == nil {
				_, err := fmt.Fprintln(out, "State is disabled.")
				return err
			}

			snap, err := store.Load(cmd.Context(), s)
			switch {
			case errors.Is(err, store.ErrNotFound):
				_, err := fmt.Fprintln(out, "No saved inputs.")
				return err
			case errors.Is(err, store.ErrInvalidSnapshot):
				_, err = fmt.Fprintf(out, "Saved inputs are invalid and will be ignored: %v\n", err)
				return err
			case err != nil:
				return fmt.Errorf("loading saved inputs: %w", err)
			}

			in := snap.Input()
			switch format {
			case "", "text":
				_, err = fmt.Fprintf(out, "Total lectures:      %d\nAttended lectures:   %d\nAttendance criteria: %s%%\n",
					in.TotalLectures, in.AttendedLectures, share.FormatCriteria(in.Criteria))
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(snap)
			case "yaml":
				err = yaml.NewEncoder(out).Encode(in)
			default:
				return fmt.Errorf("unknown format %q (expected text, json or yaml)", format)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json (stored document), yaml")

	return cmd
}

func newStateClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.stateStore()
			if err != nil {
				return err
			}
			if s == nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "State is disabled.")
				return err
			}
			if err := store.Clear(cmd.Context(), s); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Saved inputs cleared.")
			return err
		},
	}
}

func newStatePathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the saved inputs live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := stateLocation(a.cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), loc)
			return err
		},
	}
}

// stateLocation describes where the snapshot is kept without opening the
// store.
func stateLocation(cfg *config.Config) (string, error) {
	if cfg.State.Backend == config.BackendAzBlob {
		container := cfg.State.Blob.Container
		if container == "" {
			container = store.DefaultContainer
		}
		return strings.TrimSuffix(cfg.State.Blob.AccountURL, "/") + "/" + container + "/" + store.SnapshotKey + ".json", nil
	}
	dir, err := cfg.StateDir()
	if err != nil {
		return "", err
	}
	return store.NewFile(dir).Path(store.SnapshotKey), nil
}
