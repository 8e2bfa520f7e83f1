package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// percentValue is a pflag.Value accepting "75" or "75%".
type percentValue float64

var _ pflag.Value = (*percentValue)(nil)

func (p *percentValue) String() string {
	return share.FormatCriteria(float64(*p))
}

func (p *percentValue) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil || math.IsNaN(f) {
		return fmt.Errorf("%q is not a percentage", s)
	}
	if f < 0 || f > 100 {
		return fmt.Errorf("percentage must be between 0 and 100, got %s", s)
	}
	*p = percentValue(f)
	return nil
}

func (p *percentValue) Type() string {
	return "percent"
}

// inputFlags are the lecture flags shared by calc, share and export.
type inputFlags struct {
	total    int
	attended int
	criteria percentValue
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	f.criteria = attendance.DefaultCriteria
	cmd.Flags().IntVarP(&f.total, "total", "t", 0, "Total lectures held")
	cmd.Flags().IntVarP(&f.attended, "attended", "a", 0, "Lectures attended")
	cmd.Flags().VarP(&f.criteria, "criteria", "c", "Required attendance percentage (default from config, 75)")
}

// resolveInput builds the input from flags, falling back to the saved
// inputs when neither count was given. fromFlags reports whether the counts
// came from the command line.
func (a *app) resolveInput(ctx context.Context, cmd *cobra.Command, f *inputFlags) (in attendance.Input, fromFlags bool, err error) {
	flags := cmd.Flags()
	fromFlags = flags.Changed("total") || flags.Changed("attended")

	in = attendance.Input{Criteria: a.cfg.Defaults.Criteria}
	if fromFlags {
		in.TotalLectures = f.total
		in.AttendedLectures = f.attended
	} else {
		s, err := a.stateStore()
		if err != nil {
			return attendance.Input{}, false, err
		}
		if s != nil {
			if saved, ok := store.Restore(ctx, s); ok {
				slog.Debug("Using saved inputs", "key", store.SnapshotKey)
				in = saved
			}
		}
	}

	if flags.Changed("criteria") {
		in.Criteria = float64(f.criteria)
	}
	return in, fromFlags, nil
}

// save remembers in when state is enabled.
func (a *app) save(ctx context.Context, in attendance.Input) error {
	s, err := a.stateStore()
	if err != nil || s == nil {
		return err
	}
	return store.Save(ctx, s, in)
}
