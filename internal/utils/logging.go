package utils

import (
	"context"
	"log/slog"

	"github.com/bunkapp/bunk/internal/attendance"
)

// ResultToSlog logs an evaluation at debug level. Counts that are zero are
// left out so the record only carries what the card would show.
func ResultToSlog(in attendance.Input, result attendance.Result) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"status", string(result.Status),
		"totalLectures", in.TotalLectures,
		"attendedLectures", in.AttendedLectures,
		"criteria", in.Criteria,
	}

	if result.Status != attendance.StatusAwaiting {
		attrs = append(attrs, "currentAttendance", result.CurrentAttendance)
	}
	attrs = addIf(attrs, "canBunk", result.CanBunk)
	attrs = addIf(attrs, "mustAttend", result.MustAttend)
	if result.AtThreshold() {
		attrs = append(attrs, "atThreshold", true)
	}

	slog.Debug("Attendance evaluated", attrs...)
}

func addIf[T comparable](attrs []any, name string, v T) []any {
	var zero T
	if v != zero {
		attrs = append(attrs, name, v)
	}

	return attrs
}
