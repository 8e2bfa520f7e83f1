// Package share builds the plain-text attendance summary meant for pasting
// into chats and notes.
package share

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
)

// Footer trails every summary.
const Footer = "Generated with BunkApp - Smart Attendance Calculator"

// Text renders result and the input it was computed from as a multi-line
// summary. Lines are joined with "\n" and there is no trailing newline.
func Text(result attendance.Result, in attendance.Input) string {
	criteria := FormatCriteria(in.Criteria)
	lines := []string{
		"📊 Attendance Summary",
		fmt.Sprintf("- Current Attendance: %.1f%%", result.CurrentAttendance),
		fmt.Sprintf("- Attendance Criteria: %s%%", criteria),
	}

	if result.CanBunk > 0 {
		lines = append(lines, fmt.Sprintf("- You can bunk %s more %s.", FormatCount(result.CanBunk), lectures(result.CanBunk)))
	}
	if result.MustAttend > 0 {
		lines = append(lines, fmt.Sprintf("- You must attend %s more %s to reach %s%%.", FormatCount(result.MustAttend), lectures(result.MustAttend), criteria))
	}

	if result.Status == attendance.StatusPerfect {
		lines = append(lines, "- Status: Perfect Attendance 🎉")
	} else if result.CanBunk == 0 && result.MustAttend == 0 {
		lines = append(lines, "- Status: At Threshold ⚖️")
	}

	lines = append(lines, "", Footer)
	return strings.Join(lines, "\n")
}

// FormatCriteria prints a percentage without a trailing ".0" for whole values.
func FormatCriteria(criteria float64) string {
	return strconv.FormatFloat(criteria, 'f', -1, 64)
}

// FormatCount prints a lecture count, using "∞" for attendance.Unbounded.
func FormatCount(n int) string {
	if n >= attendance.Unbounded {
		return "∞"
	}
	return strconv.Itoa(n)
}

func lectures(n int) string {
	if n > 1 {
		return "lectures"
	}
	return "lecture"
}
