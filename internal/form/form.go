// Package form collects lecture counts and the attendance criteria
// interactively.
package form

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Bounds of the criteria field.
const (
	MinCriteria = 10
	MaxCriteria = 100
)

// HintAttendedExceedsTotal is shown when more lectures are attended than held.
const HintAttendedExceedsTotal = "Attended lectures cannot exceed total lectures"

// Values is the raw text of each field.
type Values struct {
	Total    string
	Attended string
	Criteria string
}

// FromInput pre-fills the fields from in. Zero counts stay blank.
func FromInput(in attendance.Input) Values {
	v := Values{Criteria: share.FormatCriteria(store.CriteriaOrDefault(in.Criteria))}
	if in.TotalLectures != 0 {
		v.Total = strconv.Itoa(in.TotalLectures)
	}
	if in.AttendedLectures != 0 {
		v.Attended = strconv.Itoa(in.AttendedLectures)
	}
	return v
}

// Input converts the field text. Unparseable counts become 0 and an empty or
// zero criteria becomes the default.
func (v Values) Input() attendance.Input {
	criteria, err := strconv.ParseFloat(strings.TrimSpace(v.Criteria), 64)
	if err != nil {
		criteria = 0
	}
	return attendance.Input{
		TotalLectures:    store.ParseCount(v.Total),
		AttendedLectures: store.ParseCount(v.Attended),
		Criteria:         store.CriteriaOrDefault(criteria),
	}
}

// Hint returns the inline warning for in, or "".
func Hint(in attendance.Input) string {
	if in.TotalLectures > 0 && in.AttendedLectures > in.TotalLectures {
		return HintAttendedExceedsTotal
	}
	return ""
}

// StatusLine summarises the inputs, or returns "" until a total is entered.
func StatusLine(in attendance.Input) string {
	if in.TotalLectures <= 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d lectures attended, targeting %s%% attendance",
		in.AttendedLectures, in.TotalLectures, share.FormatCriteria(in.Criteria))
}

// ValidateCount accepts blank text or digits only.
func ValidateCount(s string) error {
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return errors.New("enter digits only")
		}
	}
	return nil
}

// ValidateCriteria accepts a whole percentage between MinCriteria and
// MaxCriteria. Blank means the default.
func ValidateCriteria(s string) error {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("enter a whole percentage")
	}
	if n < MinCriteria || n > MaxCriteria {
		return fmt.Errorf("criteria must be between %d and %d", MinCriteria, MaxCriteria)
	}
	return nil
}

// Run shows the form pre-filled with initial and returns what was entered.
// Non-terminal input falls back to huh's accessible, line-based mode.
func Run(in io.Reader, out io.Writer, initial attendance.Input) (attendance.Input, error) {
	v := FromInput(initial)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Total lectures").
				Description("Lectures held so far").
				Placeholder("e.g. 40").
				Value(&v.Total).
				Validate(ValidateCount),
			huh.NewInput().
				Title("Attended lectures").
				Description("Lectures you were present for").
				Placeholder("e.g. 32").
				Value(&v.Attended).
				Validate(ValidateCount),
			huh.NewInput().
				Title("Attendance criteria (%)").
				Description(fmt.Sprintf("Required attendance, %d to %d", MinCriteria, MaxCriteria)).
				Placeholder(strconv.Itoa(attendance.DefaultCriteria)).
				Value(&v.Criteria).
				Validate(ValidateCriteria),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return attendance.Input{}, fmt.Errorf("form failed: %w", err)
	}

	v.Criteria = strings.TrimSuffix(strings.TrimSpace(v.Criteria), "%")
	result := v.Input()
	if hint := Hint(result); hint != "" {
		fmt.Fprintln(out, hint) //nolint:errcheck
	}
	if line := StatusLine(result); line != "" {
		fmt.Fprintln(out, line) //nolint:errcheck
	}
	return result, nil
}
