package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/card"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPrinter groups digits in large counts.
var numberPrinter = message.NewPrinter(language.English)

var tableHeader = []string{"COURSE", "ATTENDED", "TOTAL", "CRITERIA", "ATTENDANCE", "BUNK", "ATTEND", "STATUS"}

// WriteTable prints rows as an aligned table followed by a one-line summary.
// Status cells are coloured when color is set.
func WriteTable(w io.Writer, rows []Row, color bool) error {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, tableHeader)
	for _, r := range rows {
		cells = append(cells, rowCells(r))
	}

	widths := make([]int, len(tableHeader))
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for n, row := range cells {
		for i, cell := range row {
			last := i == len(row)-1
			text := cell
			if !last {
				text = runewidth.FillRight(cell, widths[i])
			}
			if last && n > 0 {
				text = card.Paint(rows[n-1].Result.Status, text, color)
			}
			b.WriteString(text)
			if !last {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	s := Summarize(rows)
	b.WriteString("\n")
	b.WriteString(plural(s.Courses, "course"))
	b.WriteString(numberPrinter.Sprintf(", %d on track, %d in caution, %d critical", s.OnTrack, s.Warning, s.Critical))
	if s.Awaiting > 0 {
		b.WriteString(numberPrinter.Sprintf(", %d incomplete", s.Awaiting))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func rowCells(r Row) []string {
	in, res := r.Input, r.Result
	cells := []string{
		r.Course,
		numberPrinter.Sprintf("%d", in.AttendedLectures),
		numberPrinter.Sprintf("%d", in.TotalLectures),
		share.FormatCriteria(in.Criteria) + "%",
	}
	if res.Status == attendance.StatusAwaiting {
		return append(cells, "-", "-", "-", res.Message)
	}
	return append(cells,
		fmt.Sprintf("%.1f%%", res.CurrentAttendance),
		count(res.CanBunk),
		count(res.MustAttend),
		card.StatusLabel(res.Status),
	)
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	if n == attendance.Unbounded {
		return share.FormatCount(n)
	}
	return numberPrinter.Sprintf("%d", n)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return numberPrinter.Sprintf("%d %ss", n, word)
}
