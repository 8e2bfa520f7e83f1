package card

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }

func evaluate(total, attended int, criteria float64) (attendance.Input, attendance.Result) {
	in := attendance.Input{TotalLectures: total, AttendedLectures: attended, Criteria: criteria}
	return in, attendance.Evaluate(in)
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status attendance.Status
		label  string
		tone   Tone
	}{
		{attendance.StatusPerfect, "Perfect Attendance", ToneGood},
		{attendance.StatusSafe, "Safe Zone", ToneGood},
		{attendance.StatusWarning, "Caution Zone", ToneCaution},
		{attendance.StatusCritical, "Critical Zone", ToneBad},
		{attendance.StatusAwaiting, "", ToneMuted},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.label, StatusLabel(tt.status))
			assert.Equal(t, tt.tone, StatusTone(tt.status))
		})
	}
}

func TestText_Awaiting(t *testing.T) {
	_, result := evaluate(0, 0, 75)
	got := Text(result, Options{})

	assert.Equal(t, "Your Results\n\n  📊 Enter your lecture details to see results\n", got)
}

func TestText_CanBunk(t *testing.T) {
	_, result := evaluate(100, 80, 75)
	got := Text(result, Options{})

	assert.Contains(t, got, "  80.0%\n  Current Attendance\n")
	assert.Contains(t, got, "  Lectures you can bunk        6\n")
	assert.Contains(t, got, "⚠ Caution Zone")
	assert.Contains(t, got, attendance.MessageCanBunk)
	assert.NotContains(t, got, "must attend")
	assert.NotContains(t, got, "\x1b[")
}

func TestText_MustAttend(t *testing.T) {
	_, result := evaluate(100, 70, 75)
	got := Text(result, Options{})

	assert.Contains(t, got, "Lectures you must attend")
	assert.Contains(t, got, " 20\n")
	assert.Contains(t, got, "↘ Critical Zone")
}

func TestText_AtThreshold(t *testing.T) {
	_, result := evaluate(100, 75, 75)
	got := Text(result, Options{})

	assert.Contains(t, got, "At Threshold")
	assert.Contains(t, got, attendance.MessageAtThreshold)
}

func TestText_PerfectWithoutAllowanceHasNoThresholdRow(t *testing.T) {
	_, result := evaluate(1, 1, 75)
	got := Text(result, Options{})

	assert.Contains(t, got, "✔ Perfect Attendance")
	assert.NotContains(t, got, "At Threshold")
}

func TestText_Color(t *testing.T) {
	_, result := evaluate(100, 70, 75)
	got := Text(result, Options{Color: true})

	assert.Contains(t, got, "\x1b[31m")
}

func TestMarkdown(t *testing.T) {
	in, result := evaluate(100, 90, 75)
	got := Markdown(result, in, Options{Now: fixedNow})

	want := strings.Join([]string{
		"# BunkApp",
		"",
		"Smart Attendance Calculator",
		"",
		"## Your Results",
		"",
		"**90.0%** Current Attendance",
		"",
		"| Metric | Value |",
		"| --- | --- |",
		"| Lectures you can bunk | 20 |",
		"",
		"**Safe Zone**: On track! You can bunk responsibly.",
		"",
		"- Total lectures: 100",
		"- Attended lectures: 90",
		"- Attendance criteria: 75%",
		"",
		"_Generated on 2025-03-14 at 09:30:00_",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestHTML(t *testing.T) {
	in, result := evaluate(100, 70, 75)
	got, err := HTML(result, in, Options{Now: fixedNow})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Contains(t, got, "<h1>BunkApp</h1>")
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>Lectures you must attend</td>")
	assert.Contains(t, got, "<td>20</td>")
	assert.Contains(t, got, `<p class="status">Critical Zone</p>`)
	assert.Contains(t, got, "#dc2626")
	assert.Contains(t, got, "Generated on 2025-03-14 at 09:30:00")
}

func TestRender_JSON(t *testing.T) {
	in, result := evaluate(100, 75, 75)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, in, result, Options{}))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, in, report.Input)
	assert.Equal(t, result, report.Result)
	assert.Equal(t, "Caution Zone", report.Label)
	assert.True(t, report.AtThreshold)
	assert.Contains(t, buf.String(), `"attendanceCriteria": 75`)
}

func TestRender_YAML(t *testing.T) {
	in, result := evaluate(100, 90, 75)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, in, result, Options{}))

	var report Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, attendance.StatusSafe, report.Result.Status)
	assert.Equal(t, 20, report.Result.CanBunk)
}

func TestRender_UnknownFormat(t *testing.T) {
	in, result := evaluate(100, 90, 75)
	err := Render(&bytes.Buffer{}, "png", in, result, Options{})
	assert.ErrorContains(t, err, `unknown format "png"`)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	in, result := evaluate(100, 80, 75)

	path, err := Export(dir, "", FormatHTML, in, result, Options{Color: true, Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "attendance-report.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Caution Zone")

	path, err = Export(dir, "week-12", FormatMarkdown, in, result, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "week-12.md"), path)
}

func TestExport_Rejects(t *testing.T) {
	in, result := evaluate(100, 80, 75)

	_, err := Export(t.TempDir(), "report", "png", in, result, Options{})
	assert.Error(t, err)

	_, err = Export(t.TempDir(), "../escape", FormatHTML, in, result, Options{})
	assert.ErrorContains(t, err, "path separators")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	// Wide runes occupy two cells.
	assert.Equal(t, "日本 ", padRight("日本", 5))
}
