// Package card renders an attendance evaluation as a result card: a terminal
// view, a Markdown document and a standalone HTML export.
package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/share"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Render.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists every format accepted by Render.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

const (
	labelCanBunk    = "Lectures you can bunk"
	labelMustAttend = "Lectures you must attend"
	labelThreshold  = "At Threshold"
	metricWidth     = 28
)

// Options tweaks rendering.
type Options struct {
	// Color enables ANSI colours in the text view.
	Color bool
	// Now stamps exported documents. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Report is the machine-readable form of a card.
type Report struct {
	Input       attendance.Input  `json:"input" yaml:"input"`
	Result      attendance.Result `json:"result" yaml:"result"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	AtThreshold bool              `json:"atThreshold" yaml:"atThreshold"`
}

// NewReport pairs a result with the input it was computed from.
func NewReport(in attendance.Input, result attendance.Result) Report {
	return Report{
		Input:       in,
		Result:      result,
		Label:       StatusLabel(result.Status),
		AtThreshold: result.AtThreshold(),
	}
}

// Render writes the card for result in the requested format.
func Render(w io.Writer, format string, in attendance.Input, result attendance.Result, opts Options) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, Text(result, opts))
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(NewReport(in, result), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewReport(in, result)); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(result, in, opts))
		return err
	case FormatHTML:
		doc, err := HTML(result, in, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, doc)
		return err
	default:
		return fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Text renders the terminal view of the card.
func Text(result attendance.Result, opts Options) string {
	var b strings.Builder
	b.WriteString("Your Results\n\n")

	if result.Status == attendance.StatusAwaiting {
		fmt.Fprintf(&b, "  📊 %s\n", result.Message)
		return b.String()
	}

	paint := func(tone Tone, s string) string {
		return paintTone(tone, s, opts.Color)
	}

	fmt.Fprintf(&b, "  %.1f%%\n", result.CurrentAttendance)
	b.WriteString("  Current Attendance\n\n")

	for _, m := range metrics(result) {
		fmt.Fprintf(&b, "  %s %s\n", padRight(m.label, metricWidth), paint(m.tone, m.value))
	}
	b.WriteString("\n")

	tone := StatusTone(result.Status)
	fmt.Fprintf(&b, "  %s\n", paint(tone, StatusIcon(result.Status)+" "+StatusLabel(result.Status)))
	fmt.Fprintf(&b, "  %s\n", result.Message)
	return b.String()
}

// Markdown renders the card as a printable document including the inputs.
func Markdown(result attendance.Result, in attendance.Input, opts Options) string {
	var b strings.Builder
	b.WriteString("# BunkApp\n\n")
	b.WriteString("Smart Attendance Calculator\n\n")
	b.WriteString("## Your Results\n\n")

	if result.Status == attendance.StatusAwaiting {
		fmt.Fprintf(&b, "📊 %s\n", result.Message)
		return b.String()
	}

	fmt.Fprintf(&b, "**%.1f%%** Current Attendance\n\n", result.CurrentAttendance)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	for _, m := range metrics(result) {
		fmt.Fprintf(&b, "| %s | %s |\n", m.label, m.value)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**%s**: %s\n\n", StatusLabel(result.Status), result.Message)

	fmt.Fprintf(&b, "- Total lectures: %d\n", in.TotalLectures)
	fmt.Fprintf(&b, "- Attended lectures: %d\n", in.AttendedLectures)
	fmt.Fprintf(&b, "- Attendance criteria: %s%%\n\n", share.FormatCriteria(in.Criteria))

	now := opts.now()
	fmt.Fprintf(&b, "_Generated on %s at %s_\n", now.Format("2006-01-02"), now.Format("15:04:05"))
	return b.String()
}

// HTML converts the Markdown card into a standalone page.
func HTML(result attendance.Result, in attendance.Input, opts Options) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(result, in, opts)), &body); err != nil {
		return "", fmt.Errorf("converting card to HTML: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Attendance report</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: system-ui, -apple-system, sans-serif; max-width: 800px; margin: 20px auto; color: #000000; }\n")
	b.WriteString("main { border: 1px solid #e5e7eb; border-radius: 12px; padding: 20px; }\n")
	b.WriteString("table { border-collapse: collapse; }\n")
	b.WriteString("td, th { border: 1px solid #e5e7eb; padding: 8px 16px; text-align: left; }\n")
	fmt.Fprintf(&b, ".status { color: %s; }\n", hexColor(StatusTone(result.Status)))
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<main class=\"status-%s\">\n", html.EscapeString(string(result.Status)))
	if label := StatusLabel(result.Status); label != "" {
		fmt.Fprintf(&b, "<p class=\"status\">%s</p>\n", html.EscapeString(label))
	}
	b.Write(body.Bytes())
	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String(), nil
}

type metric struct {
	label string
	value string
	tone  Tone
}

// metrics lists the rows shown under the percentage. At most one of the bunk
// and attend rows appears; the threshold row stands in when neither does.
func metrics(result attendance.Result) []metric {
	var out []metric
	if result.CanBunk > 0 {
		out = append(out, metric{label: labelCanBunk, value: share.FormatCount(result.CanBunk), tone: ToneGood})
	}
	if result.MustAttend > 0 {
		out = append(out, metric{label: labelMustAttend, value: share.FormatCount(result.MustAttend), tone: ToneBad})
	}
	if result.AtThreshold() {
		out = append(out, metric{label: "Status", value: labelThreshold, tone: ToneCaution})
	}
	return out
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
