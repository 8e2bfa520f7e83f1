package card

import (
	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/fatih/color"
)

// Tone groups statuses that share a colour.
type Tone string

const (
	ToneGood    Tone = "good"
	ToneCaution Tone = "caution"
	ToneBad     Tone = "bad"
	ToneMuted   Tone = "muted"
)

// StatusLabel returns the badge text for a status, or "" for awaiting.
func StatusLabel(status attendance.Status) string {
	switch status {
	case attendance.StatusPerfect:
		return "Perfect Attendance"
	case attendance.StatusSafe:
		return "Safe Zone"
	case attendance.StatusWarning:
		return "Caution Zone"
	case attendance.StatusCritical:
		return "Critical Zone"
	default:
		return ""
	}
}

// StatusTone maps a status onto the badge colour family.
func StatusTone(status attendance.Status) Tone {
	switch status {
	case attendance.StatusPerfect, attendance.StatusSafe:
		return ToneGood
	case attendance.StatusWarning:
		return ToneCaution
	case attendance.StatusCritical:
		return ToneBad
	default:
		return ToneMuted
	}
}

// StatusIcon is the glyph printed in front of the badge.
func StatusIcon(status attendance.Status) string {
	switch status {
	case attendance.StatusPerfect:
		return "✔"
	case attendance.StatusSafe:
		return "↗"
	case attendance.StatusWarning:
		return "⚠"
	case attendance.StatusCritical:
		return "↘"
	default:
		return ""
	}
}

// toneColor returns the terminal colour for a tone. fatih/color honours
// NO_COLOR and non-terminal output through color.NoColor.
func toneColor(tone Tone) *color.Color {
	switch tone {
	case ToneGood:
		return color.New(color.FgGreen)
	case ToneCaution:
		return color.New(color.FgYellow)
	case ToneBad:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

// Paint colours s in the tone of status. With enabled false s is returned
// unchanged.
func Paint(status attendance.Status, s string, enabled bool) string {
	return paintTone(StatusTone(status), s, enabled)
}

func paintTone(tone Tone, s string, enabled bool) string {
	if !enabled {
		return s
	}
	c := toneColor(tone)
	c.EnableColor()
	return c.Sprint(s)
}

// hexColor is used where no terminal is involved (HTML export).
func hexColor(tone Tone) string {
	switch tone {
	case ToneGood:
		return "#059669"
	case ToneCaution:
		return "#d97706"
	case ToneBad:
		return "#dc2626"
	default:
		return "#6b7280"
	}
}
