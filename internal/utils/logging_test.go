package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSlog(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(old)
	})

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestResultToSlogDebugDisabled(t *testing.T) {
	buf := captureSlog(t, slog.LevelInfo)

	in := attendance.Input{TotalLectures: 100, AttendedLectures: 80, Criteria: 75}
	ResultToSlog(in, attendance.Evaluate(in))
	assert.Equal(t, 0, buf.Len())
}

func TestResultToSlogDebugEnabled(t *testing.T) {
	buf := captureSlog(t, slog.LevelDebug)

	in := attendance.Input{TotalLectures: 100, AttendedLectures: 70, Criteria: 75}
	ResultToSlog(in, attendance.Evaluate(in))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "Attendance evaluated", logEntry["msg"])
	assert.Equal(t, "critical", logEntry["status"])
	assert.Equal(t, float64(100), logEntry["totalLectures"])
	assert.Equal(t, float64(70), logEntry["attendedLectures"])
	assert.Equal(t, float64(75), logEntry["criteria"])
	assert.Equal(t, float64(70), logEntry["currentAttendance"])
	assert.Equal(t, float64(20), logEntry["mustAttend"])
	assert.NotContains(t, logEntry, "canBunk")
	assert.NotContains(t, logEntry, "atThreshold")
}

func TestResultToSlogAtThreshold(t *testing.T) {
	buf := captureSlog(t, slog.LevelDebug)

	in := attendance.Input{TotalLectures: 100, AttendedLectures: 75, Criteria: 75}
	ResultToSlog(in, attendance.Evaluate(in))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, true, logEntry["atThreshold"])
	assert.NotContains(t, logEntry, "canBunk")
	assert.NotContains(t, logEntry, "mustAttend")
}

func TestResultToSlogAwaiting(t *testing.T) {
	buf := captureSlog(t, slog.LevelDebug)

	ResultToSlog(attendance.Input{Criteria: 75}, attendance.Evaluate(attendance.Input{Criteria: 75}))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "awaiting", logEntry["status"])
	assert.NotContains(t, logEntry, "currentAttendance")
}

func TestAddIf(t *testing.T) {
	attrs := addIf([]any{}, "zero", 0)
	assert.Empty(t, attrs)

	attrs = addIf(attrs, "name", "x")
	assert.Equal(t, []any{"name", "x"}, attrs)
}
