package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/card"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/bunkapp/bunk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalc_FromFlags(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "calc", "--total", "100", "--attended", "80")
	require.NoError(t, err)

	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "Lectures you can bunk")
	assert.Contains(t, out, "Caution Zone")
	assert.Contains(t, out, attendance.MessageCanBunk)
	assert.NotContains(t, out, "\x1b[")

	data, err := os.ReadFile(filepath.Join(a.cfg.State.Dir, store.SnapshotKey+".json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalLectures":"100","attendedLectures":"80","attendanceCriteria":[75]}`, string(data))
}

func TestCalc_UsesSavedInputs(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "calc", "-t", "100", "-a", "90")
	require.NoError(t, err)

	out, err := runCommand(t, a, nil, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "Safe Zone")
}

func TestCalc_CriteriaOverridesSavedInputs(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "calc", "-t", "100", "-a", "90")
	require.NoError(t, err)

	out, err := runCommand(t, a, nil, "calc", "--criteria", "95%", "--format", "json")
	require.NoError(t, err)

	var report card.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, attendance.Input{TotalLectures: 100, AttendedLectures: 90, Criteria: 95}, report.Input)
	assert.Equal(t, attendance.StatusCritical, report.Result.Status)
	assert.Equal(t, 100, report.Result.MustAttend)
}

func TestCalc_NothingSaved(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, attendance.MessageAwaiting)
}

func TestCalc_NoSave(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "9", "--no-save")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(a.cfg.State.Dir, store.SnapshotKey+".json"))
}

func TestCalc_InvalidCounts(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "12")
	require.NoError(t, err)
	assert.Contains(t, out, attendance.MessageInvalid)
}

func TestCalc_InvalidCriteriaFlag(t *testing.T) {
	a := newTestApp(t)

	for _, v := range []string{"120", "abc", "-5%"} {
		_, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "8", "--criteria", v)
		assert.Error(t, err, v)
	}
}

func TestCalc_UnknownFormat(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "8", "--format", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCalc_FormatFromConfig(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Output.Format = card.FormatMarkdown

	out, err := runCommand(t, a, nil, "calc", "-t", "100", "-a", "70")
	require.NoError(t, err)
	assert.Contains(t, out, "| Lectures you must attend | 20 |")
	assert.Contains(t, out, "_Generated on 2025-03-14 at 09:30:00_")
}

func TestCalc_Strict(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "calc", "-t", "100", "-a", "70", "--strict")
	require.Error(t, err)
	assert.Contains(t, out, "Critical Zone")

	var belowErr *BelowThresholdError
	require.True(t, errors.As(err, &belowErr))
	assert.Equal(t, "attendance 70.0% is below the required 75%: attend 20 more lecture(s)", belowErr.Message)
}

func TestCalc_StrictPasses(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "calc", "-t", "100", "-a", "75", "--strict")
	require.NoError(t, err)
}

func TestCalc_WithMockStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := store.NewMockStore(ctrl)
	mock.EXPECT().Put(gomock.Any(), store.SnapshotKey,
		[]byte(`{"totalLectures":"40","attendedLectures":"30","attendanceCriteria":[75]}`)).Return(nil)

	a := newTestApp(t)
	a.st = mock

	out, err := runCommand(t, a, nil, "calc", "-t", "40", "-a", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "At Threshold")
}

func TestCalc_SaveFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := store.NewMockStore(ctrl)
	mock.EXPECT().Put(gomock.Any(), store.SnapshotKey, gomock.Any()).Return(errors.New("quota exceeded"))

	a := newTestApp(t)
	a.st = mock

	_, err := runCommand(t, a, nil, "calc", "-t", "40", "-a", "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCalc_CorruptStateIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := store.NewMockStore(ctrl)
	mock.EXPECT().Get(gomock.Any(), store.SnapshotKey).Return([]byte(`{"totalLectures":4`), nil)

	a := newTestApp(t)
	a.st = mock

	out, err := runCommand(t, a, nil, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, attendance.MessageAwaiting)
}

func TestCalc_StateDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := store.NewMockStore(ctrl) // any call fails the test

	a := newTestApp(t)
	a.cfg.State.Enabled = utils.Ptr(false)
	a.st = mock

	_, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "10")
	require.NoError(t, err)
	_, err = runCommand(t, a, nil, "calc")
	require.NoError(t, err)
}

func TestRoot_ConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bunk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  criteria: 80\nstate:\n  enabled: false\noutput:\n  format: json\n"), 0644))

	a := &app{now: fixedNow}
	out, err := runCommand(t, a, nil, "calc", "-t", "10", "-a", "8", "--config", path)
	require.NoError(t, err)

	var report card.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 80.0, report.Input.Criteria)
	assert.Equal(t, attendance.StatusWarning, report.Result.Status)
	assert.True(t, report.AtThreshold)
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bunk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("state:\n  backend: redis\n"), 0644))

	_, err := runCommand(t, &app{}, nil, "calc", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state.backend")
}
