package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const coursesYAML = `criteria: 75
courses:
  - name: Operating Systems
    totalLectures: 40
    attendedLectures: 34
  - name: Compilers
    totalLectures: 30
    attendedLectures: 18
`

func writeCourses(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestBatch_Table(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "batch", writeCourses(t, coursesYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "COURSE")
	assert.Contains(t, out, "Operating Systems")
	assert.Contains(t, out, "Critical Zone")
	assert.Contains(t, out, "2 courses, 1 on track, 0 in caution, 1 critical")
}

func TestBatch_JSON(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "batch", "--format", "json", writeCourses(t, coursesYAML))
	require.NoError(t, err)

	var report batchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Courses, 2)
	assert.Equal(t, "Compilers", report.Courses[1].Course)
	assert.Equal(t, 18, report.Courses[1].Result.MustAttend)
	assert.Equal(t, 1, report.Summary.Critical)
}

func TestBatch_YAML(t *testing.T) {
	a := newTestApp(t)

	out, err := runCommand(t, a, nil, "batch", "-f", "yaml", writeCourses(t, coursesYAML))
	require.NoError(t, err)

	var report batchReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.Courses)
}

func TestBatch_CriteriaFlagAppliesWhenFileHasNone(t *testing.T) {
	a := newTestApp(t)
	p := writeCourses(t, "courses:\n  - name: Maths\n    totalLectures: 10\n    attendedLectures: 6\n")

	out, err := runCommand(t, a, nil, "batch", "--criteria", "50", "--format", "json", p)
	require.NoError(t, err)

	var report batchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 50.0, report.Courses[0].Input.Criteria)
	assert.Equal(t, 2, report.Courses[0].Result.CanBunk)
}

func TestBatch_Strict(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "batch", "--strict", writeCourses(t, coursesYAML))
	require.Error(t, err)

	var belowErr *BelowThresholdError
	require.True(t, errors.As(err, &belowErr))
	assert.Equal(t, "1 course(s) below the attendance criteria: Compilers", belowErr.Message)
}

func TestBatch_InvalidFile(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "batch", writeCourses(t, "courses: nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a valid course file")
}

func TestBatch_RequiresFiles(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "batch")
	require.Error(t, err)
}

func TestBatch_UnknownFormat(t *testing.T) {
	a := newTestApp(t)

	_, err := runCommand(t, a, nil, "batch", "--format", "csv", writeCourses(t, coursesYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
