// Package batch evaluates attendance for several courses at once, read from
// YAML or JSON course files.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/validation"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxConcurrentLoads bounds how many course files are read at once.
const maxConcurrentLoads = 8

// Course is one entry of a course file.
type Course struct {
	Name             string   `yaml:"name" json:"name"`
	TotalLectures    int      `yaml:"totalLectures" json:"totalLectures"`
	AttendedLectures int      `yaml:"attendedLectures" json:"attendedLectures"`
	Criteria         *float64 `yaml:"attendanceCriteria,omitempty" json:"attendanceCriteria,omitempty"`
}

// File is a parsed course file.
type File struct {
	Path     string   `yaml:"-" json:"-"`
	Criteria *float64 `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	Courses  []Course `yaml:"courses" json:"courses"`
}

// Row is the evaluation of a single course.
type Row struct {
	File   string            `json:"file" yaml:"file"`
	Course string            `json:"course" yaml:"course"`
	Input  attendance.Input  `json:"input" yaml:"input"`
	Result attendance.Result `json:"result" yaml:"result"`
}

// SchemaError reports a course file that failed validation.
type SchemaError struct {
	Path   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is not a valid course file:\n  %s", e.Path, strings.Join(e.Errors, "\n  "))
}

// LoadFile reads and validates one course file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course file: %w", err)
	}
	if errs := validation.ValidateCoursesBytes(data); len(errs) > 0 {
		return nil, &SchemaError{Path: path, Errors: errs}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	return &f, nil
}

// LoadFiles reads every path concurrently. Files come back in the order
// given; the first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFile(p)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Evaluate evaluates every course. A course's own criteria wins over its
// file's, which wins over defaultCriteria.
func Evaluate(files []*File, defaultCriteria float64) []Row {
	var rows []Row
	for _, f := range files {
		fileCriteria := defaultCriteria
		if f.Criteria != nil {
			fileCriteria = *f.Criteria
		}
		for _, c := range f.Courses {
			criteria := fileCriteria
			if c.Criteria != nil {
				criteria = *c.Criteria
			}
			in := attendance.Input{
				TotalLectures:    c.TotalLectures,
				AttendedLectures: c.AttendedLectures,
				Criteria:         criteria,
			}
			rows = append(rows, Row{
				File:   filepath.Base(f.Path),
				Course: c.Name,
				Input:  in,
				Result: attendance.Evaluate(in),
			})
		}
	}
	return rows
}

// Summary counts rows per status.
type Summary struct {
	Courses  int `json:"courses" yaml:"courses"`
	Critical int `json:"critical" yaml:"critical"`
	Warning  int `json:"warning" yaml:"warning"`
	OnTrack  int `json:"onTrack" yaml:"onTrack"`
	Awaiting int `json:"awaiting" yaml:"awaiting"`
}

// Summarize tallies rows.
func Summarize(rows []Row) Summary {
	s := Summary{Courses: len(rows)}
	for _, r := range rows {
		switch r.Result.Status {
		case attendance.StatusCritical:
			s.Critical++
		case attendance.StatusWarning:
			s.Warning++
		case attendance.StatusSafe, attendance.StatusPerfect:
			s.OnTrack++
		default:
			s.Awaiting++
		}
	}
	return s
}
