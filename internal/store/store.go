// Package store persists the last form inputs between runs. Persistence is
// best effort: a single fixed key, last write wins, and anything unreadable is
// treated as absent.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
	"github.com/bunkapp/bunk/internal/validation"
	"github.com/go-viper/mapstructure/v2"
)

//go:generate go tool mockgen -source=store.go -destination=store_mocks.go -package=store

// SnapshotKey is the key the form inputs are saved under.
const SnapshotKey = "bunkapp-inputs"

var (
	// ErrNotFound is returned by Get and Delete for a key that was never stored.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSnapshot wraps a stored document that failed validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Store is a small key-value store for serialized state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Snapshot is the persisted shape of the form. Counts are kept as the raw
// field text and the criteria as a one-element list, matching what the form
// edits.
type Snapshot struct {
	TotalLectures      string    `json:"totalLectures" mapstructure:"totalLectures"`
	AttendedLectures   string    `json:"attendedLectures" mapstructure:"attendedLectures"`
	AttendanceCriteria []float64 `json:"attendanceCriteria" mapstructure:"attendanceCriteria"`
}

// FromInput builds a snapshot for in.
func FromInput(in attendance.Input) Snapshot {
	return Snapshot{
		TotalLectures:      strconv.Itoa(in.TotalLectures),
		AttendedLectures:   strconv.Itoa(in.AttendedLectures),
		AttendanceCriteria: []float64{in.Criteria},
	}
}

// Input converts the snapshot into evaluator input. Unparseable counts become
// 0 and a missing or zero criteria becomes the default.
func (s Snapshot) Input() attendance.Input {
	criteria := 0.0
	if len(s.AttendanceCriteria) > 0 {
		criteria = s.AttendanceCriteria[0]
	}
	return attendance.Input{
		TotalLectures:    ParseCount(s.TotalLectures),
		AttendedLectures: ParseCount(s.AttendedLectures),
		Criteria:         CriteriaOrDefault(criteria),
	}
}

// ParseCount reads the leading decimal integer of s, ignoring leading
// whitespace and anything after the digits. It returns 0 when s has none.
func ParseCount(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of int range.
		return 0
	}
	return sign * n
}

// CriteriaOrDefault substitutes attendance.DefaultCriteria for a zero criteria.
func CriteriaOrDefault(c float64) float64 {
	if c == 0 {
		return attendance.DefaultCriteria
	}
	return c
}

// Load reads and validates the saved snapshot. It returns ErrNotFound when
// nothing was saved and an error wrapping ErrInvalidSnapshot when the stored
// document is malformed.
func Load(ctx context.Context, s Store) (Snapshot, error) {
	data, err := s.Get(ctx, SnapshotKey)
	if err != nil {
		return Snapshot{}, err
	}

	if errs := validation.ValidateSnapshotJSON(data); len(errs) > 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(errs, "; "))
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var snap Snapshot
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &snap,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("creating snapshot decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// Save writes in as the current snapshot.
func Save(ctx context.Context, s Store, in attendance.Input) error {
	data, err := json.Marshal(FromInput(in))
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := s.Put(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Restore returns the saved input, or the defaults and false when there is
// nothing usable. Failures are logged at debug level and otherwise ignored.
func Restore(ctx context.Context, s Store) (attendance.Input, bool) {
	snap, err := Load(ctx, s)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Debug("Ignoring saved inputs", "key", SnapshotKey, "error", err)
		}
		return attendance.Input{Criteria: attendance.DefaultCriteria}, false
	}
	return snap.Input(), true
}

// Clear removes the saved snapshot. Clearing an empty store is not an error.
func Clear(ctx context.Context, s Store) error {
	if err := s.Delete(ctx, SnapshotKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}
