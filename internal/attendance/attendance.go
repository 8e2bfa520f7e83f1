// Package attendance computes whether a lecture attendance record meets a
// required percentage, and how many lectures can be skipped or must still be
// attended to stay compliant.
package attendance

import "math"

// DefaultCriteria is the required attendance percentage used when none is given.
const DefaultCriteria = 75

// Unbounded stands in for a count with no finite answer: the bunk allowance
// at a criteria of 0%, or the lectures needed to climb back to 100% once one
// has been missed.
const Unbounded = math.MaxInt32

// Status classifies an evaluation.
type Status string

const (
	StatusAwaiting Status = "awaiting"
	StatusPerfect  Status = "perfect"
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Messages shown alongside each status.
const (
	MessageAwaiting      = "Enter your lecture details to see results"
	MessageInvalid       = "Please check your input values"
	MessagePerfect       = "Perfect attendance! Impressive discipline."
	MessageCanBunk       = "On track! You can bunk responsibly."
	MessageAtThreshold   = "You're at the threshold. Attend carefully."
	MessageBelowCriteria = "Careful—you're below the threshold. Attend more lectures."
)

// safeMargin is how many percentage points above the criteria count as safe.
const safeMargin = 10

// Input is a snapshot of the lecture counts and the required percentage.
type Input struct {
	TotalLectures    int     `json:"totalLectures" yaml:"totalLectures" mapstructure:"totalLectures"`
	AttendedLectures int     `json:"attendedLectures" yaml:"attendedLectures" mapstructure:"attendedLectures"`
	Criteria         float64 `json:"attendanceCriteria" yaml:"attendanceCriteria" mapstructure:"attendanceCriteria"`
}

// Result is the outcome of Evaluate.
type Result struct {
	CurrentAttendance float64 `json:"currentAttendance" yaml:"currentAttendance"`
	CanBunk           int     `json:"canBunk" yaml:"canBunk"`
	MustAttend        int     `json:"mustAttend" yaml:"mustAttend"`
	Status            Status  `json:"status" yaml:"status"`
	Message           string  `json:"message" yaml:"message"`
}

// AtThreshold reports whether the record sits exactly on the criteria with no
// lectures to spare and none owed. Perfect and awaiting results never count.
func (r Result) AtThreshold() bool {
	if r.Status == StatusAwaiting || r.Status == StatusPerfect {
		return false
	}
	return r.CanBunk == 0 && r.MustAttend == 0
}

// Evaluate classifies in and derives the bunk allowance or the number of
// lectures still needed. It never fails: incomplete or contradictory input
// yields StatusAwaiting.
func Evaluate(in Input) Result {
	total, attended, criteria := in.TotalLectures, in.AttendedLectures, in.Criteria

	if total == 0 {
		return Result{Status: StatusAwaiting, Message: MessageAwaiting}
	}
	if attended > total {
		return Result{Status: StatusAwaiting, Message: MessageInvalid}
	}
	if attended < 0 || total < 0 || criteria < 0 || criteria > 100 || math.IsNaN(criteria) {
		return Result{Status: StatusAwaiting, Message: MessageInvalid}
	}

	current := float64(attended) / float64(total) * 100
	fraction := criteria / 100

	if attended == total {
		canBunk := 0
		if criteria != 100 {
			canBunk = toCount(math.Floor(float64(total) * (1 - fraction)))
		}
		return Result{
			CurrentAttendance: current,
			CanBunk:           canBunk,
			Status:            StatusPerfect,
			Message:           MessagePerfect,
		}
	}

	if current >= criteria {
		canBunk := 0
		if criteria < 100 {
			canBunk = bunkCount(attended, total, fraction)
		}
		status := StatusWarning
		if current >= criteria+safeMargin {
			status = StatusSafe
		}
		message := MessageAtThreshold
		if canBunk > 0 {
			message = MessageCanBunk
		}
		return Result{
			CurrentAttendance: current,
			CanBunk:           canBunk,
			Status:            status,
			Message:           message,
		}
	}

	return Result{
		CurrentAttendance: current,
		MustAttend:        attendCount(attended, total, fraction),
		Status:            StatusCritical,
		Message:           MessageBelowCriteria,
	}
}

// Percentage returns attended as a percentage of total, or 0 when the pair
// does not describe a valid record.
func Percentage(attended, total int) float64 {
	if total <= 0 || attended < 0 || attended > total {
		return 0
	}
	return float64(attended) / float64(total) * 100
}

// Bunkable returns how many more lectures can be skipped while staying at or
// above requiredPct. It returns 0 for invalid input, a 100% requirement, or a
// record that is already below the requirement.
func Bunkable(attended, total int, requiredPct float64) int {
	if total <= 0 || requiredPct >= 100 || math.IsNaN(requiredPct) {
		return 0
	}
	if attended < 0 || requiredPct < 0 || attended > total {
		return 0
	}
	current := float64(attended) / float64(total) * 100
	if current < requiredPct {
		return 0
	}
	return bunkCount(attended, total, requiredPct/100)
}

// Required returns how many consecutive lectures must be attended to reach
// requiredPct. It returns 0 for invalid input, a record already at or above
// the requirement, and a 100% requirement after any missed lecture, which no
// number of lectures can restore.
func Required(attended, total int, requiredPct float64) int {
	if total <= 0 || requiredPct <= 0 || requiredPct > 100 || math.IsNaN(requiredPct) {
		return 0
	}
	if attended < 0 || attended > total {
		return 0
	}
	current := float64(attended) / float64(total) * 100
	if current >= requiredPct {
		return 0
	}
	if requiredPct == 100 && attended < total {
		return 0
	}
	return attendCount(attended, total, requiredPct/100)
}

// bunkCount solves attended / (total + n) >= fraction for the largest whole n.
// The product is converted explicitly so it is rounded before the subtraction
// on every architecture.
func bunkCount(attended, total int, fraction float64) int {
	surplus := float64(attended) - float64(fraction*float64(total))
	return toCount(math.Floor(surplus / fraction))
}

// attendCount solves (attended + n) / (total + n) >= fraction for the smallest
// whole n.
func attendCount(attended, total int, fraction float64) int {
	deficit := float64(fraction*float64(total)) - float64(attended)
	return toCount(math.Ceil(deficit / (1 - fraction)))
}

// toCount clamps a floored or ceiled quotient into [0, Unbounded]. Division
// by a zero fraction yields +Inf (or NaN for 0/0), which has no int form.
func toCount(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= Unbounded:
		return Unbounded
	case v <= 0:
		return 0
	default:
		return int(v)
	}
}
