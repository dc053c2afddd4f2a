// Package metrics contains derived per-student academic metrics: GPA,
// attendance rate, and the standing classification built from them.
package metrics

import (
	"errors"
	"math"
)

// ══════════════════════════════════════════════════════════════════════════════
// GPA SCALE
// ══════════════════════════════════════════════════════════════════════════════

// MaxGPA is the top of the GPA scale.
const MaxGPA = 4.0

// GPAScale maps a 0-100 mean score onto the 0-4 GPA range by straight
// division. This is a deliberate simplification - assessments are not
// credit-weighted. The divisor is configurable because historical report
// variants disagreed on it; 25 is the canonical value.
type GPAScale struct {
	Divisor float64
}

// DefaultGPAScale divides by 25, mapping 0-100 onto 0-4.
func DefaultGPAScale() GPAScale {
	return GPAScale{Divisor: 25.0}
}

// FromMeanScore converts a mean score to a GPA clamped to [0, MaxGPA].
func (g GPAScale) FromMeanScore(mean float64) float64 {
	divisor := g.Divisor
	if divisor <= 0 {
		divisor = 25.0
	}
	gpa := mean / divisor
	return math.Min(math.Max(gpa, 0), MaxGPA)
}

// ══════════════════════════════════════════════════════════════════════════════
// STANDING
// ══════════════════════════════════════════════════════════════════════════════

// Standing is the academic-risk classification derived from attendance rate
// and GPA.
type Standing string

const (
	StandingHonorRoll    Standing = "Honor Roll"
	StandingGoodStanding Standing = "Good Standing"
	StandingWarning      Standing = "Academic Warning"
)

// Threshold ladder for standing classification. Attendance is evaluated
// first: poor attendance puts a student on warning regardless of GPA.
const (
	// WarningAttendanceBelow: attendance rate under this is Academic Warning.
	WarningAttendanceBelow = 75.0

	// HonorRollMinGPA and HonorRollMinAttendance must both hold for Honor Roll.
	HonorRollMinGPA        = 3.5
	HonorRollMinAttendance = 90.0
)

// Classify applies the threshold ladder, attendance-first then GPA.
func Classify(gpa, attendanceRate float64) Standing {
	if attendanceRate < WarningAttendanceBelow {
		return StandingWarning
	}
	if gpa >= HonorRollMinGPA && attendanceRate >= HonorRollMinAttendance {
		return StandingHonorRoll
	}
	return StandingGoodStanding
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE STATS
// ══════════════════════════════════════════════════════════════════════════════

// DefaultAttendanceRate is assumed for students with zero attendance events.
// It is an assumption, not a measurement: absence of muster records is
// treated as full attendance rather than zero.
const DefaultAttendanceRate = 100.0

// StudentStats holds the derived metrics for one student, keyed by the
// canonical email. Stats are computed from the raw grade and attendance
// logs independently of the clean student records and joined at load time.
type StudentStats struct {
	// Email is the student natural key.
	Email string

	// MeanScore is the arithmetic mean of all valid assessment scores.
	MeanScore float64

	// GradedCount is the number of valid scores behind MeanScore.
	GradedCount int

	// GPA is MeanScore mapped through the GPAScale.
	GPA float64

	// AttendanceRate is the present percentage, 0-100, two decimals.
	AttendanceRate float64

	// AttendanceEvents is the number of muster records behind the rate;
	// zero means AttendanceRate is the documented default.
	AttendanceEvents int

	Standing Standing
}

// ErrStatsNotFound indicates no stats row matched the given email.
var ErrStatsNotFound = errors.New("student stats not found")

// Round2 rounds to two decimal places, the precision stored for rates.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
