// Package enrollment contains the domain model for course enrollments and
// the per-enrollment grade and attendance logs maintained by the
// administrative entry points. The ETL pipeline does not write these tables;
// they are fed one record at a time by the records CLI.
package enrollment

import (
	"errors"
	"strings"
	"time"
)

// Status tracks an enrollment's lifecycle.
type Status string

const (
	StatusEnrolled  Status = "Enrolled"
	StatusCompleted Status = "Completed"
	StatusWithdrawn Status = "Withdrawn"
)

// AttendanceStatus is the outcome recorded at muster.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceExcused AttendanceStatus = "Excused"
	AttendanceAWOL    AttendanceStatus = "AWOL"
)

// IsValid checks the status against the known set.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceExcused, AttendanceAWOL:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status counts toward the attendance
// rate. Late arrivals still mustered.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// ParseAttendanceStatus validates a raw status value.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	s := AttendanceStatus(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", ErrInvalidAttendanceStatus
	}
	return s, nil
}

var (
	// ErrAlreadyEnrolled indicates the student is already in the course.
	ErrAlreadyEnrolled = errors.New("student already enrolled in course")

	// ErrEnrollmentNotFound indicates no active enrollment matched.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrInvalidScore indicates a score outside [0, 100].
	ErrInvalidScore = errors.New("invalid score: must be between 0 and 100")

	// ErrInvalidAttendanceStatus indicates an unrecognized muster status.
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
)

// ValidScore reports whether a score is within the assessment range.
func ValidScore(score float64) bool {
	return score >= 0 && score <= 100
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID        int64
	StudentID int64
	CourseID  int64
	StartDate time.Time
	Status    Status
}

// Grade is one assessment result within an enrollment.
type Grade struct {
	ID             int64
	EnrollmentID   int64
	AssessmentType string
	Score          float64
	Weight         float64
	AssessmentDate time.Time
	Remarks        string
}

// Attendance is one muster outcome for a student in a course.
type Attendance struct {
	ID         int64
	StudentID  int64
	CourseID   int64
	MusterDate time.Time
	Status     AttendanceStatus
	Remarks    string
}

// RosterEntry is one row of a course roster report.
type RosterEntry struct {
	ServiceNumber string
	FirstName     string
	LastName      string
	Email         string
	Rank          string
	CourseCode    string
}
