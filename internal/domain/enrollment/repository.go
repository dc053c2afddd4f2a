package enrollment

import (
	"context"
	"time"
)

// Repository defines persistence operations for enrollments and their
// grade and attendance logs.
type Repository interface {
	// Enroll creates an enrollment. Returns ErrAlreadyEnrolled on the
	// (student, course) unique constraint.
	Enroll(ctx context.Context, studentID, courseID int64, startDate time.Time) (*Enrollment, error)

	// ResolveID maps (student, course) to the enrollment surrogate key.
	// Returns ErrEnrollmentNotFound when absent.
	ResolveID(ctx context.Context, studentID, courseID int64) (int64, error)

	// RecordGrade appends an assessment result to an enrollment.
	RecordGrade(ctx context.Context, g *Grade) error

	// MarkAttendance appends a muster outcome.
	MarkAttendance(ctx context.Context, a *Attendance) error

	// Roster returns all students enrolled in a course, ordered by last
	// then first name.
	Roster(ctx context.Context, courseID int64) ([]*RosterEntry, error)
}
