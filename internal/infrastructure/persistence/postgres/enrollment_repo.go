package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/elite-academy/records-etl/internal/domain/enrollment"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentRepository implements enrollment.Repository for PostgreSQL.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

// Enroll creates an enrollment.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID int64, startDate time.Time) (*enrollment.Enrollment, error) {
	query := `
		INSERT INTO enrollments (student_id, course_id, start_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if startDate.IsZero() {
		startDate = time.Now()
	}

	e := &enrollment.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		StartDate: startDate,
		Status:    enrollment.StatusEnrolled,
	}

	err := r.conn.querier(ctx).QueryRow(ctx, query,
		studentID,
		courseID,
		startDate,
		string(e.Status),
	).Scan(&e.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, enrollment.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	return e, nil
}

// ResolveID maps (student, course) to the enrollment surrogate key.
func (r *EnrollmentRepository) ResolveID(ctx context.Context, studentID, courseID int64) (int64, error) {
	query := `SELECT id FROM enrollments WHERE student_id = $1 AND course_id = $2`

	var id int64
	err := r.conn.querier(ctx).QueryRow(ctx, query, studentID, courseID).Scan(&id)
	if err != nil {
		if IsNoRows(err) {
			return 0, enrollment.ErrEnrollmentNotFound
		}
		return 0, fmt.Errorf("failed to resolve enrollment: %w", err)
	}

	return id, nil
}

// RecordGrade appends an assessment result to an enrollment.
func (r *EnrollmentRepository) RecordGrade(ctx context.Context, g *enrollment.Grade) error {
	query := `
		INSERT INTO grades (enrollment_id, assessment_type, score, weight, assessment_date, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	date := g.AssessmentDate
	if date.IsZero() {
		date = time.Now()
	}

	err := r.conn.querier(ctx).QueryRow(ctx, query,
		g.EnrollmentID,
		g.AssessmentType,
		g.Score,
		g.Weight,
		date,
		nullable(g.Remarks),
	).Scan(&g.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return enrollment.ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to record grade: %w", err)
	}

	return nil
}

// MarkAttendance appends a muster outcome, resolving the enrollment from
// the (student, course) pair on the attendance record.
func (r *EnrollmentRepository) MarkAttendance(ctx context.Context, a *enrollment.Attendance) error {
	enrollmentID, err := r.ResolveID(ctx, a.StudentID, a.CourseID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO attendance (enrollment_id, muster_date, status, remarks)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	date := a.MusterDate
	if date.IsZero() {
		date = time.Now()
	}

	err = r.conn.querier(ctx).QueryRow(ctx, query,
		enrollmentID,
		date,
		string(a.Status),
		nullable(a.Remarks),
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to mark attendance: %w", err)
	}

	return nil
}

// Roster returns all students enrolled in a course.
func (r *EnrollmentRepository) Roster(ctx context.Context, courseID int64) ([]*enrollment.RosterEntry, error) {
	query := `
		SELECT s.service_number, s.first_name, COALESCE(s.last_name, ''), s.email, s.rank, c.course_code
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN courses c ON c.id = e.course_id
		WHERE e.course_id = $1
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.conn.querier(ctx).Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var roster []*enrollment.RosterEntry
	for rows.Next() {
		var entry enrollment.RosterEntry
		err := rows.Scan(
			&entry.ServiceNumber,
			&entry.FirstName,
			&entry.LastName,
			&entry.Email,
			&entry.Rank,
			&entry.CourseCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster = append(roster, &entry)
	}

	return roster, rows.Err()
}
