package command

import (
	"context"
	"fmt"
	"time"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/enrollment"
	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/pkg/logger"
	"github.com/elite-academy/records-etl/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Links an existing student to an existing course. Both sides are resolved
// by natural key so operators never handle surrogate IDs.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the data needed to enroll a student.
type EnrollStudentCommand struct {
	// Email identifies the student.
	Email string

	// CourseCode identifies the course.
	CourseCode string

	// StartDate is optional; defaults to today.
	StartDate string
}

// Validate validates the command.
func (c EnrollStudentCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("enroll_student: email is required")
	}
	if c.CourseCode == "" {
		return fmt.Errorf("enroll_student: course code is required")
	}
	return nil
}

// EnrollStudentResult contains the result of enrollment.
type EnrollStudentResult struct {
	EnrollmentID int64
	StudentID    int64
	CourseID     int64
	StartDate    time.Time
}

// EnrollStudentHandler handles the EnrollStudentCommand.
type EnrollStudentHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
	log         *logger.Logger
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler.
func NewEnrollStudentHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
	log *logger.Logger,
) *EnrollStudentHandler {
	if log == nil {
		log = logger.Default()
	}
	return &EnrollStudentHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With(logger.Component("enroll_student")),
	}
}

// Handle enrolls the student in the course.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	studentID, err := h.students.ResolveID(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	courseID, err := h.courses.ResolveID(ctx, cmd.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	startDate, ok := timeutil.ParseDate(cmd.StartDate)
	if !ok {
		startDate = time.Now()
	}

	e, err := h.enrollments.Enroll(ctx, studentID, courseID, startDate)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	h.log.Info("student enrolled",
		logger.Email(student.CanonicalEmail(cmd.Email)),
		logger.CourseCode(cmd.CourseCode),
	)

	return &EnrollStudentResult{
		EnrollmentID: e.ID,
		StudentID:    studentID,
		CourseID:     courseID,
		StartDate:    e.StartDate,
	}, nil
}
