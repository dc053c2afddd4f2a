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
// MARK ATTENDANCE COMMAND
// Records one muster outcome for a student in a course.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains the data for one muster record.
type MarkAttendanceCommand struct {
	Email      string
	CourseCode string

	// Status is the muster outcome; must be on the allow-list.
	Status string

	// MusterDate is optional; defaults to today.
	MusterDate string

	Remarks string
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("mark_attendance: email is required")
	}
	if c.CourseCode == "" {
		return fmt.Errorf("mark_attendance: course code is required")
	}
	if _, err := enrollment.ParseAttendanceStatus(c.Status); err != nil {
		return fmt.Errorf("mark_attendance: %w", err)
	}
	return nil
}

// MarkAttendanceResult contains the result of marking attendance.
type MarkAttendanceResult struct {
	AttendanceID int64
	MusterDate   time.Time
}

// MarkAttendanceHandler handles the MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
	log         *logger.Logger
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
func NewMarkAttendanceHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
	log *logger.Logger,
) *MarkAttendanceHandler {
	if log == nil {
		log = logger.Default()
	}
	return &MarkAttendanceHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With(logger.Component("mark_attendance")),
	}
}

// Handle records the muster outcome.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	studentID, err := h.students.ResolveID(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	courseID, err := h.courses.ResolveID(ctx, cmd.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	status, _ := enrollment.ParseAttendanceStatus(cmd.Status)

	date, ok := timeutil.ParseDate(cmd.MusterDate)
	if !ok {
		date = time.Now()
	}

	att := &enrollment.Attendance{
		StudentID:  studentID,
		CourseID:   courseID,
		MusterDate: date,
		Status:     status,
		Remarks:    cmd.Remarks,
	}

	if err := h.enrollments.MarkAttendance(ctx, att); err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	h.log.Info("attendance marked",
		logger.Email(student.CanonicalEmail(cmd.Email)),
		logger.CourseCode(cmd.CourseCode),
		logger.String("status", string(status)),
	)

	return &MarkAttendanceResult{
		AttendanceID: att.ID,
		MusterDate:   date,
	}, nil
}
