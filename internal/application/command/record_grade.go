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
// RECORD GRADE COMMAND
// Appends one assessment result to an existing enrollment.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand contains the data for one assessment result.
type RecordGradeCommand struct {
	Email      string
	CourseCode string

	// AssessmentType names the assessment (exam, drill, inspection).
	AssessmentType string

	// Score is the raw score, 0 to 100.
	Score float64

	// Weight is the assessment weight; defaults to 1.
	Weight float64

	// AssessmentDate is optional; defaults to today.
	AssessmentDate string

	Remarks string
}

// Validate validates the command.
func (c RecordGradeCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("record_grade: email is required")
	}
	if c.CourseCode == "" {
		return fmt.Errorf("record_grade: course code is required")
	}
	if c.AssessmentType == "" {
		return fmt.Errorf("record_grade: assessment type is required")
	}
	if !enrollment.ValidScore(c.Score) {
		return fmt.Errorf("record_grade: %w", enrollment.ErrInvalidScore)
	}
	return nil
}

// RecordGradeResult contains the result of recording a grade.
type RecordGradeResult struct {
	GradeID      int64
	EnrollmentID int64
}

// RecordGradeHandler handles the RecordGradeCommand.
type RecordGradeHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
	log         *logger.Logger
}

// NewRecordGradeHandler creates a new RecordGradeHandler.
func NewRecordGradeHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
	log *logger.Logger,
) *RecordGradeHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordGradeHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With(logger.Component("record_grade")),
	}
}

// Handle records the grade against the student's enrollment in the course.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*RecordGradeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	studentID, err := h.students.ResolveID(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	courseID, err := h.courses.ResolveID(ctx, cmd.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	enrollmentID, err := h.enrollments.ResolveID(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	weight := cmd.Weight
	if weight <= 0 {
		weight = 1
	}

	date, ok := timeutil.ParseDate(cmd.AssessmentDate)
	if !ok {
		date = time.Now()
	}

	grade := &enrollment.Grade{
		EnrollmentID:   enrollmentID,
		AssessmentType: cmd.AssessmentType,
		Score:          cmd.Score,
		Weight:         weight,
		AssessmentDate: date,
		Remarks:        cmd.Remarks,
	}

	if err := h.enrollments.RecordGrade(ctx, grade); err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	h.log.Info("grade recorded",
		logger.Email(student.CanonicalEmail(cmd.Email)),
		logger.CourseCode(cmd.CourseCode),
		logger.Float64("score", cmd.Score),
	)

	return &RecordGradeResult{
		GradeID:      grade.ID,
		EnrollmentID: enrollmentID,
	}, nil
}
