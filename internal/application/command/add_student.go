// Package command contains write operations (CQRS - Commands).
// Commands change system state through the domain repositories; they carry
// their own validation so interface layers stay thin.
package command

import (
	"context"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
	"github.com/elite-academy/records-etl/pkg/logger"
	"github.com/elite-academy/records-etl/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT COMMAND
// Registers a single student through the same cleaning rules the bulk
// pipeline applies, so manually entered records match ingested ones.
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand contains the data needed to register a student.
type AddStudentCommand struct {
	// FullName is the raw display name; it is title-cased and split the
	// same way the pipeline does it.
	FullName string

	// Email is the natural key. Mandatory and validated.
	Email string

	// Phone is optional; unrecognizable values are stored empty.
	Phone string

	// DateOfBirth is optional, any of the accepted source formats.
	DateOfBirth string

	// Rank is optional; unknown values fall back to the default.
	Rank string

	// Company names the organizational unit. Must be provisioned.
	Company string
}

// Validate validates the command.
func (c AddStudentCommand) Validate() error {
	if c.FullName == "" {
		return fmt.Errorf("add_student: full name is required")
	}
	if !student.ValidEmail(student.CanonicalEmail(c.Email)) {
		return fmt.Errorf("add_student: %w", student.ErrInvalidEmail)
	}
	if c.Company == "" {
		return fmt.Errorf("add_student: company is required")
	}
	return nil
}

// AddStudentResult contains the result of registration.
type AddStudentResult struct {
	// StudentID is the store-assigned surrogate key.
	StudentID int64

	// ServiceNumber is the issued academy identifier.
	ServiceNumber string

	// Email is the canonical natural key under which the record landed.
	Email string
}

// AddStudentHandler handles the AddStudentCommand.
type AddStudentHandler struct {
	students  student.Repository
	companies student.CompanyDirectory
	idgen     normalize.IDGenerator
	log       *logger.Logger
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(
	students student.Repository,
	companies student.CompanyDirectory,
	idgen normalize.IDGenerator,
	log *logger.Logger,
) *AddStudentHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AddStudentHandler{
		students:  students,
		companies: companies,
		idgen:     idgen,
		log:       log.With(logger.Component("add_student")),
	}
}

// Handle registers the student. A natural-key conflict is an error here,
// unlike in the bulk loader: an operator adding a duplicate by hand should
// hear about it.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (*AddStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	companyID, err := h.companies.ResolveByName(ctx, cmd.Company)
	if err != nil {
		return nil, fmt.Errorf("add_student: %w", err)
	}

	first, last := normalize.SplitName(normalize.TitleCase(cmd.FullName))

	rec, err := student.NewRecord(h.idgen.NextServiceNumber(), first, last, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("add_student: %w", err)
	}

	rec.Phone = normalize.NormalizePhone(cmd.Phone)
	if dob, ok := timeutil.ParseDate(cmd.DateOfBirth); ok {
		rec.DateOfBirth = dob
	}
	rec.Rank = student.ParseRank(cmd.Rank)
	rec.CompanyID = companyID

	inserted, err := h.students.Insert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("add_student: %w", err)
	}
	if !inserted {
		return nil, fmt.Errorf("add_student: %w: %s", student.ErrStudentAlreadyExists, rec.Email)
	}

	h.log.Info("student registered",
		logger.StudentID(fmt.Sprint(rec.ID)),
		logger.Email(rec.Email),
	)

	return &AddStudentResult{
		StudentID:     rec.ID,
		ServiceNumber: rec.ServiceNumber.String(),
		Email:         rec.Email,
	}, nil
}
