package query

import (
	"context"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/enrollment"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ROSTER QUERY
// Returns all students enrolled in a course, identified by course code.
// ══════════════════════════════════════════════════════════════════════════════

// GetRosterQuery identifies the course by code.
type GetRosterQuery struct {
	CourseCode string
}

// Validate validates the query.
func (q GetRosterQuery) Validate() error {
	if q.CourseCode == "" {
		return fmt.Errorf("get_roster: course code is required")
	}
	return nil
}

// RosterView is the course roster read model.
type RosterView struct {
	Course  *course.Record
	Entries []*enrollment.RosterEntry
}

// GetRosterHandler handles the GetRosterQuery.
type GetRosterHandler struct {
	courses     course.Repository
	enrollments enrollment.Repository
}

// NewGetRosterHandler creates a new GetRosterHandler.
func NewGetRosterHandler(courses course.Repository, enrollments enrollment.Repository) *GetRosterHandler {
	return &GetRosterHandler{courses: courses, enrollments: enrollments}
}

// Handle returns the roster. An existing course with no enrollments yields
// an empty roster, not an error.
func (h *GetRosterHandler) Handle(ctx context.Context, q GetRosterQuery) (*RosterView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courses.GetByCode(ctx, q.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("get_roster: %w", err)
	}

	entries, err := h.enrollments.Roster(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get_roster: %w", err)
	}

	return &RosterView{Course: c, Entries: entries}, nil
}
