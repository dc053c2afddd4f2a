package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT STATS QUERY
// Returns one student's record together with the derived metrics.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentStatsQuery identifies the student by natural key.
type GetStudentStatsQuery struct {
	Email string
}

// Validate validates the query.
func (q GetStudentStatsQuery) Validate() error {
	if q.Email == "" {
		return fmt.Errorf("get_student_stats: email is required")
	}
	return nil
}

// StudentStatsView is the combined read model.
type StudentStatsView struct {
	Student *student.Record
	Stats   *metrics.StudentStats
}

// StatsCache serves single-student stats lookups. Satisfied by the redis
// StandingsCache; nil disables caching.
type StatsCache interface {
	GetStats(ctx context.Context, email string) (*metrics.StudentStats, error)
}

// GetStudentStatsHandler handles the GetStudentStatsQuery.
type GetStudentStatsHandler struct {
	students student.Repository
	stats    metrics.Repository
	cache    StatsCache
}

// NewGetStudentStatsHandler creates a new GetStudentStatsHandler.
// Cache may be nil.
func NewGetStudentStatsHandler(students student.Repository, stats metrics.Repository, cache StatsCache) *GetStudentStatsHandler {
	return &GetStudentStatsHandler{students: students, stats: stats, cache: cache}
}

// Handle returns the student and their stats. A student with no stats row
// yet gets a nil Stats, not an error; stats only exist after a pipeline
// run has seen them in the logs.
func (h *GetStudentStatsHandler) Handle(ctx context.Context, q GetStudentStatsQuery) (*StudentStatsView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rec, err := h.students.GetByEmail(ctx, q.Email)
	if err != nil {
		return nil, fmt.Errorf("get_student_stats: %w", err)
	}

	view := &StudentStatsView{Student: rec}

	if h.cache != nil {
		if cached, err := h.cache.GetStats(ctx, q.Email); err == nil {
			view.Stats = cached
			return view, nil
		}
	}

	stats, err := h.stats.GetByEmail(ctx, q.Email)
	if err != nil {
		if errors.Is(err, metrics.ErrStatsNotFound) {
			return view, nil
		}
		return nil, fmt.Errorf("get_student_stats: %w", err)
	}
	view.Stats = stats

	return view, nil
}
