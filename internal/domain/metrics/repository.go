package metrics

import "context"

// Repository defines persistence operations for aggregate stats.
type Repository interface {
	// Upsert stores stats for a student, replacing any existing row for the
	// same student. Re-running aggregation refreshes the stats.
	Upsert(ctx context.Context, studentID int64, stats *StudentStats) error

	// GetByEmail returns stats joined back through the student natural key.
	// Returns ErrStatsNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*StudentStats, error)

	// ListStandings returns all stats rows ordered by GPA descending,
	// for report export and the standings cache.
	ListStandings(ctx context.Context) ([]*StudentStats, error)
}
