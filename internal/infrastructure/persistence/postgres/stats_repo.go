package postgres

import (
	"context"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository implements metrics.Repository for PostgreSQL.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// Upsert stores stats for a student. A conflict on the student replaces
// the previous row, so re-running aggregation refreshes the stats instead
// of duplicating them.
func (r *StatsRepository) Upsert(ctx context.Context, studentID int64, stats *metrics.StudentStats) error {
	query := `
		INSERT INTO student_stats (
			student_id, mean_score, graded_count, gpa,
			attendance_rate, attendance_events, standing, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (student_id) DO UPDATE SET
			mean_score = EXCLUDED.mean_score,
			graded_count = EXCLUDED.graded_count,
			gpa = EXCLUDED.gpa,
			attendance_rate = EXCLUDED.attendance_rate,
			attendance_events = EXCLUDED.attendance_events,
			standing = EXCLUDED.standing,
			updated_at = NOW()
	`

	_, err := r.conn.querier(ctx).Exec(ctx, query,
		studentID,
		stats.MeanScore,
		stats.GradedCount,
		stats.GPA,
		stats.AttendanceRate,
		stats.AttendanceEvents,
		string(stats.Standing),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return student.ErrStudentNotFound
		}
		return fmt.Errorf("failed to upsert stats: %w", err)
	}

	return nil
}

// GetByEmail returns stats joined back through the student natural key.
func (r *StatsRepository) GetByEmail(ctx context.Context, email string) (*metrics.StudentStats, error) {
	query := `
		SELECT s.email, st.mean_score, st.graded_count, st.gpa,
			   st.attendance_rate, st.attendance_events, st.standing
		FROM student_stats st
		JOIN students s ON s.id = st.student_id
		WHERE s.email = $1
	`

	row := r.conn.querier(ctx).QueryRow(ctx, query, student.CanonicalEmail(email))
	stats, err := r.scanStats(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, metrics.ErrStatsNotFound
		}
		return nil, err
	}

	return stats, nil
}

// ListStandings returns all stats ordered by GPA descending, then email
// for a stable order among ties.
func (r *StatsRepository) ListStandings(ctx context.Context) ([]*metrics.StudentStats, error) {
	query := `
		SELECT s.email, st.mean_score, st.graded_count, st.gpa,
			   st.attendance_rate, st.attendance_events, st.standing
		FROM student_stats st
		JOIN students s ON s.id = st.student_id
		ORDER BY st.gpa DESC, s.email
	`

	rows, err := r.conn.querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var all []*metrics.StudentStats
	for rows.Next() {
		stats, err := r.scanStats(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, stats)
	}

	return all, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StatsRepository) scanStats(row pgx.Row) (*metrics.StudentStats, error) {
	var (
		stats    metrics.StudentStats
		standing string
	)

	err := row.Scan(
		&stats.Email,
		&stats.MeanScore,
		&stats.GradedCount,
		&stats.GPA,
		&stats.AttendanceRate,
		&stats.AttendanceEvents,
		&standing,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan stats: %w", err)
	}

	stats.Standing = metrics.Standing(standing)
	return &stats, nil
}
