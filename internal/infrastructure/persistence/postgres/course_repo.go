package postgres

import (
	"context"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/course"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Insert stores a course. A course-code conflict leaves the existing row
// untouched and reports (false, nil).
func (r *CourseRepository) Insert(ctx context.Context, rec *course.Record) (bool, error) {
	query := `
		INSERT INTO courses (course_code, course_name, department, credits, difficulty, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_code) DO NOTHING
		RETURNING id
	`

	err := r.conn.querier(ctx).QueryRow(ctx, query,
		rec.Code,
		rec.Name,
		nullable(rec.Department),
		rec.Credits,
		string(rec.Difficulty),
		nullable(rec.Description),
	).Scan(&rec.ID)
	if err != nil {
		if IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert course: %w", err)
	}

	return true, nil
}

// GetByCode returns the course for a code.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*course.Record, error) {
	query := `
		SELECT id, course_code, course_name, department, credits, difficulty, description
		FROM courses
		WHERE course_code = $1
	`

	row := r.conn.querier(ctx).QueryRow(ctx, query, code)
	return r.scanRecord(row)
}

// ResolveID maps a course code to the surrogate key.
func (r *CourseRepository) ResolveID(ctx context.Context, code string) (int64, error) {
	query := `SELECT id FROM courses WHERE course_code = $1`

	var id int64
	err := r.conn.querier(ctx).QueryRow(ctx, query, code).Scan(&id)
	if err != nil {
		if IsNoRows(err) {
			return 0, course.ErrCourseNotFound
		}
		return 0, fmt.Errorf("failed to resolve course: %w", err)
	}

	return id, nil
}

// List returns all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]*course.Record, error) {
	query := `
		SELECT id, course_code, course_name, department, credits, difficulty, description
		FROM courses
		ORDER BY course_code
	`

	rows, err := r.conn.querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, rec)
	}

	return courses, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *CourseRepository) scanRecord(row pgx.Row) (*course.Record, error) {
	var (
		rec         course.Record
		department  *string
		difficulty  string
		description *string
	)

	err := row.Scan(
		&rec.ID,
		&rec.Code,
		&rec.Name,
		&department,
		&rec.Credits,
		&difficulty,
		&description,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	rec.Difficulty = course.Difficulty(difficulty)
	if department != nil {
		rec.Department = *department
	}
	if description != nil {
		rec.Description = *description
	}

	return &rec, nil
}
