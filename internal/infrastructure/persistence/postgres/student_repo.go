package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/elite-academy/records-etl/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Insert stores a record, assigning its surrogate ID. The natural key is
// the canonical email; a conflicting insert leaves the existing row
// untouched and reports (false, nil), which is what makes re-running the
// pipeline idempotent. The statement runs inside a savepoint so a
// service-number collision rolls back this row alone and the surrounding
// batch transaction stays usable.
func (r *StudentRepository) Insert(ctx context.Context, rec *student.Record) (bool, error) {
	query := `
		INSERT INTO students (
			service_number, first_name, last_name, email, phone,
			date_of_birth, rank, status, company_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`

	var dob *time.Time
	if rec.HasDateOfBirth() {
		dob = &rec.DateOfBirth
	}

	inserted := false
	err := r.conn.RunInSavepoint(ctx, func(ctx context.Context) error {
		err := r.conn.querier(ctx).QueryRow(ctx, query,
			rec.ServiceNumber.String(),
			rec.FirstName,
			nullable(rec.LastName),
			rec.Email,
			nullable(rec.Phone),
			dob,
			string(rec.Rank),
			string(rec.Status),
			rec.CompanyID,
		).Scan(&rec.ID)
		if err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		// DO NOTHING swallows the email conflict; the insert then returns
		// no row.
		if IsNoRows(err) {
			return false, nil
		}
		// The email key is covered by DO NOTHING, so a unique violation
		// here is the service_number constraint.
		if IsUniqueViolation(err) {
			return false, fmt.Errorf("%w: %s", student.ErrServiceNumberConflict, rec.ServiceNumber)
		}
		return false, fmt.Errorf("failed to insert student: %w", err)
	}

	return inserted, nil
}

// GetByEmail returns the record for a canonical email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*student.Record, error) {
	query := `
		SELECT id, service_number, first_name, last_name, email, phone,
			   date_of_birth, rank, status, company_id
		FROM students
		WHERE email = $1
	`

	row := r.conn.querier(ctx).QueryRow(ctx, query, student.CanonicalEmail(email))
	return r.scanRecord(row)
}

// ResolveID maps a canonical email to the surrogate key.
func (r *StudentRepository) ResolveID(ctx context.Context, email string) (int64, error) {
	query := `SELECT id FROM students WHERE email = $1`

	var id int64
	err := r.conn.querier(ctx).QueryRow(ctx, query, student.CanonicalEmail(email)).Scan(&id)
	if err != nil {
		if IsNoRows(err) {
			return 0, student.ErrStudentNotFound
		}
		return 0, fmt.Errorf("failed to resolve student: %w", err)
	}

	return id, nil
}

// Count returns the total number of stored records.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.querier(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanRecord(row pgx.Row) (*student.Record, error) {
	var (
		rec      student.Record
		sn       string
		lastName *string
		phone    *string
		dob      *time.Time
		rank     string
		status   string
	)

	err := row.Scan(
		&rec.ID,
		&sn,
		&rec.FirstName,
		&lastName,
		&rec.Email,
		&phone,
		&dob,
		&rank,
		&status,
		&rec.CompanyID,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	rec.ServiceNumber = student.ServiceNumber(sn)
	rec.Rank = student.Rank(rank)
	rec.Status = student.Status(status)
	if lastName != nil {
		rec.LastName = *lastName
	}
	if phone != nil {
		rec.Phone = *phone
	}
	if dob != nil {
		rec.DateOfBirth = *dob
	}

	return &rec, nil
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
