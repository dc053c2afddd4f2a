package postgres

import (
	"context"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPANY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CompanyRepository implements student.CompanyDirectory for PostgreSQL.
// Companies are seeded by migration, never written by the pipeline.
type CompanyRepository struct {
	conn *Connection
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(conn *Connection) *CompanyRepository {
	return &CompanyRepository{conn: conn}
}

// ResolveByName returns the company ID for an exact name match.
func (r *CompanyRepository) ResolveByName(ctx context.Context, name string) (int64, error) {
	query := `SELECT id FROM companies WHERE company_name = $1`

	var id int64
	err := r.conn.querier(ctx).QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		if IsNoRows(err) {
			return 0, fmt.Errorf("%w: %s", student.ErrCompanyNotFound, name)
		}
		return 0, fmt.Errorf("failed to resolve company: %w", err)
	}

	return id, nil
}
