package student

import "context"

// Repository defines persistence operations for student records.
// Implemented by the postgres package.
type Repository interface {
	// Insert stores a record, assigning its surrogate ID. On a natural-key
	// conflict (email already present) it returns (false, nil) and leaves
	// the existing row untouched.
	Insert(ctx context.Context, rec *Record) (inserted bool, err error)

	// GetByEmail returns the record for a canonical email.
	// Returns ErrStudentNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*Record, error)

	// ResolveID maps a canonical email to the surrogate key.
	// Returns ErrStudentNotFound when absent.
	ResolveID(ctx context.Context, email string) (int64, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)
}
