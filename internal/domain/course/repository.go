package course

import "context"

// Repository defines persistence operations for courses.
type Repository interface {
	// Insert stores a course, assigning its surrogate ID. On a course-code
	// conflict it returns (false, nil) and leaves the existing row untouched.
	Insert(ctx context.Context, rec *Record) (inserted bool, err error)

	// GetByCode returns the course for a code.
	// Returns ErrCourseNotFound when absent.
	GetByCode(ctx context.Context, code string) (*Record, error)

	// ResolveID maps a course code to the surrogate key.
	// Returns ErrCourseNotFound when absent.
	ResolveID(ctx context.Context, code string) (int64, error)

	// List returns all courses ordered by code.
	List(ctx context.Context) ([]*Record, error)
}
