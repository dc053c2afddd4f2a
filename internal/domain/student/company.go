package student

import (
	"context"
	"errors"
)

// Company is the organizational unit a cadet belongs to. Companies are
// provisioned ahead of time; the pipeline only resolves them, never
// creates them.
type Company struct {
	ID   int64
	Name string
}

// ErrCompanyNotFound indicates the named company is not provisioned.
// The loader treats this as a fatal precondition failure.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyDirectory resolves company names to surrogate keys.
type CompanyDirectory interface {
	// ResolveByName returns the company ID for an exact name match.
	// Returns ErrCompanyNotFound when absent.
	ResolveByName(ctx context.Context, name string) (int64, error)
}
