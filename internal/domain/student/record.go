// Package student contains the domain model for academy personnel records.
// This is the core of the business logic - no external dependencies here.
package student

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// emailPattern accepts local-part@domain.tld with at least one dot in the
// domain and no whitespace. Deliberately simple; full RFC 5322 parsing is
// not the point of ingest validation.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// CanonicalEmail trims and lowercases an email address. Canonicalization is
// idempotent: CanonicalEmail(CanonicalEmail(e)) == CanonicalEmail(e).
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether a canonical email matches the accepted pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ServiceNumber is the academy-issued identifier printed on a cadet's file.
// Synthesized during ingest when the source record lacks one; uniqueness is
// enforced by the store, not the generator.
type ServiceNumber string

// IsValid checks the SN-YYYY-NNNN shape.
func (s ServiceNumber) IsValid() bool {
	str := string(s)
	return len(str) >= 5 && strings.HasPrefix(str, "SN-")
}

func (s ServiceNumber) String() string {
	return string(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Rank is a cadet's rank within the academy.
type Rank string

const (
	RankRecruit  Rank = "Recruit"
	RankCadet    Rank = "Cadet"
	RankPrivate  Rank = "Private"
	RankCorporal Rank = "Corporal"
)

// DefaultRank is assigned when the source value is outside the allow-list.
const DefaultRank = RankRecruit

// IsValid checks that the rank is in the allow-list.
func (r Rank) IsValid() bool {
	switch r {
	case RankRecruit, RankCadet, RankPrivate, RankCorporal:
		return true
	default:
		return false
	}
}

// ParseRank maps a raw source value onto the allow-list, falling back to
// DefaultRank rather than rejecting the record.
func ParseRank(raw string) Rank {
	r := Rank(strings.TrimSpace(raw))
	if r.IsValid() {
		return r
	}
	return DefaultRank
}

// Status is a cadet's enrollment status. Freshly ingested records are Active.
type Status string

const (
	StatusActive     Status = "Active"
	StatusGraduated  Status = "Graduated"
	StatusDischarged Status = "Discharged"
)

// IsValid checks that the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusGraduated, StatusDischarged:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is a clean, load-ready student record. Produced by the normalizer
// and never mutated afterwards; every retained record has a valid canonical
// email.
type Record struct {
	// ID is the store-assigned surrogate key; zero until loaded.
	ID int64

	// ServiceNumber is the natural-looking academy identifier.
	ServiceNumber ServiceNumber

	FirstName string
	LastName  string

	// Email is the canonical natural key (lowercase, trimmed, validated).
	Email string

	// Phone is the grouped, country-prefixed display form, or empty when
	// the source value was unrecognizable. Phone is not an identity field.
	Phone string

	// DateOfBirth is zero when the source date was unparseable.
	DateOfBirth time.Time

	Rank   Rank
	Status Status

	// CompanyID is the assigned organizational unit; resolved at load time.
	CompanyID int64
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidEmail indicates a missing or malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrStudentNotFound indicates no record matched the given key.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentAlreadyExists indicates a natural-key conflict on insert.
	ErrStudentAlreadyExists = errors.New("student already exists")

	// ErrServiceNumberConflict indicates a synthesized service number
	// collided with a stored one. A per-record condition: the loader
	// skips the record rather than aborting the batch.
	ErrServiceNumberConflict = errors.New("service number already in use")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecord builds a validated Record. The email is canonicalized here so
// callers cannot construct a retained record with an invalid natural key.
func NewRecord(serviceNumber ServiceNumber, firstName, lastName, email string) (*Record, error) {
	canonical := CanonicalEmail(email)
	if !ValidEmail(canonical) {
		return nil, ErrInvalidEmail
	}

	return &Record{
		ServiceNumber: serviceNumber,
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		Email:         canonical,
		Rank:          DefaultRank,
		Status:        StatusActive,
	}, nil
}

// FullName returns the display name used in rosters.
func (r *Record) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// HasDateOfBirth reports whether the source date parsed successfully.
func (r *Record) HasDateOfBirth() bool {
	return !r.DateOfBirth.IsZero()
}
