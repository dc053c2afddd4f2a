// Package course contains the domain model for training modules offered by
// the academy. Courses arrive from an external catalog and are identified by
// their course code.
package course

import (
	"errors"
	"strings"
)

// Difficulty is the declared difficulty level of a course.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "Basic"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// DefaultDifficulty is assigned when the catalog value is unrecognized.
const DefaultDifficulty = DifficultyBasic

// IsValid checks that the difficulty is in the allow-list.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// ParseDifficulty maps a raw catalog value onto the allow-list, falling back
// to DefaultDifficulty.
func ParseDifficulty(raw string) Difficulty {
	d := Difficulty(strings.TrimSpace(raw))
	if d.IsValid() {
		return d
	}
	return DefaultDifficulty
}

var (
	// ErrInvalidCourseCode indicates a missing or blank course code.
	ErrInvalidCourseCode = errors.New("invalid course code")

	// ErrInvalidCredits indicates credits outside the positive range.
	ErrInvalidCredits = errors.New("invalid credits: must be positive")

	// ErrCourseNotFound indicates no course matched the given code.
	ErrCourseNotFound = errors.New("course not found")

	// ErrCourseAlreadyExists indicates a course-code conflict on insert.
	ErrCourseAlreadyExists = errors.New("course already exists")
)

// Record is a clean, load-ready course record. The course code is the
// natural key and is unique within a load batch.
type Record struct {
	// ID is the store-assigned surrogate key; zero until loaded.
	ID int64

	// Code is the natural key, e.g. "TAC-101".
	Code string

	Name       string
	Department string

	// Credits is a positive integer; records failing this are dropped
	// during normalization.
	Credits int

	Difficulty  Difficulty
	Description string
}

// NewRecord builds a validated course Record.
func NewRecord(code, name, department string, credits int) (*Record, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCourseCode
	}
	if credits <= 0 {
		return nil, ErrInvalidCredits
	}

	return &Record{
		Code:       code,
		Name:       strings.TrimSpace(name),
		Department: strings.TrimSpace(department),
		Credits:    credits,
		Difficulty: DefaultDifficulty,
	}, nil
}
