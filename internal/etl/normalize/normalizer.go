// Package normalize implements the transform phase: per-entity cleaning
// rules that turn raw source records into validated clean records, tracking
// how many records were dropped and why. Pure functions of their inputs -
// no I/O here.
package normalize

import (
	"strings"
	"unicode"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/internal/etl/source"
	"github.com/elite-academy/records-etl/pkg/timeutil"
)

// Source column names for the student CSV.
const (
	colFullName = "Full Name"
	colEmail    = "Email Address"
	colPhone    = "Phone_Num"
	colDOB      = "DOB"
	colRank     = "Rank"
)

// DropReason classifies why a record was discarded during normalization.
type DropReason string

const (
	DropDuplicateKey   DropReason = "duplicate_key"
	DropInvalidEmail   DropReason = "invalid_email"
	DropMissingCode    DropReason = "missing_course_code"
	DropInvalidCredits DropReason = "invalid_credits"
)

// DropReport summarizes one entity's normalization pass.
type DropReport struct {
	Read    int
	Kept    int
	Dropped map[DropReason]int
}

func newDropReport(read int) DropReport {
	return DropReport{Read: read, Dropped: make(map[DropReason]int)}
}

func (r *DropReport) drop(reason DropReason) {
	r.Dropped[reason]++
}

// TotalDropped returns the number of discarded records across all reasons.
func (r DropReport) TotalDropped() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// Normalizer applies the cleaning rules. The identifier generator is
// injected so runs are deterministic under test.
type Normalizer struct {
	idgen IDGenerator
}

// New creates a Normalizer.
func New(idgen IDGenerator) *Normalizer {
	return &Normalizer{idgen: idgen}
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// Students cleans raw student rows. Rules, in order: dedup by canonical
// email (first occurrence wins), name title-casing and splitting, email
// validation (invalid rows are dropped - the dominant messy-data source),
// phone normalization, date standardization, rank mapping with default
// fallback, service-number synthesis.
func (n *Normalizer) Students(raw []source.RawRecord) ([]*student.Record, DropReport) {
	report := newDropReport(len(raw))
	seen := make(map[string]struct{}, len(raw))
	clean := make([]*student.Record, 0, len(raw))

	for _, row := range raw {
		email := student.CanonicalEmail(row.Field(colEmail))

		// Dedup runs before validation, so repeats of an invalid row are
		// attributed to the duplicate, not counted as invalid again.
		if _, dup := seen[email]; dup {
			report.drop(DropDuplicateKey)
			continue
		}
		seen[email] = struct{}{}

		if !student.ValidEmail(email) {
			report.drop(DropInvalidEmail)
			continue
		}

		first, last := SplitName(TitleCase(row.Field(colFullName)))

		rec, err := student.NewRecord(n.idgen.NextServiceNumber(), first, last, email)
		if err != nil {
			// Unreachable given the validation above; counted defensively.
			report.drop(DropInvalidEmail)
			continue
		}

		rec.Phone = NormalizePhone(row.Field(colPhone))
		if dob, ok := timeutil.ParseDate(row.Field(colDOB)); ok {
			rec.DateOfBirth = dob
		}
		rec.Rank = student.ParseRank(row.Field(colRank))

		clean = append(clean, rec)
		report.Kept++
	}

	return clean, report
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// Courses cleans catalog entries: dedup by course code (first wins),
// positive-credits validation, difficulty mapping with default fallback.
func (n *Normalizer) Courses(raw []source.RawCourse) ([]*course.Record, DropReport) {
	report := newDropReport(len(raw))
	seen := make(map[string]struct{}, len(raw))
	clean := make([]*course.Record, 0, len(raw))

	for _, rc := range raw {
		code := strings.TrimSpace(rc.Code)
		if code == "" {
			report.drop(DropMissingCode)
			continue
		}

		if _, dup := seen[code]; dup {
			report.drop(DropDuplicateKey)
			continue
		}
		seen[code] = struct{}{}

		credits, err := rc.Credits.Int64()
		if err != nil || credits <= 0 {
			report.drop(DropInvalidCredits)
			continue
		}

		rec, err := course.NewRecord(code, rc.Title, rc.Department, int(credits))
		if err != nil {
			report.drop(DropInvalidCredits)
			continue
		}
		rec.Difficulty = course.ParseDifficulty(rc.Difficulty)
		rec.Description = strings.TrimSpace(rc.Description)

		clean = append(clean, rec)
		report.Kept++
	}

	return clean, report
}

// ─────────────────────────────────────────────────────────────────────────────
// Field-level helpers
// ─────────────────────────────────────────────────────────────────────────────

// TitleCase trims and converts each whitespace-separated word to title case.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// SplitName splits a full name into first and last at the first whitespace
// boundary. A single-token name keeps the last name empty.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// NormalizePhone reduces a raw phone value to digits and accepts exactly
// two shapes: a 10-digit local number with a leading zero, or an 11-digit
// number carrying the country code. Both render as "+27 XX XXX XXXX".
// Anything else yields empty - the record is kept, phone is not identity.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10 && d[0] == '0':
		return "+27 " + d[1:3] + " " + d[3:6] + " " + d[6:]
	case len(d) == 11 && strings.HasPrefix(d, "27"):
		return "+27 " + d[2:4] + " " + d[4:7] + " " + d[7:]
	default:
		return ""
	}
}
