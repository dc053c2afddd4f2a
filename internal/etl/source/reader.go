// Package source implements the extract phase: reading raw CSV and JSON
// inputs into uniform in-memory records. No business logic lives here -
// values are kept exactly as the source format delivers them, and cleaning
// is the normalizer's job.
package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrSourceNotFound indicates an expected input file is absent.
	// Fatal for the run: the pipeline never proceeds on partial inputs.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrMalformedSource indicates structural parsing failed (CSV column
	// count mismatch, invalid JSON). Fatal for the run, not recoverable
	// per-record.
	ErrMalformedSource = errors.New("malformed source file")
)

// RawRecord is one row of a tabular source: an ordered mapping of source
// field name to the untouched string value. Immutable once read.
type RawRecord struct {
	columns []string
	values  []string
}

// NewRawRecord builds a record from a header and a matching value row.
// Used by callers that synthesize records instead of reading files.
func NewRawRecord(columns, values []string) RawRecord {
	return RawRecord{columns: columns, values: values}
}

// Get returns the value for a source field name. The second return is false
// when the source has no such column.
func (r RawRecord) Get(name string) (string, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return "", false
}

// Field returns the value for a field name, or empty when absent.
func (r RawRecord) Field(name string) string {
	v, _ := r.Get(name)
	return v
}

// Columns returns the source header in original order.
func (r RawRecord) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// ReadCSV reads a CSV file with a header row into RawRecords. A row whose
// column count differs from the header fails the whole read.
func ReadCSV(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return parseCSV(f, path)
}

func parseCSV(r io.Reader, path string) ([]RawRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrMalformedSource, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	var records []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// encoding/csv enforces the header's column count; a short or
			// long row surfaces here as ErrFieldCount.
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
		}
		records = append(records, RawRecord{columns: header, values: row})
	}

	return records, nil
}

// RawCourse is one entry of the external course catalog JSON. Numeric
// fields stay numeric as the format delivers them; coercion to a validated
// credits integer happens in the normalizer.
type RawCourse struct {
	Code        string      `json:"course_code"`
	Title       string      `json:"course_title"`
	Department  string      `json:"department"`
	Credits     json.Number `json:"credits"`
	Difficulty  string      `json:"difficulty"`
	Description string      `json:"description"`
}

// ReadCourseCatalog reads the JSON course catalog.
func ReadCourseCatalog(path string) ([]RawCourse, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return parseCourseCatalog(f, path)
}

func parseCourseCatalog(r io.Reader, path string) ([]RawCourse, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var courses []RawCourse
	if err := dec.Decode(&courses); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	return courses, nil
}

// Extract holds all raw inputs of one pipeline run.
type Extract struct {
	Students   []RawRecord
	Courses    []RawCourse
	Grades     []RawRecord
	Attendance []RawRecord
}

// Paths names the four expected input files.
type Paths struct {
	Students   string
	Courses    string
	Grades     string
	Attendance string
}

// ReadAll extracts every source. Any structural failure aborts the extract;
// there is no partial result.
func ReadAll(p Paths) (*Extract, error) {
	students, err := ReadCSV(p.Students)
	if err != nil {
		return nil, fmt.Errorf("students: %w", err)
	}

	courses, err := ReadCourseCatalog(p.Courses)
	if err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}

	grades, err := ReadCSV(p.Grades)
	if err != nil {
		return nil, fmt.Errorf("grades: %w", err)
	}

	attendance, err := ReadCSV(p.Attendance)
	if err != nil {
		return nil, fmt.Errorf("attendance: %w", err)
	}

	return &Extract{
		Students:   students,
		Courses:    courses,
		Grades:     grades,
		Attendance: attendance,
	}, nil
}
