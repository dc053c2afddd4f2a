// Package reporting renders read models as CSV for distribution to staff
// who live in spreadsheets. Output columns are stable; downstream sheets
// reference them by header name.
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/elite-academy/records-etl/internal/domain/enrollment"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
)

// WriteStandingsCSV renders the standings list, best GPA first as given.
func WriteStandingsCSV(w io.Writer, standings []*metrics.StudentStats) error {
	cw := csv.NewWriter(w)

	header := []string{"email", "mean_score", "graded_count", "gpa", "attendance_rate", "standing"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write standings header: %w", err)
	}

	for _, st := range standings {
		row := []string{
			st.Email,
			formatFloat(st.MeanScore),
			strconv.Itoa(st.GradedCount),
			formatFloat(st.GPA),
			formatFloat(st.AttendanceRate),
			string(st.Standing),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write standings row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRosterCSV renders a course roster.
func WriteRosterCSV(w io.Writer, entries []*enrollment.RosterEntry) error {
	cw := csv.NewWriter(w)

	header := []string{"service_number", "first_name", "last_name", "email", "rank", "course_code"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write roster header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.ServiceNumber,
			e.FirstName,
			e.LastName,
			e.Email,
			e.Rank,
			e.CourseCode,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write roster row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
