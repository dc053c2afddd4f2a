// Package aggregate implements the derived-metrics phase: per-student mean
// score, GPA, attendance rate, and standing classification, computed from
// the raw grade and attendance logs. The logs are independent of the clean
// student records - a student may appear in zero, one, or both - and the
// join back to loaded students happens later, by email.
package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/elite-academy/records-etl/internal/domain/enrollment"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/internal/etl/source"
)

// Source column names for the grade and attendance logs.
const (
	colGradeEmail = "Student_Email"
	colRawScore   = "Raw_Score"
	colAttEmail   = "Email"
	colAttStatus  = "Status"
)

// Report summarizes one aggregation pass. Malformed rows are skipped
// per-record and never fail the aggregate as a whole.
type Report struct {
	GradeRows      int
	AttendanceRows int

	// SkippedScores counts grade rows with a missing or non-numeric score.
	SkippedScores int

	// SkippedRows counts rows with no usable student key.
	SkippedRows int

	// Students is the number of distinct students with computed stats.
	Students int
}

// Aggregator computes StudentStats from raw logs.
type Aggregator struct {
	scale metrics.GPAScale
}

// New creates an Aggregator with the given GPA scale.
func New(scale metrics.GPAScale) *Aggregator {
	return &Aggregator{scale: scale}
}

// Compute groups both logs by canonical email and derives the metrics.
// Students with zero attendance events get the documented default rate of
// 100; students with zero valid scores keep a zero mean and GPA.
func (a *Aggregator) Compute(grades, attendance []source.RawRecord) ([]*metrics.StudentStats, Report) {
	report := Report{
		GradeRows:      len(grades),
		AttendanceRows: len(attendance),
	}

	scores := make(map[string][]float64)
	for _, row := range grades {
		email := student.CanonicalEmail(row.Field(colGradeEmail))
		if email == "" {
			report.SkippedRows++
			continue
		}

		raw := strings.TrimSpace(row.Field(colRawScore))
		score, err := strconv.ParseFloat(raw, 64)
		if raw == "" || err != nil {
			report.SkippedScores++
			continue
		}

		scores[email] = append(scores[email], score)
	}

	type attCount struct {
		present int
		total   int
	}
	musters := make(map[string]*attCount)
	for _, row := range attendance {
		email := student.CanonicalEmail(row.Field(colAttEmail))
		if email == "" {
			report.SkippedRows++
			continue
		}

		c := musters[email]
		if c == nil {
			c = &attCount{}
			musters[email] = c
		}
		c.total++

		status := enrollment.AttendanceStatus(strings.TrimSpace(row.Field(colAttStatus)))
		if status.CountsAsPresent() {
			c.present++
		}
	}

	// Union of both logs: stats exist for any student seen in either.
	emails := make(map[string]struct{}, len(scores)+len(musters))
	for e := range scores {
		emails[e] = struct{}{}
	}
	for e := range musters {
		emails[e] = struct{}{}
	}

	stats := make([]*metrics.StudentStats, 0, len(emails))
	for email := range emails {
		s := &metrics.StudentStats{Email: email}

		if vals := scores[email]; len(vals) > 0 {
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			s.MeanScore = metrics.Round2(sum / float64(len(vals)))
			s.GradedCount = len(vals)
			s.GPA = metrics.Round2(a.scale.FromMeanScore(s.MeanScore))
		}

		if c := musters[email]; c != nil && c.total > 0 {
			s.AttendanceRate = metrics.Round2(float64(c.present) / float64(c.total) * 100)
			s.AttendanceEvents = c.total
		} else {
			s.AttendanceRate = metrics.DefaultAttendanceRate
		}

		s.Standing = metrics.Classify(s.GPA, s.AttendanceRate)
		stats = append(stats, s)
	}

	// Deterministic output order keeps load batches and tests stable.
	sort.Slice(stats, func(i, j int) bool { return stats[i].Email < stats[j].Email })

	report.Students = len(stats)
	return stats, report
}
