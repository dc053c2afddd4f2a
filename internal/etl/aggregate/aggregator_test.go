package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/etl/source"
)

var (
	gradeColumns      = []string{"Student_Email", "Course_Code", "Assessment", "Raw_Score"}
	attendanceColumns = []string{"Email", "Course", "MusterDate", "Status"}
)

func gradeRow(email, score string) source.RawRecord {
	return source.NewRawRecord(gradeColumns, []string{email, "MIL-101", "exam", score})
}

func attendanceRow(email, status string) source.RawRecord {
	return source.NewRawRecord(attendanceColumns, []string{email, "MIL-101", "2026-02-01", status})
}

func newTestAggregator() *Aggregator {
	return New(metrics.DefaultGPAScale())
}

func TestCompute_GPAFromMeanScore(t *testing.T) {
	a := newTestAggregator()

	// Scores 80 and 90: mean 85, GPA 85/25 = 3.4.
	stats, report := a.Compute([]source.RawRecord{
		gradeRow("thabo@academy.mil", "80"),
		gradeRow("thabo@academy.mil", "90"),
	}, nil)

	assert.Len(t, stats, 1)
	assert.Equal(t, 1, report.Students)

	st := stats[0]
	assert.Equal(t, "thabo@academy.mil", st.Email)
	assert.Equal(t, 85.0, st.MeanScore)
	assert.Equal(t, 2, st.GradedCount)
	assert.Equal(t, 3.4, st.GPA)
}

func TestCompute_GPAClampedAtMax(t *testing.T) {
	// Divisor 20 would map 100 to 5.0 without the clamp.
	a := New(metrics.GPAScale{Divisor: 20})

	stats, _ := a.Compute([]source.RawRecord{
		gradeRow("top@academy.mil", "100"),
	}, nil)

	assert.Equal(t, metrics.MaxGPA, stats[0].GPA)
}

func TestCompute_AttendanceRateAndWarning(t *testing.T) {
	a := newTestAggregator()

	// One present, one absent: 50%, below the warning threshold.
	stats, _ := a.Compute(nil, []source.RawRecord{
		attendanceRow("jan@academy.mil", "Present"),
		attendanceRow("jan@academy.mil", "Absent"),
	})

	assert.Len(t, stats, 1)
	st := stats[0]
	assert.Equal(t, 50.0, st.AttendanceRate)
	assert.Equal(t, 2, st.AttendanceEvents)
	assert.Equal(t, metrics.StandingWarning, st.Standing)
}

func TestCompute_LateCountsAsPresent(t *testing.T) {
	a := newTestAggregator()

	stats, _ := a.Compute(nil, []source.RawRecord{
		attendanceRow("jan@academy.mil", "Present"),
		attendanceRow("jan@academy.mil", "Late"),
		attendanceRow("jan@academy.mil", "Absent"),
		attendanceRow("jan@academy.mil", "AWOL"),
	})

	assert.Equal(t, 50.0, stats[0].AttendanceRate)
}

func TestCompute_NoAttendanceEventsDefaultsToFull(t *testing.T) {
	a := newTestAggregator()

	stats, _ := a.Compute([]source.RawRecord{
		gradeRow("ghost@academy.mil", "70"),
	}, nil)

	st := stats[0]
	assert.Equal(t, metrics.DefaultAttendanceRate, st.AttendanceRate)
	assert.Equal(t, 0, st.AttendanceEvents)
}

func TestCompute_SkipsNonNumericScores(t *testing.T) {
	a := newTestAggregator()

	stats, report := a.Compute([]source.RawRecord{
		gradeRow("thabo@academy.mil", "80"),
		gradeRow("thabo@academy.mil", "N/A"),
		gradeRow("thabo@academy.mil", ""),
	}, nil)

	assert.Equal(t, 2, report.SkippedScores)
	assert.Equal(t, 80.0, stats[0].MeanScore)
	assert.Equal(t, 1, stats[0].GradedCount)
}

func TestCompute_SkipsRowsWithoutEmail(t *testing.T) {
	a := newTestAggregator()

	_, report := a.Compute(
		[]source.RawRecord{gradeRow("", "80")},
		[]source.RawRecord{attendanceRow("  ", "Present")},
	)

	assert.Equal(t, 2, report.SkippedRows)
	assert.Equal(t, 0, report.Students)
}

func TestCompute_HonorRollNeedsBothThresholds(t *testing.T) {
	a := newTestAggregator()

	grades := []source.RawRecord{gradeRow("star@academy.mil", "95")}
	attendance := []source.RawRecord{
		attendanceRow("star@academy.mil", "Present"),
		attendanceRow("star@academy.mil", "Present"),
	}

	stats, _ := a.Compute(grades, attendance)
	st := stats[0]
	assert.Equal(t, 3.8, st.GPA)
	assert.Equal(t, 100.0, st.AttendanceRate)
	assert.Equal(t, metrics.StandingHonorRoll, st.Standing)

	// Same GPA with attendance between the thresholds is only Good Standing.
	attendance = []source.RawRecord{
		attendanceRow("star@academy.mil", "Present"),
		attendanceRow("star@academy.mil", "Present"),
		attendanceRow("star@academy.mil", "Present"),
		attendanceRow("star@academy.mil", "Present"),
		attendanceRow("star@academy.mil", "Absent"),
	}
	stats, _ = a.Compute(grades, attendance)
	assert.Equal(t, 80.0, stats[0].AttendanceRate)
	assert.Equal(t, metrics.StandingGoodStanding, stats[0].Standing)
}

func TestCompute_JoinsAcrossCaseVariants(t *testing.T) {
	a := newTestAggregator()

	stats, _ := a.Compute(
		[]source.RawRecord{gradeRow("Thabo@Academy.MIL", "80")},
		[]source.RawRecord{attendanceRow("thabo@academy.mil", "Present")},
	)

	// One student, not two: both logs canonicalize to the same key.
	assert.Len(t, stats, 1)
	assert.Equal(t, "thabo@academy.mil", stats[0].Email)
	assert.Equal(t, 1, stats[0].GradedCount)
	assert.Equal(t, 1, stats[0].AttendanceEvents)
}

func TestCompute_DeterministicOrder(t *testing.T) {
	a := newTestAggregator()

	stats, _ := a.Compute([]source.RawRecord{
		gradeRow("zanele@academy.mil", "70"),
		gradeRow("ann@academy.mil", "70"),
		gradeRow("jan@academy.mil", "70"),
	}, nil)

	assert.Equal(t, "ann@academy.mil", stats[0].Email)
	assert.Equal(t, "jan@academy.mil", stats[1].Email)
	assert.Equal(t, "zanele@academy.mil", stats[2].Email)
}
