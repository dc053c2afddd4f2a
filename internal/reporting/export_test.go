package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/enrollment"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
)

func TestWriteStandingsCSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteStandingsCSV(&buf, []*metrics.StudentStats{
		{
			Email:          "thabo@academy.mil",
			MeanScore:      85,
			GradedCount:    2,
			GPA:            3.4,
			AttendanceRate: 100,
			Standing:       metrics.StandingGoodStanding,
		},
	})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "email,mean_score,graded_count,gpa,attendance_rate,standing", lines[0])
	assert.Equal(t, "thabo@academy.mil,85.00,2,3.40,100.00,Good Standing", lines[1])
}

func TestWriteStandingsCSV_EmptyListStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, WriteStandingsCSV(&buf, nil))
	assert.Equal(t, "email,mean_score,graded_count,gpa,attendance_rate,standing\n", buf.String())
}

func TestWriteRosterCSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteRosterCSV(&buf, []*enrollment.RosterEntry{
		{
			ServiceNumber: "SN-2026-0042",
			FirstName:     "Thabo",
			LastName:      "Nkosi",
			Email:         "thabo@academy.mil",
			Rank:          "Cadet",
			CourseCode:    "MIL-101",
		},
	})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "SN-2026-0042,Thabo,Nkosi,thabo@academy.mil,Cadet,MIL-101", lines[1])
}
