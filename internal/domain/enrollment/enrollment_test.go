package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttendanceStatus(t *testing.T) {
	status, err := ParseAttendanceStatus(" Present ")
	assert.NoError(t, err)
	assert.Equal(t, AttendancePresent, status)

	_, err = ParseAttendanceStatus("UNK")
	assert.ErrorIs(t, err, ErrInvalidAttendanceStatus)

	_, err = ParseAttendanceStatus("")
	assert.ErrorIs(t, err, ErrInvalidAttendanceStatus)
}

func TestCountsAsPresent(t *testing.T) {
	assert.True(t, AttendancePresent.CountsAsPresent())
	assert.True(t, AttendanceLate.CountsAsPresent())

	assert.False(t, AttendanceAbsent.CountsAsPresent())
	assert.False(t, AttendanceExcused.CountsAsPresent())
	assert.False(t, AttendanceAWOL.CountsAsPresent())
}

func TestValidScore(t *testing.T) {
	assert.True(t, ValidScore(0))
	assert.True(t, ValidScore(100))
	assert.True(t, ValidScore(87.5))

	assert.False(t, ValidScore(-0.1))
	assert.False(t, ValidScore(100.1))
}
