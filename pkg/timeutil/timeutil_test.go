package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"1999-04-12": "1999-04-12",
		"1999/04/12": "1999-04-12",
		"12/04/1999": "1999-04-12",
		" 1999-04-12 ": "1999-04-12",
	}

	for raw, want := range cases {
		parsed, ok := ParseDate(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, parsed.Format(ISODate), raw)
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "31-13-1999", "April 12th", "12.04.1999"} {
		_, ok := ParseDate(raw)
		assert.False(t, ok, raw)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "2026-03-01", FormatDate(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)))
}
