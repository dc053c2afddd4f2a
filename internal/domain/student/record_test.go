package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalEmail(t *testing.T) {
	assert.Equal(t, "thabo@academy.mil", CanonicalEmail("  Thabo@Academy.MIL "))
	assert.Equal(t, CanonicalEmail("a@b.cd"), CanonicalEmail(CanonicalEmail("A@B.CD")))
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"thabo@academy.mil",
		"jan.smit@academy.mil",
		"a_b-c@sub.domain.co",
	}
	for _, e := range valid {
		assert.True(t, ValidEmail(e), e)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"spaces in@academy.mil",
		"@academy.mil",
	}
	for _, e := range invalid {
		assert.False(t, ValidEmail(e), e)
	}
}

func TestParseRank(t *testing.T) {
	assert.Equal(t, RankCadet, ParseRank("Cadet"))
	assert.Equal(t, RankCadet, ParseRank("  Cadet "))
	assert.Equal(t, DefaultRank, ParseRank("General"))
	assert.Equal(t, DefaultRank, ParseRank(""))
}

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord("SN-2026-0001", " Thabo ", " Nkosi ", " THABO@Academy.MIL ")
	assert.NoError(t, err)
	assert.Equal(t, "Thabo", rec.FirstName)
	assert.Equal(t, "thabo@academy.mil", rec.Email)
	assert.Equal(t, DefaultRank, rec.Rank)
	assert.Equal(t, StatusActive, rec.Status)

	_, err = NewRecord("SN-2026-0001", "Thabo", "Nkosi", "nonsense")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestFullName(t *testing.T) {
	rec := &Record{FirstName: "Thabo", LastName: "Nkosi"}
	assert.Equal(t, "Thabo Nkosi", rec.FullName())

	rec.LastName = ""
	assert.Equal(t, "Thabo", rec.FullName())
}

func TestServiceNumberIsValid(t *testing.T) {
	assert.True(t, ServiceNumber("SN-2026-0042").IsValid())
	assert.False(t, ServiceNumber("2026-0042").IsValid())
	assert.False(t, ServiceNumber("").IsValid())
}
