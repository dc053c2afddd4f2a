package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPAScale_FromMeanScore(t *testing.T) {
	scale := DefaultGPAScale()

	assert.Equal(t, 3.4, scale.FromMeanScore(85))
	assert.Equal(t, 0.0, scale.FromMeanScore(0))
	assert.Equal(t, MaxGPA, scale.FromMeanScore(100))

	// Clamped at both ends.
	assert.Equal(t, MaxGPA, scale.FromMeanScore(150))
	assert.Equal(t, 0.0, scale.FromMeanScore(-10))
}

func TestGPAScale_ZeroDivisorFallsBack(t *testing.T) {
	scale := GPAScale{}
	assert.Equal(t, 3.4, scale.FromMeanScore(85))
}

func TestClassify(t *testing.T) {
	// Attendance wins over GPA.
	assert.Equal(t, StandingWarning, Classify(4.0, 74.99))
	assert.Equal(t, StandingWarning, Classify(0, 0))

	// Honor roll needs both thresholds.
	assert.Equal(t, StandingHonorRoll, Classify(3.5, 90))
	assert.Equal(t, StandingGoodStanding, Classify(3.5, 89.99))
	assert.Equal(t, StandingGoodStanding, Classify(3.49, 100))

	assert.Equal(t, StandingGoodStanding, Classify(2.0, 75))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(66.6666))
	assert.Equal(t, 50.0, Round2(50))
	assert.Equal(t, 0.0, Round2(0.001))
}
