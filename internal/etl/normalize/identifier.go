package normalize

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/elite-academy/records-etl/internal/domain/student"
)

// IDGenerator synthesizes service numbers for records that arrive without
// one. Implementations are not required to be globally unique - the loader
// handles conflicts - but must be deterministic when seeded, so pipeline
// runs are reproducible in tests.
type IDGenerator interface {
	NextServiceNumber() student.ServiceNumber
}

// ServiceNumberGenerator issues SN-YYYY-NNNN tokens from an explicit random
// source. The year component comes from the injected clock, the four-digit
// suffix from the seeded source.
type ServiceNumberGenerator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewServiceNumberGenerator creates a generator from a seed. Seed 0 falls
// back to the current time, which is fine outside tests.
func NewServiceNumberGenerator(seed int64) *ServiceNumberGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ServiceNumberGenerator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// WithClock overrides the year source; used in tests.
func (g *ServiceNumberGenerator) WithClock(now func() time.Time) *ServiceNumberGenerator {
	g.now = now
	return g
}

// NextServiceNumber returns the next synthesized token.
func (g *ServiceNumberGenerator) NextServiceNumber() student.ServiceNumber {
	year := g.now().Year()
	return student.ServiceNumber(fmt.Sprintf("SN-%d-%04d", year, g.rng.Intn(10000)))
}
