package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
)

type fakeStatsRepo struct {
	standings []*metrics.StudentStats
	calls     int
}

func (f *fakeStatsRepo) Upsert(context.Context, int64, *metrics.StudentStats) error { return nil }

func (f *fakeStatsRepo) GetByEmail(context.Context, string) (*metrics.StudentStats, error) {
	return nil, metrics.ErrStatsNotFound
}

func (f *fakeStatsRepo) ListStandings(context.Context) ([]*metrics.StudentStats, error) {
	f.calls++
	return f.standings, nil
}

type fakeCache struct {
	snapshot []*metrics.StudentStats
	puts     int
}

func (f *fakeCache) GetSnapshot(context.Context) ([]*metrics.StudentStats, error) {
	if f.snapshot == nil {
		return nil, errors.New("cache miss")
	}
	return f.snapshot, nil
}

func (f *fakeCache) PutSnapshot(_ context.Context, standings []*metrics.StudentStats) error {
	f.snapshot = standings
	f.puts++
	return nil
}

func sampleStandings() []*metrics.StudentStats {
	return []*metrics.StudentStats{
		{Email: "star@academy.mil", GPA: 3.8, AttendanceRate: 100, Standing: metrics.StandingHonorRoll},
		{Email: "thabo@academy.mil", GPA: 3.4, AttendanceRate: 100, Standing: metrics.StandingGoodStanding},
		{Email: "jan@academy.mil", GPA: 2.4, AttendanceRate: 50, Standing: metrics.StandingWarning},
	}
}

func TestGetStandings_ReadsThroughAndFillsCache(t *testing.T) {
	repo := &fakeStatsRepo{standings: sampleStandings()}
	cache := &fakeCache{}
	h := NewGetStandingsHandler(repo, cache, nil)

	standings, err := h.Handle(context.Background(), GetStandingsQuery{})
	assert.NoError(t, err)
	assert.Len(t, standings, 3)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.puts)

	// Second read is served from the cache.
	_, err = h.Handle(context.Background(), GetStandingsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestGetStandings_FilterByStanding(t *testing.T) {
	repo := &fakeStatsRepo{standings: sampleStandings()}
	h := NewGetStandingsHandler(repo, nil, nil)

	standings, err := h.Handle(context.Background(), GetStandingsQuery{
		Standing: metrics.StandingWarning,
	})
	assert.NoError(t, err)
	assert.Len(t, standings, 1)
	assert.Equal(t, "jan@academy.mil", standings[0].Email)
}

func TestGetStandings_NoCacheStillWorks(t *testing.T) {
	repo := &fakeStatsRepo{standings: sampleStandings()}
	h := NewGetStandingsHandler(repo, nil, nil)

	standings, err := h.Handle(context.Background(), GetStandingsQuery{})
	assert.NoError(t, err)
	assert.Len(t, standings, 3)
}
