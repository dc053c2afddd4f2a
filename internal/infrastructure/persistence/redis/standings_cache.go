package redis

import (
	"context"
	"errors"
	"time"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STANDINGS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// StandingsCache keeps the latest standings snapshot and per-student stats
// hot. It is refreshed after every successful load and read by the
// standings queries; a miss always falls back to the store.
type StandingsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewStandingsCache creates a StandingsCache with the given snapshot TTL.
func NewStandingsCache(cache *Cache, ttl time.Duration) *StandingsCache {
	return &StandingsCache{cache: cache, ttl: ttl}
}

// PutSnapshot stores the full standings list and the per-student entries.
func (s *StandingsCache) PutSnapshot(ctx context.Context, standings []*metrics.StudentStats) error {
	if err := s.cache.Set(ctx, StandingsKey(), standings, s.ttl); err != nil {
		return err
	}

	for _, st := range standings {
		if err := s.cache.Set(ctx, StatsKey(st.Email), st, s.ttl); err != nil {
			return err
		}
	}

	return nil
}

// GetSnapshot returns the cached standings list.
// Returns ErrCacheMiss when no snapshot is cached.
func (s *StandingsCache) GetSnapshot(ctx context.Context) ([]*metrics.StudentStats, error) {
	var standings []*metrics.StudentStats
	if err := s.cache.Get(ctx, StandingsKey(), &standings); err != nil {
		return nil, err
	}
	return standings, nil
}

// GetStats returns one student's cached stats by canonical email.
// Returns metrics.ErrStatsNotFound on a miss, matching the store.
func (s *StandingsCache) GetStats(ctx context.Context, email string) (*metrics.StudentStats, error) {
	var stats metrics.StudentStats
	err := s.cache.Get(ctx, StatsKey(student.CanonicalEmail(email)), &stats)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, metrics.ErrStatsNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// Invalidate drops the snapshot and all per-student entries. Called before
// a pipeline run rewrites the stats.
func (s *StandingsCache) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, StandingsKey()); err != nil {
		return err
	}
	return s.cache.DeleteByPattern(ctx, PrefixStats+"*")
}
