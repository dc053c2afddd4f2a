// Package query contains read operations following CQRS pattern.
// Queries never modify state; they read through the repositories, with an
// optional cache in front of the hot paths.
package query

import (
	"context"

	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STANDINGS QUERY
// Returns the full standings list ordered by GPA. Cache-aside: a snapshot
// hit skips the store, a miss reads through and refreshes the snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// StandingsCache is the read side of the standings snapshot. Satisfied by
// the redis StandingsCache; nil disables caching entirely.
type StandingsCache interface {
	GetSnapshot(ctx context.Context) ([]*metrics.StudentStats, error)
	PutSnapshot(ctx context.Context, standings []*metrics.StudentStats) error
}

// GetStandingsQuery contains the standings request parameters.
type GetStandingsQuery struct {
	// Standing filters to one classification; empty returns all.
	Standing metrics.Standing
}

// GetStandingsHandler handles the GetStandingsQuery.
type GetStandingsHandler struct {
	stats metrics.Repository
	cache StandingsCache
	log   *logger.Logger
}

// NewGetStandingsHandler creates a new GetStandingsHandler.
// Cache may be nil.
func NewGetStandingsHandler(stats metrics.Repository, cache StandingsCache, log *logger.Logger) *GetStandingsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetStandingsHandler{
		stats: stats,
		cache: cache,
		log:   log.With(logger.Component("get_standings")),
	}
}

// Handle returns the standings, best GPA first.
func (h *GetStandingsHandler) Handle(ctx context.Context, q GetStandingsQuery) ([]*metrics.StudentStats, error) {
	standings, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	if q.Standing == "" {
		return standings, nil
	}

	filtered := make([]*metrics.StudentStats, 0, len(standings))
	for _, st := range standings {
		if st.Standing == q.Standing {
			filtered = append(filtered, st)
		}
	}
	return filtered, nil
}

func (h *GetStandingsHandler) load(ctx context.Context) ([]*metrics.StudentStats, error) {
	if h.cache != nil {
		if cached, err := h.cache.GetSnapshot(ctx); err == nil {
			return cached, nil
		}
	}

	standings, err := h.stats.ListStandings(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		// Cache refresh is best effort; a failure never fails the read.
		if err := h.cache.PutSnapshot(ctx, standings); err != nil {
			h.log.Warn("standings cache refresh failed", logger.Err(err))
		}
	}

	return standings, nil
}
