package service

import (
	"context"

	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
	"draft-assistant/internal/store"

	"github.com/rs/zerolog"
)

// QueryService answers multi-field search, filter and sort queries over a
// consistent pool snapshot. It never mutates player data.
type QueryService struct {
	backend *store.Backend
	logger  zerolog.Logger
}

func NewQueryService(backend *store.Backend, logger zerolog.Logger) *QueryService {
	return &QueryService{backend: backend, logger: logger}
}

func (s *QueryService) Query(ctx context.Context, f Filter, key SortKey, order SortOrder, limit int) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load pool snapshot")
		return nil, err
	}

	result := search(players, f, key, order, limit)

	s.logger.Debug().
		Int("pool", len(players)).
		Int("matched", len(result)).
		Str("sort_key", string(key)).
		Str("sort_order", string(order)).
		Msg("query completed")
	return result, nil
}

// TopByPosition returns the best available players at a position, highest
// projection first.
func (s *QueryService) TopByPosition(ctx context.Context, position domain.Position, limit int) ([]domain.Player, error) {
	available := false
	return s.Query(ctx, Filter{Position: position, Drafted: &available}, SortByProjectedPoints, SortDesc, limit)
}

// Summary reports pool-level totals and the per-position breakdown.
func (s *QueryService) Summary(ctx context.Context) (*domain.PoolSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.PoolSummary{
		ByPosition:          make(map[domain.Position]int),
		AvailableByPosition: make(map[domain.Position]int),
	}
	for _, p := range players {
		summary.Total++
		summary.ByPosition[p.Position]++
		if p.Drafted {
			summary.Drafted++
		} else {
			summary.Available++
			summary.AvailableByPosition[p.Position]++
		}
	}
	return summary, nil
}

// Mode exposes the storage backend's current mode so the presentation layer
// can warn when results come from the fallback store.
func (s *QueryService) Mode() store.Mode {
	return s.backend.Mode()
}
