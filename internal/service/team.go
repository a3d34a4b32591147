package service

import (
	"context"
	"sort"
	"strings"

	"draft-assistant/internal/config"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
	"draft-assistant/internal/store"

	"github.com/rs/zerolog"
)

// TeamService aggregates an owner's drafted players into positional-need
// scoring.
type TeamService struct {
	backend *store.Backend
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewTeamService(backend *store.Backend, cfg *config.Config, logger zerolog.Logger) *TeamService {
	return &TeamService{backend: backend, cfg: cfg, logger: logger}
}

// Analyze reports the owner's positional counts, their roster in acquisition
// order, and the positions they should target next. An owner with nothing
// drafted gets zero counts and the full priority order.
func (s *TeamService) Analyze(ctx context.Context, owner string) (*domain.TeamReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := analyzeRoster(players, owner, s.cfg.PriorityWeights)
	s.logger.Debug().
		Str("owner", owner).
		Int("rostered", len(report.Roster)).
		Msg("team analysis computed")
	return report, nil
}

func analyzeRoster(players []domain.Player, owner string, weights map[domain.Position]int) *domain.TeamReport {
	counts := make(map[domain.Position]int, len(domain.Positions))
	for _, pos := range domain.Positions {
		counts[pos] = 0
	}

	var roster []domain.Player
	for _, p := range players {
		if p.Drafted && strings.EqualFold(p.DraftedBy, owner) {
			roster = append(roster, p)
			counts[p.Position]++
		}
	}
	sort.Slice(roster, func(i, j int) bool {
		if !roster[i].DraftedAt.Equal(roster[j].DraftedAt) {
			return roster[i].DraftedAt.Before(roster[j].DraftedAt)
		}
		return roster[i].ID < roster[j].ID
	})

	// Fewer rostered at a heavier-weighted position ranks first. Ties keep
	// the canonical priority order.
	needs := make([]domain.Position, len(domain.Positions))
	copy(needs, domain.Positions)
	sort.SliceStable(needs, func(i, j int) bool {
		return weights[needs[i]]-counts[needs[i]] > weights[needs[j]]-counts[needs[j]]
	})

	return &domain.TeamReport{
		Owner:  owner,
		Counts: counts,
		Roster: roster,
		Needs:  needs,
	}
}
