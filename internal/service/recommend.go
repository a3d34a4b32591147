package service

import (
	"context"
	"sort"

	"draft-assistant/internal/api"
	"draft-assistant/internal/config"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
	"draft-assistant/internal/store"

	"github.com/rs/zerolog"
)

// RecommendService computes the derived recommendation views. Apart from the
// trending feed they are read-only and deterministic over a pool snapshot; an
// empty pool yields empty results, never an error.
type RecommendService struct {
	backend *store.Backend
	cfg     *config.Config
	sleeper *api.SleeperClient
	logger  zerolog.Logger
}

func NewRecommendService(backend *store.Backend, cfg *config.Config, sleeper *api.SleeperClient, logger zerolog.Logger) *RecommendService {
	return &RecommendService{backend: backend, cfg: cfg, sleeper: sleeper, logger: logger}
}

// Sleepers surfaces undrafted players ranked in the worse half of their
// position who are young and inexperienced enough to be undervalued by
// consensus rank. Ordered by projected points descending.
func (s *RecommendService) Sleepers(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	picks := sleeperPicks(players, s.cfg.YouthAgeMax, s.cfg.YouthExperienceMax)
	s.logger.Debug().Int("picks", len(picks)).Msg("sleeper picks computed")
	return picks, nil
}

func sleeperPicks(players []domain.Player, ageMax, expMax int) []domain.Player {
	medians := medianRankByPosition(players)

	picks := make([]domain.Player, 0)
	for _, p := range players {
		if p.Drafted || !p.Ranked() {
			continue
		}
		median, ok := medians[p.Position]
		if !ok || p.Rank <= median {
			continue
		}
		if p.Age == nil || *p.Age >= ageMax {
			continue
		}
		if p.ExperienceYears == nil || *p.ExperienceYears >= expMax {
			continue
		}
		picks = append(picks, p)
	}

	sortPlayers(picks, SortByProjectedPoints, SortDesc)
	return picks
}

// medianRankByPosition computes each position's median consensus rank over
// every ranked player in the pool, drafted or not, so the halves do not
// shift as the draft progresses.
func medianRankByPosition(players []domain.Player) map[domain.Position]int {
	ranks := make(map[domain.Position][]int)
	for _, p := range players {
		if p.Ranked() {
			ranks[p.Position] = append(ranks[p.Position], p.Rank)
		}
	}

	medians := make(map[domain.Position]int, len(ranks))
	for pos, rs := range ranks {
		sort.Ints(rs)
		medians[pos] = rs[(len(rs)-1)/2]
	}
	return medians
}

// ValuePicks surfaces undrafted players whose projected-points percentile
// within their position beats their rank percentile by at least the
// configured tier gap. Ordered by the gap descending.
func (s *RecommendService) ValuePicks(ctx context.Context) ([]domain.ValuePick, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	picks := valuePicks(players, s.cfg.ValueTierGap)
	s.logger.Debug().Int("picks", len(picks)).Msg("value picks computed")
	return picks, nil
}

func valuePicks(players []domain.Player, tierGap float64) []domain.ValuePick {
	byPosition := make(map[domain.Position][]domain.Player)
	for _, p := range players {
		if p.Ranked() {
			byPosition[p.Position] = append(byPosition[p.Position], p)
		}
	}

	picks := make([]domain.ValuePick, 0)
	for _, group := range byPosition {
		n := len(group)
		if n < 2 {
			continue
		}
		for _, p := range group {
			if p.Drafted {
				continue
			}

			var worseRank, lowerPoints int
			for _, q := range group {
				if q.Rank > p.Rank {
					worseRank++
				}
				if q.ProjectedPoints < p.ProjectedPoints {
					lowerPoints++
				}
			}
			rankPct := float64(worseRank) / float64(n) * 100
			pointsPct := float64(lowerPoints) / float64(n) * 100
			gap := pointsPct - rankPct

			if gap >= tierGap {
				picks = append(picks, domain.ValuePick{
					Player:           p,
					RankPercentile:   rankPct,
					PointsPercentile: pointsPct,
					PercentileGap:    gap,
				})
			}
		}
	}

	sort.Slice(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if a.PercentileGap != b.PercentileGap {
			return a.PercentileGap > b.PercentileGap
		}
		if a.Player.Rank != b.Player.Rank {
			return a.Player.Rank < b.Player.Rank
		}
		return a.Player.ID < b.Player.ID
	})
	return picks
}

// Handcuffs returns the undrafted running backs behind a drafted RB on the
// same team, best rank first. Unknown, undrafted or non-RB targets yield an
// empty list, not an error.
func (s *RecommendService) Handcuffs(ctx context.Context, playerID string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cuffs := handcuffs(players, playerID)
	s.logger.Debug().Str("player_id", playerID).Int("handcuffs", len(cuffs)).Msg("handcuffs computed")
	return cuffs, nil
}

func handcuffs(players []domain.Player, playerID string) []domain.Player {
	var target *domain.Player
	for i := range players {
		if players[i].ID == playerID {
			target = &players[i]
			break
		}
	}
	if target == nil || !target.Drafted || target.Position != domain.PositionRB {
		return []domain.Player{}
	}
	if target.Team == "" || target.Team == "FA" {
		return []domain.Player{}
	}

	cuffs := make([]domain.Player, 0)
	for _, p := range players {
		if p.ID == target.ID || p.Drafted {
			continue
		}
		if p.Position == domain.PositionRB && p.Team == target.Team {
			cuffs = append(cuffs, p)
		}
	}

	sortPlayers(cuffs, SortByRank, SortAsc)
	return cuffs
}

// TrendingPick joins a platform trending-adds entry with the pool's record
// for that player.
type TrendingPick struct {
	Player domain.Player `json:"player"`
	Adds   int           `json:"adds"`
}

// Trending returns the pool's undrafted players that are currently among the
// platform's most-added, in add-count order. Trending entries not in the pool
// are skipped.
func (s *RecommendService) Trending(ctx context.Context) ([]TrendingPick, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	adds, err := s.sleeper.GetTrendingAdds(ctx, constants.TrendingAddLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("trending adds fetch failed")
		return nil, err
	}

	players, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	picks := trendingPicks(players, adds)
	s.logger.Debug().Int("trending", len(adds)).Int("picks", len(picks)).Msg("trending picks computed")
	return picks, nil
}

func trendingPicks(players []domain.Player, adds []api.TrendingPlayer) []TrendingPick {
	byID := make(map[string]domain.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	picks := make([]TrendingPick, 0, len(adds))
	for _, t := range adds {
		p, ok := byID[t.PlayerID]
		if !ok || p.Drafted {
			continue
		}
		picks = append(picks, TrendingPick{Player: p, Adds: t.Count})
	}
	return picks
}
