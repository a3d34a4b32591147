package service

import (
	"context"
	"sort"
	"strings"

	"draft-assistant/internal/api"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
	"draft-assistant/internal/validate"

	"golang.org/x/sync/errgroup"
)

// PullSleeper refreshes the pool from the Sleeper player catalog, with ranks
// taken from consensus ADP. The two upstreams are fetched concurrently; a
// failed ADP fetch degrades to projection-derived ordering instead of
// failing the pull.
func (s *PoolService) PullSleeper(ctx context.Context) (*IngestReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	var (
		catalog map[string]api.SleeperPlayer
		adp     []api.ADPEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.sleeper.GetPlayers(gctx)
		return err
	})
	g.Go(func() error {
		entries, err := s.adp.GetADP(gctx, "ppr", 12)
		if err != nil {
			s.logger.Warn().Err(err).Msg("ADP fetch failed, ranks will follow projections")
			return nil
		}
		adp = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("sleeper catalog fetch failed")
		return nil, err
	}

	records := mapSleeperRecords(catalog, adp)
	s.logger.Info().
		Int("catalog", len(catalog)).
		Int("adp", len(adp)).
		Int("records", len(records)).
		Msg("sleeper pull mapped")

	return s.Ingest(ctx, records)
}

func mapSleeperRecords(catalog map[string]api.SleeperPlayer, adp []api.ADPEntry) []domain.RawPlayer {
	adpRank := adpRankIndex(adp)

	var records []domain.RawPlayer
	for id, sp := range catalog {
		if sp.FullName == "" || sp.Position == "" {
			continue
		}
		position := validate.NormalizePosition(sp.Position)
		if !position.Valid() {
			continue
		}
		switch strings.ToLower(sp.Status) {
		case "retired", "suspended":
			continue
		}

		record := domain.RawPlayer{
			ID:              id,
			Name:            sp.FullName,
			Position:        string(position),
			Team:            sp.Team,
			Age:             sp.Age,
			ExperienceYears: sp.YearsExp,
			ProjectedPoints: estimateProjection(position, sp.Age, sp.YearsExp),
			Source:          "sleeper",
		}
		k := mergeKey{name: strings.ToLower(validate.CleanName(sp.FullName)), position: position}
		if rank, ok := adpRank[k]; ok {
			record.Rank = rank
		}
		records = append(records, record)
	}

	// Players missing from the ADP board get ranks after it, ordered by
	// projection, so every record ends up comparable.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if (a.Rank > 0) != (b.Rank > 0) {
			return a.Rank > 0
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if a.ProjectedPoints != b.ProjectedPoints {
			return a.ProjectedPoints > b.ProjectedPoints
		}
		return a.ID < b.ID
	})
	maxRank := 0
	for _, r := range records {
		if r.Rank > maxRank {
			maxRank = r.Rank
		}
	}
	for i := range records {
		if records[i].Rank == 0 {
			maxRank++
			records[i].Rank = maxRank
		}
	}
	return records
}

// adpRankIndex orders the ADP board by average pick and indexes the overall
// rank by cleaned (name, position).
func adpRankIndex(adp []api.ADPEntry) map[mergeKey]int {
	sorted := make([]api.ADPEntry, len(adp))
	copy(sorted, adp)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ADP != sorted[j].ADP {
			return sorted[i].ADP < sorted[j].ADP
		}
		return sorted[i].Name < sorted[j].Name
	})

	index := make(map[mergeKey]int, len(sorted))
	for i, entry := range sorted {
		position := validate.NormalizePosition(entry.Position)
		if !position.Valid() {
			continue
		}
		k := mergeKey{name: strings.ToLower(validate.CleanName(entry.Name)), position: position}
		if _, ok := index[k]; !ok {
			index[k] = i + 1
		}
	}
	return index
}

// estimateProjection is a coarse positional baseline used when no real
// projection source is wired: position base scaled by experience and age
// curves peaking in a player's prime years.
func estimateProjection(position domain.Position, age, yearsExp *int) float64 {
	base := map[domain.Position]float64{
		domain.PositionQB:  220,
		domain.PositionRB:  180,
		domain.PositionWR:  160,
		domain.PositionTE:  120,
		domain.PositionK:   100,
		domain.PositionDEF: 90,
	}[position]

	expModifier := 0.9
	if yearsExp != nil {
		switch {
		case *yearsExp >= 2 && *yearsExp <= 8:
			expModifier = 1.1
		case *yearsExp > 8 || *yearsExp == 0:
			expModifier = 0.8
		}
	}

	ageModifier := 1.0
	if age != nil {
		switch {
		case *age > 28:
			ageModifier = 1.0 - float64(*age-28)*0.05
			if ageModifier < 0.7 {
				ageModifier = 0.7
			}
		case *age < 24:
			ageModifier = 0.8
		}
	}

	return base * expModifier * ageModifier
}
