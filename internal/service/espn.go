package service

import (
	"context"
	"strings"
	"time"

	"draft-assistant/internal/api"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
)

// PullESPN refreshes the pool from an ESPN league's rosters. Every rostered
// player comes in drafted by their fantasy team, with the platform's real
// season projection replacing estimated numbers for players already in the
// pool. The pool's own draft tracking stays authoritative for players it
// already holds; ESPN's roster state only seeds new records.
func (s *PoolService) PullESPN(ctx context.Context, leagueID string, season int) (*IngestReport, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, domain.NewValidationError("league_id", "required for an ESPN pull")
	}
	if season <= 0 {
		season = time.Now().Year()
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	league, err := s.espn.GetLeague(ctx, leagueID, season)
	if err != nil {
		s.logger.Error().Err(err).Str("league_id", leagueID).Msg("ESPN league fetch failed")
		return nil, err
	}

	records := mapESPNRecords(league)
	s.logger.Info().
		Str("league_id", leagueID).
		Int("season", season).
		Int("teams", len(league.Teams)).
		Int("records", len(records)).
		Msg("espn pull mapped")

	return s.Ingest(ctx, records)
}

func mapESPNRecords(league *api.ESPNLeague) []domain.RawPlayer {
	var records []domain.RawPlayer
	for _, team := range league.Teams {
		owner := team.DisplayName()
		for _, entry := range team.Roster.Entries {
			player := entry.PlayerPoolEntry.Player
			if player.FullName == "" {
				continue
			}
			position := api.ESPNPosition(player.DefaultPositionID)
			if position == "" {
				continue
			}

			// defenses can project negative under some scoring settings
			points := player.ProjectedTotal()
			if points < 0 {
				points = 0
			}

			records = append(records, domain.RawPlayer{
				Name:            player.FullName,
				Position:        position,
				Team:            api.ESPNProTeam(player.ProTeamID),
				ProjectedPoints: points,
				Drafted:         true,
				DraftedBy:       owner,
				Source:          "espn",
			})
		}
	}
	return records
}
