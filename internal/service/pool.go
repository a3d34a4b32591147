package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"draft-assistant/internal/api"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"
	"draft-assistant/internal/store"
	"draft-assistant/internal/validate"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// PoolService owns the pool's update path: bulk ingestion with per-record
// validation and the draft/undraft status flip. Records never reach the
// storage backend without passing the validator.
type PoolService struct {
	backend   *store.Backend
	validator *validate.Validator
	sleeper   *api.SleeperClient
	adp       *api.ADPClient
	espn      *api.ESPNClient
	logger    zerolog.Logger
}

func NewPoolService(backend *store.Backend, validator *validate.Validator, sleeper *api.SleeperClient, adp *api.ADPClient, espn *api.ESPNClient, logger zerolog.Logger) *PoolService {
	return &PoolService{
		backend:   backend,
		validator: validator,
		sleeper:   sleeper,
		adp:       adp,
		espn:      espn,
		logger:    logger,
	}
}

type IngestReport struct {
	Total    int              `json:"total"`
	Inserted int              `json:"inserted"`
	Merged   int              `json:"merged"`
	Rejected []RejectedRecord `json:"rejected"`
}

type RejectedRecord struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type mergeKey struct {
	name     string
	position domain.Position
}

func keyFor(p domain.Player) mergeKey {
	return mergeKey{name: strings.ToLower(p.Name), position: p.Position}
}

// Ingest validates each record and writes the accepted ones through the
// storage backend. Invalid records are reported individually and never abort
// the batch. Records are matched against the pool by (name, position); on a
// match the incoming source wins on rank and projected points while the
// existing id and draft status are preserved, so re-ingesting an identical
// batch is a no-op for pool membership.
//
// The merge runs inside the backend's update boundary: the pool snapshot it
// merges against cannot change before the write-back, so a draft flip
// arriving during a large batch is never reverted.
func (s *PoolService) Ingest(ctx context.Context, records []domain.RawPlayer) (*IngestReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	report := &IngestReport{Total: len(records)}
	accepted := make([]domain.Player, 0, len(records))
	for _, raw := range records {
		p, err := s.validator.Validate(raw)
		if err != nil {
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			report.Rejected = append(report.Rejected, RejectedRecord{
				Name:   raw.Name,
				Reason: verr.Error(),
			})
			continue
		}
		accepted = append(accepted, p)
	}

	now := time.Now()
	err := s.backend.Update(ctx, func(pool []domain.Player) ([]domain.Player, error) {
		byKey := make(map[mergeKey]domain.Player, len(pool))
		for _, p := range pool {
			byKey[keyFor(p)] = p
		}

		changed := make(map[string]domain.Player)
		for _, p := range accepted {
			k := keyFor(p)
			if cur, ok := byKey[k]; ok {
				merged := mergePlayers(cur, p, now)
				byKey[k] = merged
				changed[merged.ID] = merged
				report.Merged++
				continue
			}

			if p.ID == "" {
				id, err := gonanoid.New()
				if err != nil {
					return nil, fmt.Errorf("failed to generate player id: %w", err)
				}
				p.ID = id
			}
			p.CreatedAt = now
			p.UpdatedAt = now
			if p.Drafted {
				p.DraftedAt = now
			}
			byKey[k] = p
			changed[p.ID] = p
			report.Inserted++
		}

		players := make([]domain.Player, 0, len(changed))
		for _, p := range changed {
			players = append(players, p)
		}
		sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
		return players, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("total", report.Total).
		Int("inserted", report.Inserted).
		Int("merged", report.Merged).
		Int("rejected", len(report.Rejected)).
		Msg("ingest completed")
	return report, nil
}

// mergePlayers folds an incoming record into the pool's record for the same
// (name, position). The incoming batch is the newer source, so its rank and
// projection win when present; identity and draft status stay with the pool.
func mergePlayers(cur, in domain.Player, now time.Time) domain.Player {
	merged := cur
	if in.Rank > 0 {
		merged.Rank = in.Rank
	}
	if in.ProjectedPoints > 0 {
		merged.ProjectedPoints = in.ProjectedPoints
	}
	if in.Team != "FA" {
		merged.Team = in.Team
	}
	if in.Age != nil {
		merged.Age = in.Age
	}
	if in.ExperienceYears != nil {
		merged.ExperienceYears = in.ExperienceYears
	}
	merged.Source = in.Source
	merged.UpdatedAt = now
	return merged
}

// Draft marks a player as taken by owner.
func (s *PoolService) Draft(ctx context.Context, id, owner string) error {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return domain.NewValidationError("owner", "required to draft a player")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.backend.SetDrafted(ctx, id, owner, true); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Str("owner", owner).Msg("player drafted")
	return nil
}

// Undraft returns a player to the available pool.
func (s *PoolService) Undraft(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.backend.SetDrafted(ctx, id, "", false); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("player undrafted")
	return nil
}

// Resync pushes the fallback's pool into the primary after a degraded
// session. Exposed as an explicit operation, never run automatically.
func (s *PoolService) Resync(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	return s.backend.Resync(ctx)
}

// Reconnect probes the primary store and restores primary-preferred routing
// on success.
func (s *PoolService) Reconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	return s.backend.Reconnect(ctx)
}

// Mode reports whether the backend currently serves from the primary or the
// fallback store.
func (s *PoolService) Mode() store.Mode {
	return s.backend.Mode()
}
