package store

import (
	"context"

	"draft-assistant/internal/domain"
)

// Store is the capability set both backing stores implement. The primary is
// the SQLite repository; the fallback is the local JSON snapshot.
type Store interface {
	// Put inserts or updates the given players.
	Put(ctx context.Context, players []domain.Player) error
	// GetAll returns every player in the pool.
	GetAll(ctx context.Context) ([]domain.Player, error)
	// Get returns a single player, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (domain.Player, error)
	// SetDrafted flips the drafted flag. owner must be empty when drafted is
	// false and non-empty when it is true; callers enforce that invariant.
	SetDrafted(ctx context.Context, id, owner string, drafted bool) error
	// Ping probes reachability.
	Ping(ctx context.Context) error
}
