package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"draft-assistant/internal/domain"

	"github.com/rs/zerolog"
)

// SnapshotStore is the local fallback store: the full pool held in memory and
// mirrored to a single JSON file. Every mutation rewrites the file through a
// temp-file rename so a crash mid-write never leaves a torn snapshot.
type SnapshotStore struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	players map[string]domain.Player
}

type snapshotFile struct {
	SavedAt time.Time       `json:"saved_at"`
	Players []domain.Player `json:"players"`
}

func NewSnapshotStore(path string, logger zerolog.Logger) (*SnapshotStore, error) {
	s := &SnapshotStore{
		path:    path,
		logger:  logger,
		players: make(map[string]domain.Player),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug().Str("path", s.path).Msg("no snapshot file, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}

	for _, p := range file.Players {
		s.players[p.ID] = p
	}
	s.logger.Info().
		Str("path", s.path).
		Int("players", len(s.players)).
		Time("saved_at", file.SavedAt).
		Msg("snapshot loaded")
	return nil
}

// save must be called with the write lock held.
func (s *SnapshotStore) save() error {
	file := snapshotFile{
		SavedAt: time.Now(),
		Players: make([]domain.Player, 0, len(s.players)),
	}
	for _, p := range s.players {
		file.Players = append(file.Players, p)
	}
	sort.Slice(file.Players, func(i, j int) bool {
		return file.Players[i].ID < file.Players[j].ID
	})

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Put(ctx context.Context, players []domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		s.players[p.ID] = p
	}
	if err := s.save(); err != nil {
		return err
	}

	s.logger.Debug().Int("count", len(players)).Msg("players saved to snapshot store")
	return nil
}

func (s *SnapshotStore) GetAll(ctx context.Context) ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]domain.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *SnapshotStore) Get(ctx context.Context, id string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return domain.Player{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *SnapshotStore) SetDrafted(ctx context.Context, id, owner string, drafted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return domain.ErrNotFound
	}

	now := time.Now()
	p.Drafted = drafted
	p.DraftedBy = owner
	if drafted {
		p.DraftedAt = now
	} else {
		p.DraftedAt = time.Time{}
	}
	p.UpdatedAt = now
	s.players[id] = p

	return s.save()
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return nil
}
