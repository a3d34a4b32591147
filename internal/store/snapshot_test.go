package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"draft-assistant/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testPlayers() []domain.Player {
	return []domain.Player{
		{ID: "p1", Name: "Josh Allen", Position: domain.PositionQB, Team: "BUF", Rank: 1, ProjectedPoints: 390},
		{ID: "p2", Name: "Bijan Robinson", Position: domain.PositionRB, Team: "ATL", Rank: 2, ProjectedPoints: 280},
	}
}

func newTestSnapshotStore(t *testing.T) (*SnapshotStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.json")
	s, err := NewSnapshotStore(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func TestSnapshotStorePutAndGet(t *testing.T) {
	s, _ := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testPlayers()))

	p, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Josh Allen", p.Name)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "p1", all[0].ID)
	require.Equal(t, "p2", all[1].ID)
}

func TestSnapshotStorePersistsAcrossReopen(t *testing.T) {
	s, path := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testPlayers()))
	require.NoError(t, s.SetDrafted(ctx, "p1", "me", true))

	reopened, err := NewSnapshotStore(path, zerolog.Nop())
	require.NoError(t, err)

	p, err := reopened.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, p.Drafted)
	require.Equal(t, "me", p.DraftedBy)
	require.False(t, p.DraftedAt.IsZero())

	// no torn temp file left behind
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestSnapshotStoreSetDraftedLifecycle(t *testing.T) {
	s, _ := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testPlayers()))

	require.ErrorIs(t, s.SetDrafted(ctx, "missing", "me", true), domain.ErrNotFound)

	require.NoError(t, s.SetDrafted(ctx, "p2", "me", true))
	p, err := s.Get(ctx, "p2")
	require.NoError(t, err)
	require.True(t, p.Drafted)

	require.NoError(t, s.SetDrafted(ctx, "p2", "", false))
	p, err = s.Get(ctx, "p2")
	require.NoError(t, err)
	require.False(t, p.Drafted)
	require.Empty(t, p.DraftedBy)
	require.True(t, p.DraftedAt.IsZero())
}

func TestSnapshotStoreStartsEmptyWithoutFile(t *testing.T) {
	s, _ := newTestSnapshotStore(t)

	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}
