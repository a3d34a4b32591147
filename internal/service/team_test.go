package service

import (
	"testing"
	"time"

	"draft-assistant/internal/domain"

	"github.com/stretchr/testify/require"
)

func defaultWeights() map[domain.Position]int {
	return map[domain.Position]int{
		domain.PositionRB:  3,
		domain.PositionWR:  3,
		domain.PositionQB:  2,
		domain.PositionTE:  2,
		domain.PositionK:   1,
		domain.PositionDEF: 1,
	}
}

func TestAnalyzeRosterEmptyOwner(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "Someone", Position: domain.PositionQB, Rank: 1, Drafted: true, DraftedBy: "rival"},
	}

	report := analyzeRoster(pool, "me", defaultWeights())

	require.Equal(t, "me", report.Owner)
	require.Empty(t, report.Roster)
	for _, pos := range domain.Positions {
		require.Equal(t, 0, report.Counts[pos])
	}
	require.Equal(t, domain.Positions, report.Needs)
}

func TestAnalyzeRosterCountsAndNeeds(t *testing.T) {
	draftTime := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)
	pool := []domain.Player{
		{ID: "rb1", Name: "Back One", Position: domain.PositionRB, Rank: 3, Drafted: true, DraftedBy: "me", DraftedAt: draftTime},
		{ID: "rb2", Name: "Back Two", Position: domain.PositionRB, Rank: 9, Drafted: true, DraftedBy: "me", DraftedAt: draftTime.Add(10 * time.Minute)},
		{ID: "wr1", Name: "Receiver", Position: domain.PositionWR, Rank: 4, Drafted: true, DraftedBy: "rival", DraftedAt: draftTime.Add(5 * time.Minute)},
		{ID: "qb1", Name: "Passer", Position: domain.PositionQB, Rank: 1},
	}

	report := analyzeRoster(pool, "me", defaultWeights())

	require.Equal(t, 2, report.Counts[domain.PositionRB])
	require.Equal(t, 0, report.Counts[domain.PositionWR])
	require.Equal(t, []string{"rb1", "rb2"}, ids(report.Roster))

	// two RBs rostered pushes RB below WR, QB and TE
	require.Equal(t, []domain.Position{
		domain.PositionWR,
		domain.PositionQB,
		domain.PositionTE,
		domain.PositionRB,
		domain.PositionK,
		domain.PositionDEF,
	}, report.Needs)
}

func TestAnalyzeRosterAcquisitionOrder(t *testing.T) {
	draftTime := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)
	pool := []domain.Player{
		{ID: "late", Name: "Late Pick", Position: domain.PositionWR, Rank: 40, Drafted: true, DraftedBy: "Me", DraftedAt: draftTime.Add(time.Hour)},
		{ID: "early", Name: "Early Pick", Position: domain.PositionRB, Rank: 2, Drafted: true, DraftedBy: "me", DraftedAt: draftTime},
	}

	report := analyzeRoster(pool, "ME", defaultWeights())
	require.Equal(t, []string{"early", "late"}, ids(report.Roster))
}
