package service

import (
	"testing"

	"draft-assistant/internal/api"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSleeperPicksSurfacesYoungLowRankedPlayers(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "Star Back", Position: domain.PositionRB, Team: "BUF", Rank: 5, ProjectedPoints: 280},
		{ID: "b", Name: "Young Back", Position: domain.PositionRB, Team: "BUF", Rank: 40, ProjectedPoints: 140, Age: intp(23), ExperienceYears: intp(1)},
		{ID: "c", Name: "Old Veteran", Position: domain.PositionRB, Team: "MIA", Rank: 25, ProjectedPoints: 160, Age: intp(29), ExperienceYears: intp(7)},
	}

	picks := sleeperPicks(pool, constants.DefaultYouthAgeMax, constants.DefaultYouthExperienceMax)
	require.Equal(t, []string{"b"}, ids(picks))
}

func TestSleeperPicksSkipsDraftedAndUnknownAge(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "Top Guy", Position: domain.PositionWR, Rank: 1, ProjectedPoints: 300},
		{ID: "a2", Name: "Second Guy", Position: domain.PositionWR, Rank: 2, ProjectedPoints: 290},
		{ID: "b", Name: "Drafted Kid", Position: domain.PositionWR, Rank: 50, ProjectedPoints: 150, Age: intp(22), ExperienceYears: intp(1), Drafted: true, DraftedBy: "rival"},
		{ID: "c", Name: "Ageless Kid", Position: domain.PositionWR, Rank: 60, ProjectedPoints: 140, ExperienceYears: intp(1)},
	}

	picks := sleeperPicks(pool, constants.DefaultYouthAgeMax, constants.DefaultYouthExperienceMax)
	require.Empty(t, picks)
}

func TestSleeperPicksOrderedByProjectionDescending(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "Anchor", Position: domain.PositionWR, Rank: 1, ProjectedPoints: 300},
		{ID: "a2", Name: "Second Anchor", Position: domain.PositionWR, Rank: 2, ProjectedPoints: 290},
		{ID: "b", Name: "Kid One", Position: domain.PositionWR, Rank: 30, ProjectedPoints: 150, Age: intp(22), ExperienceYears: intp(1)},
		{ID: "c", Name: "Kid Two", Position: domain.PositionWR, Rank: 40, ProjectedPoints: 180, Age: intp(23), ExperienceYears: intp(2)},
	}

	picks := sleeperPicks(pool, constants.DefaultYouthAgeMax, constants.DefaultYouthExperienceMax)
	require.Equal(t, []string{"c", "b"}, ids(picks))
}

func TestSleeperPicksEmptyPool(t *testing.T) {
	require.Empty(t, sleeperPicks(nil, constants.DefaultYouthAgeMax, constants.DefaultYouthExperienceMax))
}

func TestValuePicksFlagsProjectionOutpacingRank(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "Consensus One", Position: domain.PositionRB, Rank: 1, ProjectedPoints: 100},
		{ID: "b", Name: "Consensus Two", Position: domain.PositionRB, Rank: 2, ProjectedPoints: 90},
		{ID: "c", Name: "Consensus Three", Position: domain.PositionRB, Rank: 3, ProjectedPoints: 80},
		{ID: "d", Name: "Undervalued", Position: domain.PositionRB, Rank: 4, ProjectedPoints: 120},
	}

	picks := valuePicks(pool, constants.DefaultValueTierGap)
	require.Len(t, picks, 1)
	require.Equal(t, "d", picks[0].Player.ID)
	require.Equal(t, float64(0), picks[0].RankPercentile)
	require.Equal(t, float64(75), picks[0].PointsPercentile)
	require.Equal(t, float64(75), picks[0].PercentileGap)
}

func TestValuePicksExcludesDrafted(t *testing.T) {
	pool := []domain.Player{
		{ID: "a", Name: "One", Position: domain.PositionTE, Rank: 1, ProjectedPoints: 100},
		{ID: "b", Name: "Two", Position: domain.PositionTE, Rank: 2, ProjectedPoints: 95},
		{ID: "c", Name: "Taken Value", Position: domain.PositionTE, Rank: 10, ProjectedPoints: 150, Drafted: true, DraftedBy: "rival"},
	}

	picks := valuePicks(pool, constants.DefaultValueTierGap)
	for _, pick := range picks {
		require.NotEqual(t, "c", pick.Player.ID)
	}
}

func TestValuePicksEmptyPool(t *testing.T) {
	require.Empty(t, valuePicks(nil, constants.DefaultValueTierGap))
}

func TestHandcuffsReturnsSameTeamBackupsByRank(t *testing.T) {
	pool := []domain.Player{
		{ID: "starter", Name: "Lead Back", Position: domain.PositionRB, Team: "BUF", Rank: 5, ProjectedPoints: 280, Drafted: true, DraftedBy: "me"},
		{ID: "cuff1", Name: "Young Back", Position: domain.PositionRB, Team: "BUF", Rank: 40, ProjectedPoints: 140, Age: intp(23), ExperienceYears: intp(1)},
		{ID: "cuff2", Name: "Third Back", Position: domain.PositionRB, Team: "BUF", Rank: 70, ProjectedPoints: 90},
		{ID: "other", Name: "Other Team Back", Position: domain.PositionRB, Team: "MIA", Rank: 20, ProjectedPoints: 200},
		{ID: "wr", Name: "Buffalo Receiver", Position: domain.PositionWR, Team: "BUF", Rank: 10, ProjectedPoints: 250},
	}

	cuffs := handcuffs(pool, "starter")
	require.Equal(t, []string{"cuff1", "cuff2"}, ids(cuffs))
}

func TestHandcuffsEmptyCases(t *testing.T) {
	pool := []domain.Player{
		{ID: "undrafted", Name: "Available Back", Position: domain.PositionRB, Team: "BUF", Rank: 5},
		{ID: "qb", Name: "Some Quarterback", Position: domain.PositionQB, Team: "BUF", Rank: 1, Drafted: true, DraftedBy: "me"},
		{ID: "fa", Name: "Street Back", Position: domain.PositionRB, Team: "FA", Rank: 90, Drafted: true, DraftedBy: "me"},
	}

	require.Empty(t, handcuffs(pool, "missing"))
	require.Empty(t, handcuffs(pool, "undrafted"))
	require.Empty(t, handcuffs(pool, "qb"))
	require.Empty(t, handcuffs(pool, "fa"))
	require.Empty(t, handcuffs(nil, "starter"))
}

func TestTrendingPicksJoinsPoolAndSkipsDrafted(t *testing.T) {
	pool := []domain.Player{
		{ID: "1", Name: "Hot Pickup", Position: domain.PositionWR, Rank: 80},
		{ID: "2", Name: "Already Gone", Position: domain.PositionRB, Rank: 30, Drafted: true, DraftedBy: "rival"},
	}
	adds := []api.TrendingPlayer{
		{PlayerID: "1", Count: 4200},
		{PlayerID: "2", Count: 3100},
		{PlayerID: "unknown", Count: 900},
	}

	picks := trendingPicks(pool, adds)
	require.Len(t, picks, 1)
	require.Equal(t, "1", picks[0].Player.ID)
	require.Equal(t, 4200, picks[0].Adds)
}
