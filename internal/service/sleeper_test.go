package service

import (
	"testing"

	"draft-assistant/internal/api"
	"draft-assistant/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestMapSleeperRecordsFiltersAndRanks(t *testing.T) {
	catalog := map[string]api.SleeperPlayer{
		"1":  {PlayerID: "1", FullName: "Josh Allen", Position: "QB", Team: "BUF", Age: intp(28), YearsExp: intp(6)},
		"2":  {PlayerID: "2", FullName: "Bijan Robinson", Position: "RB", Team: "ATL", Age: intp(23), YearsExp: intp(2)},
		"3":  {PlayerID: "3", FullName: "Retired Guy", Position: "WR", Team: "FA", Status: "Retired"},
		"4":  {PlayerID: "4", FullName: "", Position: "WR"},
		"5":  {PlayerID: "5", FullName: "Lineman Larry", Position: "OT", Team: "DAL"},
		"6":  {PlayerID: "6", FullName: "Undrafted Rookie", Position: "WR", Team: "SEA", Age: intp(22), YearsExp: intp(0)},
		"7":  {PlayerID: "7", FullName: "Buffalo Defense", Position: "DEF", Team: "BUF"},
	}
	adp := []api.ADPEntry{
		{Name: "Bijan Robinson", Position: "RB", Team: "ATL", ADP: 2.1},
		{Name: "Josh Allen", Position: "QB", Team: "BUF", ADP: 14.7},
	}

	records := mapSleeperRecords(catalog, adp)
	require.Len(t, records, 4)

	byName := make(map[string]domain.RawPlayer, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}
	require.NotContains(t, byName, "Retired Guy")
	require.NotContains(t, byName, "Lineman Larry")

	// ADP-matched players carry the board's overall rank
	require.Equal(t, 1, byName["Bijan Robinson"].Rank)
	require.Equal(t, 2, byName["Josh Allen"].Rank)

	// everyone else ranks after the board, no collisions
	require.Greater(t, byName["Undrafted Rookie"].Rank, 2)
	require.Greater(t, byName["Buffalo Defense"].Rank, 2)
	require.NotEqual(t, byName["Undrafted Rookie"].Rank, byName["Buffalo Defense"].Rank)

	for _, r := range records {
		require.Equal(t, "sleeper", r.Source)
		require.Positive(t, r.ProjectedPoints)
	}
}

func TestAdpRankIndexOrdersByAveragePick(t *testing.T) {
	index := adpRankIndex([]api.ADPEntry{
		{Name: "Third Pick", Position: "WR", ADP: 9.9},
		{Name: "First Pick", Position: "RB", ADP: 1.2},
		{Name: "DJ Moore", Position: "WR", ADP: 5.5},
	})

	require.Equal(t, 1, index[mergeKey{name: "first pick", position: domain.PositionRB}])
	require.Equal(t, 3, index[mergeKey{name: "third pick", position: domain.PositionWR}])

	// board names are cleaned the same way catalog names are
	require.Equal(t, 2, index[mergeKey{name: "d.j. moore", position: domain.PositionWR}])
}

func TestEstimateProjectionCurves(t *testing.T) {
	// prime-age, mid-experience QB gets the full modifier
	prime := estimateProjection(domain.PositionQB, intp(26), intp(5))
	require.InDelta(t, 220*1.1, prime, 0.001)

	// rookies are discounted on both curves
	rookie := estimateProjection(domain.PositionWR, intp(22), intp(0))
	require.InDelta(t, 160*0.8*0.8, rookie, 0.001)

	// decline is capped
	ancient := estimateProjection(domain.PositionRB, intp(40), intp(5))
	require.InDelta(t, 180*1.1*0.7, ancient, 0.001)

	// unknown age and experience fall back to the conservative baseline
	unknown := estimateProjection(domain.PositionTE, nil, nil)
	require.InDelta(t, 120*0.9, unknown, 0.001)
}
