package domain

import (
	"time"
)

// Position is the closed set of fantasy-relevant positions. Anything else is
// rejected at the ingestion boundary.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// Positions lists every position in canonical priority order. Team-analysis
// and summary output iterates in this order so results are stable.
var Positions = []Position{
	PositionRB,
	PositionWR,
	PositionQB,
	PositionTE,
	PositionK,
	PositionDEF,
}

func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF:
		return true
	}
	return false
}

// Player is the canonical record held in the pool. ID is assigned at
// ingestion and immutable. Rank 0 means unranked; Age and ExperienceYears
// are nil when the source did not report them.
type Player struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Position        Position  `json:"position"`
	Team            string    `json:"team"`
	Rank            int       `json:"rank"`
	ProjectedPoints float64   `json:"projected_points"`
	Age             *int      `json:"age,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	Drafted         bool      `json:"drafted"`
	DraftedBy       string    `json:"drafted_by,omitempty"`
	DraftedAt       time.Time `json:"drafted_at,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Ranked reports whether the player carries a consensus rank.
func (p Player) Ranked() bool {
	return p.Rank > 0
}

// RawPlayer is the loose inbound shape submitted by collaborators (platform
// pulls, PDF extraction, manual entry). It is validated into a Player before
// anything downstream sees it.
type RawPlayer struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	Rank            int     `json:"rank,omitempty"`
	ProjectedPoints float64 `json:"projected_points,omitempty"`
	Age             *int    `json:"age,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty"`
	Drafted         bool    `json:"drafted,omitempty"`
	DraftedBy       string  `json:"drafted_by,omitempty"`
	Source          string  `json:"source"`
}

// ValuePick is a player whose projected-points percentile within their
// position beats their rank percentile by at least the configured tier gap.
type ValuePick struct {
	Player           Player  `json:"player"`
	RankPercentile   float64 `json:"rank_percentile"`
	PointsPercentile float64 `json:"points_percentile"`
	PercentileGap    float64 `json:"percentile_gap"`
}

// TeamReport is the team-analysis output for a single owner.
type TeamReport struct {
	Owner  string           `json:"owner"`
	Counts map[Position]int `json:"counts"`
	Roster []Player         `json:"roster"`
	Needs  []Position       `json:"needs"`
}

// PoolSummary is the pool-level breakdown exposed to the presentation layer.
type PoolSummary struct {
	Total               int              `json:"total"`
	Available           int              `json:"available"`
	Drafted             int              `json:"drafted"`
	ByPosition          map[Position]int `json:"by_position"`
	AvailableByPosition map[Position]int `json:"available_by_position"`
}
