package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"draft-assistant/internal/config"

	"github.com/valyala/fasthttp"
)

// ESPNClient pulls league rosters from the ESPN fantasy API. Rostered
// players come with real season projections, so an ESPN pull upgrades the
// pool's estimated numbers. Private leagues need the ESPN_S2 and SWID
// cookies; public leagues work without them.
type ESPNClient struct {
	baseURL string
	s2      string
	swid    string
	client  *fasthttp.Client
}

func NewESPNClient(cfg *config.Config) *ESPNClient {
	return &ESPNClient{
		baseURL: cfg.ESPNBaseURL,
		s2:      cfg.ESPNS2,
		swid:    cfg.ESPNSWID,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type ESPNLeague struct {
	Teams []ESPNTeam `json:"teams"`
}

type ESPNTeam struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Nickname string `json:"nickname"`
	Abbrev   string `json:"abbrev"`
	Roster   struct {
		Entries []ESPNRosterEntry `json:"entries"`
	} `json:"roster"`
}

// DisplayName handles both team-name shapes the API has used over the
// years.
func (t ESPNTeam) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Location != "" || t.Nickname != "" {
		switch {
		case t.Location == "":
			return t.Nickname
		case t.Nickname == "":
			return t.Location
		}
		return t.Location + " " + t.Nickname
	}
	if t.Abbrev != "" {
		return t.Abbrev
	}
	return fmt.Sprintf("Team %d", t.ID)
}

type ESPNRosterEntry struct {
	PlayerPoolEntry struct {
		Player ESPNPlayer `json:"player"`
	} `json:"playerPoolEntry"`
}

type ESPNPlayer struct {
	ID                int        `json:"id"`
	FullName          string     `json:"fullName"`
	DefaultPositionID int        `json:"defaultPositionId"`
	ProTeamID         int        `json:"proTeamId"`
	Stats             []ESPNStat `json:"stats"`
}

type ESPNStat struct {
	StatSourceID    int     `json:"statSourceId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

// ProjectedTotal returns the player's full-season projection: the stat line
// with source 1 (projection) and split 0 (season total). Zero when the view
// carried no projection.
func (p ESPNPlayer) ProjectedTotal() float64 {
	for _, s := range p.Stats {
		if s.StatSourceID == 1 && s.StatSplitTypeID == 0 {
			return s.AppliedTotal
		}
	}
	return 0
}

var espnPositions = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "DEF",
}

var espnProTeams = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL",
	7: "DEN", 8: "DET", 9: "GB", 10: "TEN", 11: "IND", 12: "KC",
	13: "LV", 14: "LAR", 15: "MIA", 16: "MIN", 17: "NE", 18: "NO",
	19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
	25: "SF", 26: "SEA", 27: "TB", 28: "WAS", 29: "CAR", 30: "JAX",
	33: "BAL", 34: "HOU",
}

// ESPNPosition maps ESPN's numeric position id to the position code, empty
// for non-fantasy positions.
func ESPNPosition(id int) string {
	return espnPositions[id]
}

// ESPNProTeam maps ESPN's numeric franchise id to the standard abbreviation,
// empty for free agents.
func ESPNProTeam(id int) string {
	return espnProTeams[id]
}

// GetLeague fetches a league with team rosters and player projections.
func (c *ESPNClient) GetLeague(ctx context.Context, leagueID string, season int) (*ESPNLeague, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?view=mTeam&view=mRoster",
		c.baseURL, season, leagueID)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.s2 != "" && c.swid != "" {
		req.Header.SetCookie("espn_s2", c.s2)
		req.Header.SetCookie("SWID", c.swid)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var league ESPNLeague
	if err := json.Unmarshal(resp.Body(), &league); err != nil {
		return nil, err
	}
	return &league, nil
}
