package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"draft-assistant/internal/config"

	"github.com/valyala/fasthttp"
)

// SleeperClient pulls the NFL player catalog from the Sleeper platform API.
// The catalog is keyless and large (every rostered player), so callers are
// expected to filter it down to fantasy-relevant records.
type SleeperClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewSleeperClient(cfg *config.Config) *SleeperClient {
	return &SleeperClient{
		baseURL: cfg.SleeperBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// SleeperPlayer is the subset of the catalog entry the assistant cares
// about. The catalog is keyed by Sleeper's player id.
type SleeperPlayer struct {
	PlayerID string `json:"player_id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Age      *int   `json:"age"`
	YearsExp *int   `json:"years_exp"`
	Status   string `json:"status"`
}

func (c *SleeperClient) GetPlayers(ctx context.Context) (map[string]SleeperPlayer, error) {
	url := fmt.Sprintf("%s/players/nfl", c.baseURL)
	return doRequest[map[string]SleeperPlayer](ctx, c.client, url)
}

// TrendingPlayer is one entry of the platform's most-added list.
type TrendingPlayer struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

// GetTrendingAdds returns the players most added across the platform in the
// last 24 hours, ordered by add count.
func (c *SleeperClient) GetTrendingAdds(ctx context.Context, limit int) ([]TrendingPlayer, error) {
	url := fmt.Sprintf("%s/players/nfl/trending/add?lookback_hours=24&limit=%d", c.baseURL, limit)
	return doRequest[[]TrendingPlayer](ctx, c.client, url)
}

func doRequest[T any](ctx context.Context, client *fasthttp.Client, url string) (T, error) {
	var result T

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return result, err
		}
	} else {
		if err := client.Do(req, resp); err != nil {
			return result, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return result, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return result, err
	}
	return result, nil
}
