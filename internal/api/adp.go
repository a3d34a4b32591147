package api

import (
	"context"
	"fmt"
	"time"

	"draft-assistant/internal/config"

	"github.com/valyala/fasthttp"
)

// ADPClient fetches consensus average-draft-position data from Fantasy
// Football Calculator. ADP order is the source of the pool's rank field.
type ADPClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewADPClient(cfg *config.Config) *ADPClient {
	return &ADPClient{
		baseURL: cfg.ADPBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type ADPResponse struct {
	Status  string     `json:"status"`
	Players []ADPEntry `json:"players"`
}

type ADPEntry struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Team     string  `json:"team"`
	ADP      float64 `json:"adp"`
	Bye      int     `json:"bye"`
}

// GetADP fetches ADP for the given scoring format ("ppr", "standard",
// "half-ppr") and league size.
func (c *ADPClient) GetADP(ctx context.Context, format string, teams int) ([]ADPEntry, error) {
	url := fmt.Sprintf("%s/%s?teams=%d", c.baseURL, format, teams)
	resp, err := doRequest[ADPResponse](ctx, c.client, url)
	if err != nil {
		return nil, err
	}
	return resp.Players, nil
}
