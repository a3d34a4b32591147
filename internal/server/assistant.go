package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"draft-assistant/internal/domain"
	"draft-assistant/internal/service"

	"github.com/rs/zerolog"
)

// AssistantServer is the thin JSON surface over the core engines. It parses
// and validates request shapes; all pool semantics live in the services.
type AssistantServer struct {
	query     *service.QueryService
	pool      *service.PoolService
	recommend *service.RecommendService
	team      *service.TeamService
	logger    zerolog.Logger
}

func NewAssistantServer(query *service.QueryService, pool *service.PoolService, recommend *service.RecommendService, team *service.TeamService, logger zerolog.Logger) *AssistantServer {
	return &AssistantServer{
		query:     query,
		pool:      pool,
		recommend: recommend,
		team:      team,
		logger:    logger,
	}
}

func (s *AssistantServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", s.handleQuery)
	mux.HandleFunc("GET /api/players/top", s.handleTopByPosition)
	mux.HandleFunc("POST /api/players/ingest", s.handleIngest)
	mux.HandleFunc("POST /api/players/ingest/sleeper", s.handleSleeperPull)
	mux.HandleFunc("POST /api/players/ingest/espn", s.handleESPNPull)
	mux.HandleFunc("POST /api/players/{id}/draft", s.handleDraft)
	mux.HandleFunc("POST /api/players/{id}/undraft", s.handleUndraft)
	mux.HandleFunc("GET /api/recommendations/sleepers", s.handleSleepers)
	mux.HandleFunc("GET /api/recommendations/value", s.handleValuePicks)
	mux.HandleFunc("GET /api/recommendations/handcuffs/{id}", s.handleHandcuffs)
	mux.HandleFunc("GET /api/recommendations/trending", s.handleTrending)
	mux.HandleFunc("GET /api/teams/{owner}", s.handleTeamAnalysis)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/storage", s.handleStorageStatus)
	mux.HandleFunc("POST /api/storage/reconnect", s.handleReconnect)
	mux.HandleFunc("POST /api/storage/resync", s.handleResync)
}

func (s *AssistantServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.Filter{
		Team:         q.Get("team"),
		NameContains: q.Get("name"),
	}
	if raw := q.Get("position"); raw != "" {
		position := domain.Position(raw)
		if !position.Valid() {
			s.writeError(w, r, http.StatusBadRequest, errors.New("unknown position "+raw))
			return
		}
		filter.Position = position
	}
	if raw := q.Get("drafted"); raw != "" {
		drafted, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, errors.New("drafted must be true or false"))
			return
		}
		filter.Drafted = &drafted
	}

	key, err := service.ParseSortKey(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	order, err := service.ParseSortOrder(q.Get("order"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	players, err := s.query.Query(r.Context(), filter, key, order, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"players": players,
		"mode":    s.query.Mode(),
	})
}

func (s *AssistantServer) handleTopByPosition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	position := domain.Position(q.Get("position"))
	if !position.Valid() {
		s.writeError(w, r, http.StatusBadRequest, errors.New("position is required"))
		return
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	players, err := s.query.TopByPosition(r.Context(), position, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"players": players,
		"mode":    s.query.Mode(),
	})
}

type ingestRequest struct {
	Players []domain.RawPlayer `json:"players"`
}

func (s *AssistantServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("malformed ingest body"))
		return
	}
	if len(req.Players) == 0 {
		s.writeError(w, r, http.StatusBadRequest, errors.New("players is required"))
		return
	}

	report, err := s.pool.Ingest(r.Context(), req.Players)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *AssistantServer) handleSleeperPull(w http.ResponseWriter, r *http.Request) {
	report, err := s.pool.PullSleeper(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type espnPullRequest struct {
	LeagueID string `json:"league_id"`
	Season   int    `json:"season"`
}

func (s *AssistantServer) handleESPNPull(w http.ResponseWriter, r *http.Request) {
	var req espnPullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("malformed espn pull body"))
		return
	}

	report, err := s.pool.PullESPN(r.Context(), req.LeagueID, req.Season)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type draftRequest struct {
	Owner string `json:"owner"`
}

func (s *AssistantServer) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("malformed draft body"))
		return
	}

	if err := s.pool.Draft(r.Context(), r.PathValue("id"), req.Owner); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "drafted"})
}

func (s *AssistantServer) handleUndraft(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Undraft(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "undrafted"})
}

func (s *AssistantServer) handleSleepers(w http.ResponseWriter, r *http.Request) {
	players, err := s.recommend.Sleepers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (s *AssistantServer) handleValuePicks(w http.ResponseWriter, r *http.Request) {
	picks, err := s.recommend.ValuePicks(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"picks": picks})
}

func (s *AssistantServer) handleHandcuffs(w http.ResponseWriter, r *http.Request) {
	players, err := s.recommend.Handcuffs(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (s *AssistantServer) handleTrending(w http.ResponseWriter, r *http.Request) {
	picks, err := s.recommend.Trending(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"picks": picks})
}

func (s *AssistantServer) handleTeamAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.team.Analyze(r.Context(), r.PathValue("owner"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *AssistantServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.query.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"mode":    s.query.Mode(),
	})
}

func (s *AssistantServer) handleStorageStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"mode": s.pool.Mode()})
}

func (s *AssistantServer) handleReconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Reconnect(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"mode": s.pool.Mode()})
}

func (s *AssistantServer) handleResync(w http.ResponseWriter, r *http.Request) {
	count, err := s.pool.Resync(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"mode":    s.pool.Mode(),
		"players": count,
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return limit, nil
}

func (s *AssistantServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		s.writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrStoreExhausted), errors.Is(err, domain.ErrStorageUnavailable):
		s.writeError(w, r, http.StatusServiceUnavailable, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func (s *AssistantServer) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn().
		Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *AssistantServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
