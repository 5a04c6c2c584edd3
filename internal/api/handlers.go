package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"playcall/domain/route"
	"playcall/internal/errors"
	"playcall/internal/executor"
	"playcall/internal/intent"
	"playcall/internal/router"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// QueryRequest is the conversational request body.
type QueryRequest struct {
	Query        string `json:"query"`
	SessionID    string `json:"session_id,omitempty"`
	FavoriteTeam string `json:"favorite_team,omitempty"`
	Season       int    `json:"season,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("request body must be valid JSON"))
		return
	}
	if req.Query == "" {
		respondError(w, errors.InvalidInput("query is required"))
		return
	}

	sessionID, userCtx := s.sessions.GetOrCreate(req.SessionID)
	if req.FavoriteTeam != "" {
		userCtx.FavoriteTeam = intent.NormalizeTeam(req.FavoriteTeam)
	}
	if req.Season != 0 {
		userCtx.Season = req.Season
	}

	rt := s.router.Route(req.Query, userCtx.RouterContext())
	s.logger.Debug("Routed query: %s", router.Describe(rt))
	resp := s.executor.Execute(r.Context(), rt)

	userCtx.History.AddTurn(req.Query, rt.Pipeline, rt.Params)

	resp["session_id"] = sessionID
	resp["route"] = map[string]interface{}{
		"pipeline":   string(rt.Pipeline),
		"confidence": rt.Confidence,
		"tier":       rt.Tier,
		"reasoning":  rt.Reasoning,
	}
	if len(rt.Suggestions) > 0 {
		resp["suggestions"] = rt.Suggestions
	}

	respondEnvelope(w, resp)
}

// SituationRequest asks for a run-vs-pass read on one situation.
type SituationRequest struct {
	Down           int    `json:"down"`
	Distance       int    `json:"distance"`
	Yardline       int    `json:"yardline,omitempty"`
	Quarter        int    `json:"quarter,omitempty"`
	ScoreDiff      int    `json:"score_diff,omitempty"`
	Team           string `json:"team,omitempty"`
	Season         int    `json:"season,omitempty"`
	DefendersInBox *int   `json:"defenders_in_box,omitempty"`
}

func (s *Server) handleSituation(w http.ResponseWriter, r *http.Request) {
	var req SituationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("request body must be valid JSON"))
		return
	}

	params := map[string]interface{}{
		"down":     req.Down,
		"distance": req.Distance,
	}
	setIfNonZero(params, "yardline", req.Yardline)
	setIfNonZero(params, "quarter", req.Quarter)
	setIfNonZero(params, "score_diff", req.ScoreDiff)
	setIfNonZero(params, "season", req.Season)
	if req.Team != "" {
		params["team"] = intent.NormalizeTeam(req.Team)
	}
	if req.DefendersInBox != nil {
		params["defenders_in_box"] = *req.DefendersInBox
	}

	respondEnvelope(w, s.executor.Execute(r.Context(), structuredRoute(route.SituationEPA, params)))
}

// DecisionRequest asks for a 4th-down go/kick/punt evaluation.
type DecisionRequest struct {
	Down        int `json:"down,omitempty"`
	Distance    int `json:"distance"`
	Yardline    int `json:"yardline,omitempty"`
	Simulations int `json:"simulations,omitempty"`
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("request body must be valid JSON"))
		return
	}

	params := map[string]interface{}{
		"distance": req.Distance,
	}
	setIfNonZero(params, "down", req.Down)
	setIfNonZero(params, "yardline", req.Yardline)
	setIfNonZero(params, "simulations", req.Simulations)

	respondEnvelope(w, s.executor.Execute(r.Context(), structuredRoute(route.DecisionAnalysis, params)))
}

func (s *Server) handleTeamProfile(w http.ResponseWriter, r *http.Request) {
	team := intent.NormalizeTeam(chi.URLParam(r, "team"))
	if team == "" {
		respondError(w, errors.InvalidInput("unrecognized team"))
		return
	}

	params := map[string]interface{}{"team": team}
	if seasonStr := r.URL.Query().Get("season"); seasonStr != "" {
		season, err := strconv.Atoi(seasonStr)
		if err != nil {
			respondError(w, errors.InvalidInput("season must be an integer"))
			return
		}
		params["season"] = season
	}

	respondEnvelope(w, s.executor.Execute(r.Context(), structuredRoute(route.TeamProfile, params)))
}

func (s *Server) handleEPTable(w http.ResponseWriter, r *http.Request) {
	sims := 0
	if simsStr := r.URL.Query().Get("sims"); simsStr != "" {
		parsed, err := strconv.Atoi(simsStr)
		if err != nil {
			respondError(w, errors.InvalidInput("sims must be an integer"))
			return
		}
		sims = parsed
	}

	table, err := s.executor.EPTable(r.Context(), sims)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    table,
	})
}

// structuredRoute builds the tier-1 route a structured endpoint implies.
func structuredRoute(pipeline route.PipelineType, params map[string]interface{}) route.Route {
	return route.Route{
		Pipeline:   pipeline,
		Confidence: 1.0,
		Tier:       route.TierPattern,
		Params:     params,
		Reasoning:  "structured endpoint",
	}
}

func setIfNonZero(params map[string]interface{}, name string, v int) {
	if v != 0 {
		params[name] = v
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondEnvelope maps the pipeline envelope's error code to an HTTP status.
func respondEnvelope(w http.ResponseWriter, resp executor.Response) {
	status := http.StatusOK
	if success, ok := resp["success"].(bool); ok && !success {
		code, _ := resp["code"].(string)
		status = statusForCode(code)
	}
	respondJSON(w, status, resp)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForCode(errors.GetCode(err)), map[string]interface{}{
		"success": false,
		"error":   err.Error(),
		"code":    errors.GetCode(err),
	})
}

func statusForCode(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeArtifactNotLoaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
