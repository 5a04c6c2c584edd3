package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"playcall/domain/profile"
	"playcall/internal/config"
	"playcall/internal/engine/epa"
	playerengine "playcall/internal/engine/player"
	"playcall/internal/engine/teamprofile"
	"playcall/internal/executor"
	"playcall/internal/router"
	"playcall/ports"
)

type stubStore struct{}

func (stubStore) PlayOutcomes(ctx context.Context, seasons []int) ([]ports.OutcomeCell, error) {
	return []ports.OutcomeCell{{
		Down: 4, DistanceBucket: "short", FieldZone: "opp_territory",
		Yards: []int{0, 2, 4}, TurnoverRate: 0.03, SampleSize: 100,
	}}, nil
}

func (stubStore) FGRates(ctx context.Context, seasons []int) (map[int]float64, error) {
	return map[int]float64{40: 0.85}, nil
}

func (stubStore) CountingLeaders(ctx context.Context, sel ports.CountingStat) ([]ports.PlayerSeasonRow, error) {
	return nil, nil
}

func (stubStore) PlayerNames(ctx context.Context, playerIDs []string) (map[string]ports.PlayerInfo, error) {
	return map[string]ports.PlayerInfo{}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	epaModel := &epa.Model{Intercept: 0.01, Coefficients: map[string]float64{"shotgun": 0.05}}
	if err := epaModel.Save(filepath.Join(dir, "epa_model.json")); err != nil {
		t.Fatal(err)
	}

	profiler := teamprofile.NewProfiler()
	profiler.Put(&profile.TeamProfile{
		Team: "KC", Season: 2025,
		Overall:     profile.OverallStats{PassRate: 0.6, EPAPerPlay: 0.08},
		Situational: map[string]profile.SituationalStat{},
	})
	if err := profiler.Save(filepath.Join(dir, "team_profiles.json")); err != nil {
		t.Fatal(err)
	}
	if err := playerengine.NewModel(2025).Save(filepath.Join(dir, "player_estimates.json")); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Server:     config.ServerConfig{Port: "0"},
		Models:     config.ModelConfig{Dir: dir, DefaultSeason: 2025},
		Simulation: config.SimulationConfig{Workers: 1, DefaultTrials: 200, MaxTrials: 1000},
	}
	store := stubStore{}
	registry := executor.NewRegistry(cfg, store, nil)
	exec := executor.New(cfg, registry, store, nil)
	return NewServer(cfg, router.New(), exec, nil)
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// TestHealth verifies the liveness endpoint.
func TestHealth(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestQueryEndpoint verifies the conversational flow: envelope, route info,
// and a minted session ID.
func TestQueryEndpoint(t *testing.T) {
	s := testServer(t)

	rec := postJSON(t, s, "/api/query", QueryRequest{Query: "team profile for KC"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("success = %v, error = %v", resp["success"], resp["error"])
	}
	if resp["session_id"] == "" || resp["session_id"] == nil {
		t.Error("expected a session_id in the response")
	}
	routeInfo, _ := resp["route"].(map[string]interface{})
	if routeInfo["pipeline"] != "team_profile" {
		t.Errorf("route.pipeline = %v, want team_profile", routeInfo["pipeline"])
	}
}

// TestQueryRequiresBody verifies malformed and empty requests are 400s.
func TestQueryRequiresBody(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, s, "/api/query", QueryRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want 400", rec.Code)
	}
}

// TestSessionCarriesContext verifies a follow-up question in the same
// session inherits the earlier team.
func TestSessionCarriesContext(t *testing.T) {
	s := testServer(t)

	rec := postJSON(t, s, "/api/query", QueryRequest{Query: "team profile for KC"})
	var first map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	sessionID, _ := first["session_id"].(string)
	if sessionID == "" {
		t.Fatal("no session ID from first request")
	}

	rec = postJSON(t, s, "/api/query", QueryRequest{
		Query:     "what are their tendencies",
		SessionID: sessionID,
	})
	var second map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	routeInfo, _ := second["route"].(map[string]interface{})
	if routeInfo["pipeline"] != "team_tendencies" {
		t.Errorf("route.pipeline = %v, want team_tendencies", routeInfo["pipeline"])
	}
	if tier, _ := routeInfo["tier"].(float64); int(tier) != 3 {
		t.Errorf("tier = %v, want 3 (context fallback)", routeInfo["tier"])
	}
}

// TestTeamProfileEndpoint verifies the structured profile route and its 404
// mapping for unknown data.
func TestTeamProfileEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/teams/chiefs/profile", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/teams/DAL/profile", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unprofiled team", rec.Code)
	}
}

// TestDecisionEndpoint verifies the structured decision route end to end.
func TestDecisionEndpoint(t *testing.T) {
	s := testServer(t)

	rec := postJSON(t, s, "/api/decision", DecisionRequest{Distance: 2, Yardline: 35})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != true {
		t.Errorf("success = %v, error = %v", resp["success"], resp["error"])
	}
}
