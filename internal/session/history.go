// Package session tracks per-user conversation context so follow-up
// questions can lean on earlier turns ("what about on 3rd down?"). The core
// only reads this context; mutation happens here, after a pipeline runs.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"playcall/domain/route"
)

// Turn is a single query/pipeline exchange.
type Turn struct {
	Query     string                 `json:"query"`
	Pipeline  route.PipelineType     `json:"pipeline"`
	Params    map[string]interface{} `json:"params"`
	Timestamp time.Time              `json:"timestamp"`
}

// maxTurns bounds the retained history.
const maxTurns = 5

// History tracks the entities mentioned in recent turns.
type History struct {
	LastTeam     string
	LastTeam2    string
	LastPlayer   string
	LastPosition string
	LastDown     int
	LastDistance int
	LastYardline int
	LastPipeline route.PipelineType
	Turns        []Turn
}

// AddTurn records an exchange and updates the last-mentioned entities.
func (h *History) AddTurn(query string, pipeline route.PipelineType, params map[string]interface{}) {
	h.Turns = append(h.Turns, Turn{
		Query:     query,
		Pipeline:  pipeline,
		Params:    params,
		Timestamp: time.Now(),
	})
	if len(h.Turns) > maxTurns {
		h.Turns = h.Turns[len(h.Turns)-maxTurns:]
	}

	h.LastPipeline = pipeline

	if team, ok := params["team"].(string); ok && team != "" {
		h.LastTeam = team
	}
	if team1, ok := params["team1"].(string); ok && team1 != "" {
		h.LastTeam = team1
	}
	if team2, ok := params["team2"].(string); ok && team2 != "" {
		h.LastTeam2 = team2
	}
	if player, ok := params["player"].(string); ok && player != "" {
		h.LastPlayer = player
	}
	if pos, ok := params["position"].(string); ok && pos != "" {
		h.LastPosition = pos
	}
	if down, ok := intParam(params, "down"); ok {
		h.LastDown = down
	}
	if dist, ok := intParam(params, "distance"); ok {
		h.LastDistance = dist
	}
	if yl, ok := intParam(params, "yardline"); ok {
		h.LastYardline = yl
	}
}

// UserContext is a user's stored preferences plus conversation history.
type UserContext struct {
	FavoriteTeam string
	Season       int
	History      History
}

// RouterContext flattens the context into the mapping the router consumes.
func (c *UserContext) RouterContext() map[string]interface{} {
	ctx := map[string]interface{}{}
	if c.FavoriteTeam != "" {
		ctx["favorite_team"] = c.FavoriteTeam
	}
	if c.Season != 0 {
		ctx["season"] = c.Season
	}
	h := c.History
	if h.LastTeam != "" {
		ctx["last_team"] = h.LastTeam
	}
	if h.LastTeam2 != "" {
		ctx["last_team2"] = h.LastTeam2
	}
	if h.LastPlayer != "" {
		ctx["last_player"] = h.LastPlayer
	}
	if h.LastPosition != "" {
		ctx["last_position"] = h.LastPosition
	}
	if h.LastDown != 0 {
		ctx["last_down"] = h.LastDown
	}
	if h.LastDistance != 0 {
		ctx["last_distance"] = h.LastDistance
	}
	if h.LastYardline != 0 {
		ctx["last_yardline"] = h.LastYardline
	}
	if h.LastPipeline != "" {
		ctx["last_pipeline"] = string(h.LastPipeline)
	}
	return ctx
}

// Store holds user contexts in memory, keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	contexts map[string]*UserContext
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{contexts: map[string]*UserContext{}}
}

// GetOrCreate returns the context for a session ID, creating it (and the ID
// itself, when blank) as needed.
func (s *Store) GetOrCreate(sessionID string) (string, *UserContext) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[sessionID]
	if !ok {
		ctx = &UserContext{}
		s.contexts[sessionID] = ctx
	}
	return sessionID, ctx
}

func intParam(params map[string]interface{}, name string) (int, bool) {
	switch v := params[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
