package route

// PipelineType identifies which analysis pipeline should handle a query.
// The set is closed: the executor switches exhaustively over these values.
type PipelineType string

const (
	TeamProfile      PipelineType = "team_profile"
	TeamComparison   PipelineType = "team_comparison"
	TeamTendencies   PipelineType = "team_tendencies"
	SituationEPA     PipelineType = "situation_epa"
	DecisionAnalysis PipelineType = "decision_analysis"
	PlayerRankings   PipelineType = "player_rankings"
	PlayerComparison PipelineType = "player_comparison"
	DriveSimulation  PipelineType = "drive_simulation"
	GeneralQuery     PipelineType = "general_query"
	Unknown          PipelineType = "unknown"
)

// Valid reports whether p is one of the closed set of pipeline types.
func (p PipelineType) Valid() bool {
	switch p {
	case TeamProfile, TeamComparison, TeamTendencies, SituationEPA,
		DecisionAnalysis, PlayerRankings, PlayerComparison,
		DriveSimulation, GeneralQuery, Unknown:
		return true
	}
	return false
}

// Routing tiers. Tier 1 is a deterministic pattern match, tier 2 is keyword
// scoring, tier 3 means session context was needed to fill in entities.
const (
	TierPattern = 1
	TierKeyword = 2
	TierContext = 3
)

// Route is the router's output: a pipeline selection with extracted
// parameters and a confidence score. A Route is immutable once produced;
// it is created per query and consumed once by the executor.
type Route struct {
	Pipeline    PipelineType
	Confidence  float64
	Tier        int
	Params      map[string]interface{}
	Reasoning   string
	Suggestions []string
}

// StringParam returns a string parameter, or "" if absent or not a string.
func (r Route) StringParam(name string) string {
	if v, ok := r.Params[name].(string); ok {
		return v
	}
	return ""
}

// IntParam returns an int parameter and whether it was present. Accepts
// float64 as well since params round-trip through JSON.
func (r Route) IntParam(name string) (int, bool) {
	switch v := r.Params[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
