// Package intent implements the tier-2 heuristic query classifier: curated
// keyword tables scored against the query text, plus regex entity
// extraction. No learned components anywhere; the thresholds are calibrated
// and should not be tuned casually.
package intent

import (
	"sort"
	"strings"

	"playcall/domain/route"
)

// Intent is a classified query with confidence and extracted entities.
type Intent struct {
	Pipeline   route.PipelineType
	Confidence float64
	Entities   map[string]interface{}
	RawQuery   string
}

// Keyword tables per pipeline. A query scores 0.5 + 0.15 per match (capped
// 0.9), then +0.1 per strong-signal phrase (capped 0.95).
var intentKeywords = map[route.PipelineType][]string{
	route.TeamProfile: {
		"tell me about", "profile", "team profile", "overview", "summary",
		"what can you tell me", "describe", "who are",
	},
	route.TeamTendencies: {
		"stats", "statistics", "tendencies", "numbers", "metrics",
		"efficiency", "success rate", "pass rate", "shotgun", "play calling",
	},
	route.TeamComparison: {
		"compare", "versus", " vs ", " vs.", "against",
		"better than", "worse than", "difference between",
		"head to head", "matchup",
	},
	route.SituationEPA: {
		"on 3rd", "on 4th", "on first", "on second",
		"third down", "fourth down", "red zone", "goal line",
		"when losing", "when winning", "when tied",
		"late in", "two minute", "2 minute", "end of half",
		"run or pass", "pass or run",
	},
	route.DecisionAnalysis: {
		"should i", "should we", "should they",
		"go for it", "kick field goal", "field goal or", "punt",
		"what play", "what should", "recommend",
	},
	route.PlayerRankings: {
		"top rushers", "top passers", "top receivers",
		"best rushers", "best passers", "best receivers",
		"leading rushers", "leading passers", "who leads",
		"rushing leaders", "passing leaders", "receiving leaders",
		"top players", "best players",
	},
	route.PlayerComparison: {
		"compare players", "better running back", "better quarterback",
		"better receiver", "which player",
	},
	route.DriveSimulation: {
		"simulate", "simulation", "drive from", "expected points",
		"starting from",
	},
}

var strongSignals = map[route.PipelineType][]string{
	route.TeamProfile:      {"tell me about", "profile", "overview"},
	route.TeamComparison:   {"compare", " vs ", "versus"},
	route.SituationEPA:     {"on 3rd", "on 4th", "red zone", "third down", "run or pass"},
	route.DecisionAnalysis: {"should", "run or pass", "go for it"},
	route.PlayerRankings:   {"top", "leading", "best"},
	route.DriveSimulation:  {"simulate"},
}

// Below this best-score threshold a query is unclassifiable.
const minIntentScore = 0.3

// Confidence assigned to unclassifiable queries. Not an error: the caller
// gets a low-confidence route with suggestions.
const unknownConfidence = 0.2

// Classifier scores queries against the keyword tables. It is stateless and
// safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a keyword intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Score rates how well a query matches one pipeline's keyword set.
func (c *Classifier) Score(query string, pipeline route.PipelineType) float64 {
	lower := strings.ToLower(query)

	matches := 0
	for _, keyword := range intentKeywords[pipeline] {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	if matches == 0 {
		return 0.0
	}

	score := 0.5 + 0.15*float64(matches)
	if score > 0.9 {
		score = 0.9
	}

	for _, signal := range strongSignals[pipeline] {
		if strings.Contains(lower, signal) {
			score += 0.1
			if score > 0.95 {
				score = 0.95
			}
		}
	}

	return score
}

// Classify scores a query against every pipeline and returns the best match
// with extracted entities. Queries scoring below the threshold come back as
// Unknown with a fixed low confidence.
func (c *Classifier) Classify(query string) Intent {
	top := c.AllScores(query)[0]
	entities := ExtractEntities(query)

	if top.Score < minIntentScore {
		return Intent{
			Pipeline:   route.Unknown,
			Confidence: unknownConfidence,
			Entities:   entities,
			RawQuery:   query,
		}
	}

	return Intent{
		Pipeline:   top.Pipeline,
		Confidence: top.Score,
		Entities:   entities,
		RawQuery:   query,
	}
}

// AllScores returns every pipeline's score, highest first. The sort is
// stable over the fixed candidate order, so ties resolve the same way on
// every call.
func (c *Classifier) AllScores(query string) []ScoredPipeline {
	scored := make([]ScoredPipeline, 0, len(intentKeywords))
	for _, pipeline := range c.pipelines() {
		scored = append(scored, ScoredPipeline{Pipeline: pipeline, Score: c.Score(query, pipeline)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// ScoredPipeline pairs a pipeline with its keyword score.
type ScoredPipeline struct {
	Pipeline route.PipelineType
	Score    float64
}

// pipelines returns candidates in a fixed order so ties resolve
// deterministically across calls.
func (c *Classifier) pipelines() []route.PipelineType {
	return []route.PipelineType{
		route.TeamProfile,
		route.TeamTendencies,
		route.TeamComparison,
		route.SituationEPA,
		route.DecisionAnalysis,
		route.PlayerRankings,
		route.PlayerComparison,
		route.DriveSimulation,
	}
}
