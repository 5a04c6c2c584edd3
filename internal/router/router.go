// Package router maps raw queries plus session context to typed pipeline
// routes. Three tiers: deterministic patterns (tier 1), keyword scoring
// (tier 2), and context fallback (tier 3). Router ambiguity is never an
// error; a low-confidence route carries retry suggestions instead.
package router

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"playcall/domain/route"
	"playcall/internal/intent"
)

var (
	vsRe           = regexp.MustCompile(`(?i)\b(?:vs\.?|versus)\b|\bcompare\b`)
	downDistanceRe = regexp.MustCompile(`(?i)\b([1-4])(?:st|nd|rd|th)\s*(?:and|&)\s*(\d{1,2})\b`)
	myTeamRe       = regexp.MustCompile(`(?i)\bmy team\b`)
)

// Confidence below which a route gets alternative-phrasing suggestions.
const suggestionThreshold = 0.5

// Router is pure and stateless; a single instance serves unlimited
// concurrent queries.
type Router struct {
	classifier *intent.Classifier
}

// New creates a router.
func New() *Router {
	return &Router{classifier: intent.NewClassifier()}
}

// Route classifies a query into a pipeline with extracted parameters. The
// context mapping supplies session entities (favorite_team, season, last_*)
// that fill gaps the query itself leaves.
func (r *Router) Route(query string, ctx map[string]interface{}) route.Route {
	if rt, ok := r.tier1(query); ok {
		return r.withSuggestions(rt)
	}
	return r.withSuggestions(r.tier2(query, ctx))
}

// tier1 recognizes unambiguous query shapes with fixed confidence 1.0.
// These bypass keyword scoring entirely, which also makes them the direct
// structured-access path for API callers.
func (r *Router) tier1(query string) (route.Route, bool) {
	teams := intent.FindTeams(query)

	// Two team tokens joined by vs/compare
	if len(teams) >= 2 && vsRe.MatchString(query) {
		return route.Route{
			Pipeline:   route.TeamComparison,
			Confidence: 1.0,
			Tier:       route.TierPattern,
			Params: map[string]interface{}{
				"team1": teams[0],
				"team2": teams[1],
			},
			Reasoning: "matched team-vs-team pattern",
		}, true
	}

	dd := downDistanceRe.FindStringSubmatch(query)
	if dd == nil {
		return route.Route{}, false
	}
	down, _ := strconv.Atoi(dd[1])
	distance, _ := strconv.Atoi(dd[2])

	// Team plus explicit down-and-distance
	if len(teams) == 1 {
		params := map[string]interface{}{
			"team":     teams[0],
			"down":     down,
			"distance": distance,
		}
		mergeEntityParams(params, intent.ExtractEntities(query), "yardline", "season", "defenders_in_box")
		return route.Route{
			Pipeline:   route.SituationEPA,
			Confidence: 1.0,
			Tier:       route.TierPattern,
			Params:     params,
			Reasoning:  "matched team with down-and-distance pattern",
		}, true
	}

	// Bare "4th and N" is a go/kick/punt decision
	if down == 4 && len(teams) == 0 {
		params := map[string]interface{}{
			"down":     4,
			"distance": distance,
		}
		mergeEntityParams(params, intent.ExtractEntities(query), "yardline")
		return route.Route{
			Pipeline:   route.DecisionAnalysis,
			Confidence: 1.0,
			Tier:       route.TierPattern,
			Params:     params,
			Reasoning:  "matched 4th-and-N pattern",
		}, true
	}

	return route.Route{}, false
}

// tier2 scores keyword tables, then falls back to session context (tier 3)
// for entities the query itself didn't supply.
func (r *Router) tier2(query string, ctx map[string]interface{}) route.Route {
	classified := r.classifier.Classify(query)
	params := classified.Entities
	tier := route.TierKeyword

	if mergeContext(query, params, ctx) {
		tier = route.TierContext
	}

	pipeline := classified.Pipeline
	reasoning := fmt.Sprintf("keyword score %.2f for %s", classified.Confidence, pipeline)

	if pipeline == route.Unknown {
		// A team mention with no classifiable intent still gives the
		// downstream LLM layer something to ground on.
		if _, ok := params["team"]; ok {
			pipeline = route.GeneralQuery
			reasoning = "unclassified intent with team mention"
		} else if _, ok := params["team1"]; ok {
			pipeline = route.GeneralQuery
			reasoning = "unclassified intent with team mentions"
		} else {
			reasoning = "no intent scored above threshold"
		}
	}

	return route.Route{
		Pipeline:   pipeline,
		Confidence: classified.Confidence,
		Tier:       tier,
		Params:     params,
		Reasoning:  reasoning,
	}
}

// mergeContext fills missing params from session context. Reports whether
// anything was merged.
func mergeContext(query string, params map[string]interface{}, ctx map[string]interface{}) bool {
	if ctx == nil {
		return false
	}
	merged := false

	// "my team" always resolves to the declared favorite
	if myTeamRe.MatchString(query) {
		if fav, ok := ctx["favorite_team"].(string); ok && fav != "" {
			params["team"] = intent.NormalizeTeam(fav)
			merged = true
		}
	}

	fallbacks := []struct {
		param  string
		ctxKey string
	}{
		{"team", "last_team"},
		{"position", "last_position"},
		{"down", "last_down"},
		{"distance", "last_distance"},
		{"yardline", "last_yardline"},
		{"season", "season"},
	}
	for _, fb := range fallbacks {
		if _, present := params[fb.param]; present {
			continue
		}
		if v, ok := ctx[fb.ctxKey]; ok && v != nil {
			params[fb.param] = v
			if fb.param != "season" {
				merged = true
			}
		}
	}

	return merged
}

// withSuggestions attaches alternative phrasings to low-confidence routes so
// the caller's retry UX has something concrete to offer.
func (r *Router) withSuggestions(rt route.Route) route.Route {
	if rt.Confidence >= suggestionThreshold {
		return rt
	}

	suggestions := []string{
		"tell me about KC",
		"KC vs SF",
		"should I go for it on 4th and 2 at the 35?",
	}
	if team, ok := rt.Params["team"].(string); ok && team != "" {
		suggestions[0] = "tell me about " + team
		suggestions[1] = team + " on 3rd and 5"
	}
	rt.Suggestions = suggestions
	return rt
}

// mergeEntityParams copies the named keys from extracted entities into
// params, without overwriting.
func mergeEntityParams(params, entities map[string]interface{}, keys ...string) {
	for _, key := range keys {
		if _, present := params[key]; present {
			continue
		}
		if v, ok := entities[key]; ok {
			params[key] = v
		}
	}
}

// Describe renders a route for logs.
func Describe(rt route.Route) string {
	parts := make([]string, 0, len(rt.Params))
	for k := range rt.Params {
		parts = append(parts, k)
	}
	sort.Strings(parts)
	return fmt.Sprintf("pipeline=%s tier=%d confidence=%.2f params=[%s]",
		rt.Pipeline, rt.Tier, rt.Confidence, strings.Join(parts, ","))
}
