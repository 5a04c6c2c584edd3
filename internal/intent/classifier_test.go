package intent

import (
	"testing"

	"playcall/domain/route"
)

// TestScoreFormula verifies the keyword scoring arithmetic: 0.5 plus 0.15
// per match capped at 0.9, plus 0.1 per strong signal capped at 0.95.
func TestScoreFormula(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		query    string
		pipeline route.PipelineType
		want     float64
	}{
		{"no match scores zero", "what is the weather", route.TeamProfile, 0.0},
		{"single keyword", "show me the matchup", route.TeamComparison, 0.65},
		{"two keywords plus strong signal", "simulate a drive from the 25", route.DriveSimulation, 0.9},
		{"profile hits two keywords and a signal", "team profile for KC", route.TeamProfile, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Score(tt.query, tt.pipeline)
			if !almostEqual(got, tt.want) {
				t.Errorf("Score(%q, %s) = %v, want %v", tt.query, tt.pipeline, got, tt.want)
			}
		})
	}
}

// TestScoreCaps verifies both score ceilings hold.
func TestScoreCaps(t *testing.T) {
	c := NewClassifier()

	// Many keywords and signals at once
	query := "compare the matchup versus the head to head difference between them vs. others against all"
	got := c.Score(query, route.TeamComparison)
	if got > 0.95 {
		t.Errorf("Score = %v, want at most 0.95", got)
	}
}

// TestClassifyUnknown verifies unclassifiable queries come back Unknown with
// the fixed low confidence.
func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier()

	intent := c.Classify("hello there")
	if intent.Pipeline != route.Unknown {
		t.Errorf("Pipeline = %s, want unknown", intent.Pipeline)
	}
	if intent.Confidence != 0.2 {
		t.Errorf("Confidence = %v, want 0.2", intent.Confidence)
	}
}

// TestClassifyPipelines verifies representative queries land on their
// intended pipelines.
func TestClassifyPipelines(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		query string
		want  route.PipelineType
	}{
		{"tell me about the chiefs", route.TeamProfile},
		{"KC play calling tendencies", route.TeamTendencies},
		{"should I go for it", route.DecisionAnalysis},
		{"top rushers this season", route.PlayerRankings},
		{"simulate a drive from midfield", route.DriveSimulation},
		{"run or pass on 3rd and short", route.SituationEPA},
	}

	for _, tt := range tests {
		got := c.Classify(tt.query)
		if got.Pipeline != tt.want {
			t.Errorf("Classify(%q).Pipeline = %s, want %s", tt.query, got.Pipeline, tt.want)
		}
		if got.Confidence < 0.3 {
			t.Errorf("Classify(%q).Confidence = %v, want >= 0.3", tt.query, got.Confidence)
		}
	}
}

// TestClassifyTies verifies tie resolution is deterministic across calls.
func TestClassifyTies(t *testing.T) {
	c := NewClassifier()
	query := "numbers and metrics summary"

	first := c.Classify(query).Pipeline
	for i := 0; i < 50; i++ {
		if got := c.Classify(query).Pipeline; got != first {
			t.Fatalf("Classify flapped between %s and %s", first, got)
		}
	}
}

// TestAllScores verifies the full score listing is sorted highest first,
// keeps ties in the fixed candidate order, and agrees with Classify.
func TestAllScores(t *testing.T) {
	c := NewClassifier()
	query := "compare the top rushers"

	scored := c.AllScores(query)
	if len(scored) != 8 {
		t.Fatalf("AllScores returned %d entries, want 8", len(scored))
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Fatalf("scores out of order at %d: %v then %v", i, scored[i-1], scored[i])
		}
	}
	if got := c.Classify(query).Pipeline; got != scored[0].Pipeline {
		t.Errorf("Classify = %s, AllScores leader = %s", got, scored[0].Pipeline)
	}

	// All-zero queries keep the candidate order intact.
	zeros := c.AllScores("xyzzy")
	want := []route.PipelineType{
		route.TeamProfile, route.TeamTendencies, route.TeamComparison,
		route.SituationEPA, route.DecisionAnalysis, route.PlayerRankings,
		route.PlayerComparison, route.DriveSimulation,
	}
	for i, sp := range zeros {
		if sp.Score != 0 {
			t.Errorf("Score(%s) = %v for gibberish, want 0", sp.Pipeline, sp.Score)
		}
		if sp.Pipeline != want[i] {
			t.Errorf("tie order at %d = %s, want %s", i, sp.Pipeline, want[i])
		}
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
