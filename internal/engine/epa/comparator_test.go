package epa

import (
	"math"
	"testing"

	"playcall/domain/situation"
)

// testComparatorModel builds a model with hand-set coefficients so the
// pass/run gap is fully controlled by the shotgun coefficient.
func testComparatorModel(shotgunCoef float64) *Model {
	return &Model{
		Intercept: 0.0,
		Coefficients: map[string]float64{
			"shotgun": shotgunCoef,
		},
	}
}

func baseInput() PlayInput {
	return PlayInput{
		Situation: situation.Situation{
			Down:          2,
			Distance:      7,
			FieldPosition: 50,
			Quarter:       2,
		},
		HalfSecondsRemaining: 900,
	}
}

// TestCompareNeutralZone verifies gaps under 0.02 EPA read as neutral at
// exactly 0.5 confidence.
func TestCompareNeutralZone(t *testing.T) {
	m := testComparatorModel(0.01)

	cmp := m.ComparePlayTypes(baseInput(), CompareOptions{})
	if cmp.Recommendation != "neutral" {
		t.Errorf("Recommendation = %q, want neutral for a 0.01 gap", cmp.Recommendation)
	}
	if cmp.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", cmp.Confidence)
	}
}

// TestCompareRecommendsPass verifies a positive pass edge produces a pass
// call with linearly scaled confidence.
func TestCompareRecommendsPass(t *testing.T) {
	m := testComparatorModel(0.1)

	cmp := m.ComparePlayTypes(baseInput(), CompareOptions{})
	if cmp.Recommendation != "pass" {
		t.Fatalf("Recommendation = %q, want pass", cmp.Recommendation)
	}
	if math.Abs(cmp.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.7 for a 0.1 gap", cmp.Confidence)
	}
	if math.Abs(cmp.EPADifference-0.1) > 1e-9 {
		t.Errorf("EPADifference = %v, want 0.1", cmp.EPADifference)
	}
}

// TestCompareRecommendsRun verifies a negative shotgun coefficient flips the
// call to run.
func TestCompareRecommendsRun(t *testing.T) {
	m := testComparatorModel(-0.1)

	cmp := m.ComparePlayTypes(baseInput(), CompareOptions{})
	if cmp.Recommendation != "run" {
		t.Errorf("Recommendation = %q, want run", cmp.Recommendation)
	}
}

// TestCompareConfidenceCap verifies confidence saturates at 0.95.
func TestCompareConfidenceCap(t *testing.T) {
	m := testComparatorModel(1.0)

	cmp := m.ComparePlayTypes(baseInput(), CompareOptions{})
	if cmp.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95 cap", cmp.Confidence)
	}
}

// TestCompareBoxAdjustments verifies the light-box run bonus and stacked-box
// pass bonus, and that a 7-man box adjusts nothing.
func TestCompareBoxAdjustments(t *testing.T) {
	tests := []struct {
		name     string
		box      int
		wantAdj  float64
		flipsRec string
	}{
		{"light box favors run", 6, 0.03, "run"},
		{"stacked box favors pass", 8, 0.04, "pass"},
		{"seven is neutral", 7, 0.0, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Dead-even model, so only the box bonus moves the needle
			m := testComparatorModel(0.0)
			box := tt.box
			in := baseInput()
			in.DefendersInBox = &box

			cmp := m.ComparePlayTypes(in, CompareOptions{})
			if math.Abs(cmp.BoxAdjustment-tt.wantAdj) > 1e-9 {
				t.Errorf("BoxAdjustment = %v, want %v", cmp.BoxAdjustment, tt.wantAdj)
			}
			if cmp.Recommendation != tt.flipsRec {
				t.Errorf("Recommendation = %q, want %q", cmp.Recommendation, tt.flipsRec)
			}
			if cmp.DefensiveInsight == "" {
				t.Error("expected a defensive insight when a box count is supplied")
			}
		})
	}
}

// TestCompareTeamAdjustments verifies team pass/run adjustments shift the
// two predictions independently.
func TestCompareTeamAdjustments(t *testing.T) {
	m := testComparatorModel(0.0)

	cmp := m.ComparePlayTypes(baseInput(), CompareOptions{
		TeamPassAdjustment: 0.08,
		TeamRunAdjustment:  -0.02,
	})
	if cmp.Recommendation != "pass" {
		t.Errorf("Recommendation = %q, want pass with a +0.08 pass adjustment", cmp.Recommendation)
	}
	if math.Abs(cmp.EPADifference-0.10) > 1e-9 {
		t.Errorf("EPADifference = %v, want 0.10", cmp.EPADifference)
	}
}

// TestEngineerFeatures covers the derived features and their clamps.
func TestEngineerFeatures(t *testing.T) {
	f := EngineerFeatures(PlayInput{
		Situation: situation.Situation{
			Down: 3, Distance: 8, FieldPosition: 4,
			Quarter: 4, ScoreDiff: -3,
		},
		HalfSecondsRemaining: 90,
	})

	if f["ydstogo_pct"] != 1.0 {
		t.Errorf("ydstogo_pct = %v, want clamp to 1.0", f["ydstogo_pct"])
	}
	if f["goal_to_go"] != 1.0 {
		t.Errorf("goal_to_go = %v, want 1 when distance reaches the goal line", f["goal_to_go"])
	}
	if f["late_half"] != 1.0 {
		t.Errorf("late_half = %v, want 1 under two minutes", f["late_half"])
	}
	if f["two_min_drill"] != 1.0 {
		t.Errorf("two_min_drill = %v, want 1 when late and trailing", f["two_min_drill"])
	}

	// Leading team under two minutes is not a two minute drill
	f = EngineerFeatures(PlayInput{
		Situation: situation.Situation{
			Down: 1, Distance: 10, FieldPosition: 75,
			Quarter: 4, ScoreDiff: 7,
		},
		HalfSecondsRemaining: 90,
	})
	if f["two_min_drill"] != 0.0 {
		t.Errorf("two_min_drill = %v, want 0 when leading", f["two_min_drill"])
	}
	if f["ydstogo_pct"] != 10.0/75.0 {
		t.Errorf("ydstogo_pct = %v, want %v", f["ydstogo_pct"], 10.0/75.0)
	}
}

// TestPredict verifies the dot product against hand arithmetic.
func TestPredict(t *testing.T) {
	m := &Model{
		Intercept: 0.1,
		Coefficients: map[string]float64{
			"down":    -0.05,
			"shotgun": 0.02,
		},
	}

	got := m.Predict(map[string]float64{"down": 3, "shotgun": 1})
	want := 0.1 + 3*-0.05 + 0.02
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Predict = %v, want %v", got, want)
	}
}
