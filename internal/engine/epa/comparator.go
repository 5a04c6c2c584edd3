package epa

import (
	"fmt"
	"math"
)

// Box-count adjustments. A light box (6 or fewer defenders) favors running;
// a stacked box (8 or more) favors passing; 7 is neutral.
const (
	lightBoxRunBonus    = 0.03
	stackedBoxPassBonus = 0.04
)

// Predictions closer than this are a coin flip.
const neutralZone = 0.02

// Comparison is the run-vs-pass analysis for one situation.
type Comparison struct {
	PassEPA          float64 `json:"pass_epa"`
	RunEPA           float64 `json:"run_epa"`
	EPADifference    float64 `json:"epa_difference"`
	Recommendation   string  `json:"recommendation"`
	Confidence       float64 `json:"confidence"`
	DefensiveInsight string  `json:"defensive_insight,omitempty"`
	BoxAdjustment    float64 `json:"box_adjustment,omitempty"`
}

// CompareOptions carry the optional team context.
type CompareOptions struct {
	TeamPassAdjustment float64
	TeamRunAdjustment  float64
}

// ComparePlayTypes predicts EPA for the same situation twice with only the
// formation feature toggled (shotgun for the pass side), applies the team
// adjustments, and derives a recommendation. A box count on the input's
// Situation shifts the favored side by a fixed bonus.
//
// Confidence scales linearly with the EPA gap: min(0.95, 0.5 + 2*|diff|),
// so a 0.1 EPA edge reads as 0.7 and anything past ~0.225 saturates.
func (m *Model) ComparePlayTypes(in PlayInput, opts CompareOptions) Comparison {
	passInput := in
	passInput.Shotgun = 1
	passInput.NoHuddle = 0
	passEPA := m.Predict(EngineerFeatures(passInput)) + opts.TeamPassAdjustment

	runInput := in
	runInput.Shotgun = 0
	runInput.NoHuddle = 0
	runEPA := m.Predict(EngineerFeatures(runInput)) + opts.TeamRunAdjustment

	insight := ""
	boxAdjustment := 0.0
	if in.DefendersInBox != nil {
		box := *in.DefendersInBox
		switch {
		case box <= 6:
			boxAdjustment = lightBoxRunBonus
			runEPA += boxAdjustment
			insight = fmt.Sprintf("Light box (%d defenders) favors the run", box)
		case box >= 8:
			boxAdjustment = stackedBoxPassBonus
			passEPA += boxAdjustment
			insight = fmt.Sprintf("Stacked box (%d defenders) favors the pass", box)
		default:
			insight = fmt.Sprintf("Standard box (%d defenders)", box)
		}
	}

	diff := passEPA - runEPA

	recommendation := "neutral"
	confidence := 0.5
	if math.Abs(diff) >= neutralZone {
		if diff > 0 {
			recommendation = "pass"
		} else {
			recommendation = "run"
		}
		confidence = math.Min(0.95, 0.5+2*math.Abs(diff))
	}

	return Comparison{
		PassEPA:          round4(passEPA),
		RunEPA:           round4(runEPA),
		EPADifference:    round4(diff),
		Recommendation:   recommendation,
		Confidence:       round3(confidence),
		DefensiveInsight: insight,
		BoxAdjustment:    round4(boxAdjustment),
	}
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
