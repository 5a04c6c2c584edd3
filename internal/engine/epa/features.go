package epa

import "playcall/domain/situation"

// PlayInput is the game state a prediction is made from: the shared
// Situation plus the formation and clock fields the model was trained on.
// The comparator predicts the same Situation twice with only the shotgun
// flag flipped.
type PlayInput struct {
	situation.Situation
	Shotgun              int
	NoHuddle             int
	HalfSecondsRemaining int
	IsHome               int
}

// EngineerFeatures derives the model's feature vector from a raw input.
// The engineered features match training exactly:
//   - ydstogo_pct: yards to go as a fraction of remaining field, clamped [0,1]
//   - goal_to_go: distance reaches the goal line
//   - late_half: under two minutes in the half
//   - two_min_drill: late AND trailing
func EngineerFeatures(in PlayInput) map[string]float64 {
	f := map[string]float64{
		"down":                   float64(in.Down),
		"ydstogo":                float64(in.Distance),
		"yardline_100":           float64(in.FieldPosition),
		"quarter":                float64(in.Quarter),
		"score_differential":     float64(in.ScoreDiff),
		"shotgun":                float64(in.Shotgun),
		"no_huddle":              float64(in.NoHuddle),
		"half_seconds_remaining": float64(in.HalfSecondsRemaining),
		"is_home":                float64(in.IsHome),
	}

	ydstogoPct := 0.0
	if in.FieldPosition > 0 {
		ydstogoPct = float64(in.Distance) / float64(in.FieldPosition)
	}
	if ydstogoPct > 1 {
		ydstogoPct = 1
	}
	if ydstogoPct < 0 {
		ydstogoPct = 0
	}
	f["ydstogo_pct"] = ydstogoPct

	if in.GoalToGo() {
		f["goal_to_go"] = 1
	}
	if in.HalfSecondsRemaining < 120 {
		f["late_half"] = 1
		if in.ScoreDiff < 0 {
			f["two_min_drill"] = 1
		}
	}

	return f
}
