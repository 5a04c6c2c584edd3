// Package decision defines the outputs of 4th-down decision analysis.
package decision

// DriveOutcome is the terminal state of a simulated drive.
type DriveOutcome string

const (
	OutcomeTouchdown       DriveOutcome = "touchdown"
	OutcomeFieldGoal       DriveOutcome = "field_goal"
	OutcomeTurnover        DriveOutcome = "turnover"
	OutcomePunt            DriveOutcome = "punt"
	OutcomeTurnoverOnDowns DriveOutcome = "turnover_on_downs"
	OutcomeEndOfHalf       DriveOutcome = "end_of_half"
	OutcomeSafety          DriveOutcome = "safety"
)

// GoForItOption summarizes the simulated "go for it" branch.
type GoForItOption struct {
	ExpectedPoints      float64 `json:"expected_points"`
	TDProbability       float64 `json:"td_probability"`
	FGProbability       float64 `json:"fg_probability"`
	TurnoverProbability float64 `json:"turnover_probability"`
}

// FieldGoalOption summarizes the kick branch.
type FieldGoalOption struct {
	ExpectedPoints     float64 `json:"expected_points"`
	SuccessProbability float64 `json:"success_probability"`
}

// PuntOption summarizes the punt branch. Expected points is fixed at 0: the
// field-position value handed to the opponent is a known, deliberate
// simplification.
type PuntOption struct {
	ExpectedPoints float64 `json:"expected_points"`
}

// Result is the full decision analysis, produced per request and never
// cached.
type Result struct {
	Down             int             `json:"down"`
	Distance         int             `json:"distance"`
	FieldPosition    int             `json:"field_position"`
	FGDistance       int             `json:"fg_distance"`
	Simulations      int             `json:"simulations"`
	GoForIt          GoForItOption   `json:"go_for_it"`
	FieldGoal        FieldGoalOption `json:"field_goal"`
	Punt             PuntOption      `json:"punt"`
	Recommendation   string          `json:"recommendation"`
	Confidence       float64         `json:"confidence"`
	ExpectedPointsDiff float64       `json:"expected_points_difference"`
}

// ScenarioResult is the outcome distribution of fresh drives started from a
// field position, used to build expected-points curves.
type ScenarioResult struct {
	StartingFieldPosition int     `json:"starting_field_position"`
	Simulations           int     `json:"simulations"`
	ExpectedPoints        float64 `json:"expected_points"`
	TDProbability         float64 `json:"td_probability"`
	FGProbability         float64 `json:"fg_probability"`
	NoScoreProbability    float64 `json:"no_score_probability"`
}
