// Package player defines shrunk player-effectiveness estimates.
package player

// Stat types a player can be estimated over.
const (
	StatRushing   = "rushing"
	StatPassing   = "passing"
	StatReceiving = "receiving"
)

// RawStats are a player's unadjusted season rates.
type RawStats struct {
	EPAPerPlay   float64 `json:"epa_per_play"`
	YardsPerPlay float64 `json:"yards_per_play"`
	SuccessRate  float64 `json:"success_rate"`
	Attempts     int     `json:"attempts"`
}

// ShrunkStats are the empirical-Bayes adjusted rates with their interval.
type ShrunkStats struct {
	EPAPerPlay  float64 `json:"epa_per_play"`
	EPACILower  float64 `json:"epa_ci_lower"`
	EPACIUpper  float64 `json:"epa_ci_upper"`
	SuccessRate float64 `json:"success_rate"`
}

// Estimate is the persisted per-player artifact. ShrinkageApplied is 1-w
// where w = n/(n+k): it goes to 1 as the sample vanishes and to 0 as the
// sample grows.
type Estimate struct {
	PlayerID         string      `json:"player_id"`
	PlayerName       string      `json:"player_name,omitempty"`
	Team             string      `json:"team,omitempty"`
	StatType         string      `json:"stat_type"`
	Season           int         `json:"season"`
	Raw              RawStats    `json:"raw"`
	Shrunk           ShrunkStats `json:"shrunk"`
	ShrinkageApplied float64     `json:"shrinkage_applied"`
}

// Prior holds league-wide rates for one stat type, used as the shrinkage
// target for every player of that type.
type Prior struct {
	MeanEPA     float64 `json:"mean_epa"`
	StdEPA      float64 `json:"std_epa"`
	MeanYards   float64 `json:"mean_yards"`
	SuccessRate float64 `json:"success_rate"`
	TotalPlays  int     `json:"total_plays"`
}
