// Package profile defines team identity profiles: how a team's tendencies
// and effectiveness deviate from league average.
package profile

// OverallStats are a team's season-level offensive rates.
type OverallStats struct {
	PassRate      float64 `json:"pass_rate"`
	EPAPerPlay    float64 `json:"epa_per_play"`
	SuccessRate   float64 `json:"success_rate"`
	ShotgunRate   float64 `json:"shotgun_rate"`
	NoHuddleRate  float64 `json:"no_huddle_rate"`
	ExplosiveRate float64 `json:"explosive_rate"`
	PassEPA       float64 `json:"pass_epa"`
	RushEPA       float64 `json:"rush_epa"`
	TotalPlays    int     `json:"total_plays"`
}

// DefenseStats are a team's season-level defensive rates. EPA here is from
// the opposing offense's perspective, so negative is good defense.
type DefenseStats struct {
	EPAPerPlay  float64 `json:"epa_per_play"`
	SuccessRate float64 `json:"success_rate"`
	PassEPA     float64 `json:"pass_epa"`
	RushEPA     float64 `json:"rush_epa"`
}

// Deviations are a team's offensive rates minus the league average.
type Deviations struct {
	PassRate      float64 `json:"pass_rate"`
	EPAPerPlay    float64 `json:"epa_per_play"`
	SuccessRate   float64 `json:"success_rate"`
	ShotgunRate   float64 `json:"shotgun_rate"`
	ExplosiveRate float64 `json:"explosive_rate"`
}

// SituationalStat holds a team's rates in one (down, distance-bucket) cell,
// alongside the league deltas for the same cell.
type SituationalStat struct {
	PassRateVsLeague    float64 `json:"pass_rate_vs_league"`
	EPAVsLeague         float64 `json:"epa_vs_league"`
	SuccessRateVsLeague float64 `json:"success_rate_vs_league"`
	TeamPassRate        float64 `json:"team_pass_rate"`
	TeamEPA             float64 `json:"team_epa"`
	SampleSize          int     `json:"sample_size"`
}

// TeamProfile is the persisted per-team-per-season artifact.
type TeamProfile struct {
	Team        string                     `json:"team"`
	Season      int                        `json:"season"`
	Overall     OverallStats               `json:"overall"`
	Defense     DefenseStats               `json:"defense"`
	Deviations  Deviations                 `json:"deviations"`
	Situational map[string]SituationalStat `json:"situational"`
	Strengths   []string                   `json:"strengths"`
	Weaknesses  []string                   `json:"weaknesses"`
}

// LeagueSituational is one league-average (down, distance-bucket) cell.
type LeagueSituational struct {
	PassRate    float64 `json:"pass_rate"`
	EPAPerPlay  float64 `json:"epa_per_play"`
	SuccessRate float64 `json:"success_rate"`
	SampleSize  int     `json:"sample_size"`
}

// LeagueAverages holds league-wide rates for one season.
type LeagueAverages struct {
	Season      int                          `json:"season"`
	Overall     OverallStats                 `json:"overall"`
	Situational map[string]LeagueSituational `json:"situational"`
}
