// Package ports defines the interfaces between the decision core and its
// external collaborators. The core only ever reads; writes happen in the
// ETL layer, which is outside this repository's scope.
package ports

import "context"

// TeamOverallRow is a team's (or the league's) season-level offensive rates.
type TeamOverallRow struct {
	PassRate      float64 `db:"pass_rate"`
	EPAPerPlay    float64 `db:"epa_per_play"`
	SuccessRate   float64 `db:"success_rate"`
	ShotgunRate   float64 `db:"shotgun_rate"`
	NoHuddleRate  float64 `db:"no_huddle_rate"`
	ExplosiveRate float64 `db:"explosive_rate"`
	PassEPA       float64 `db:"pass_epa"`
	RushEPA       float64 `db:"rush_epa"`
	TotalPlays    int     `db:"total_plays"`
}

// TeamDefenseRow is a team's season-level defensive rates.
type TeamDefenseRow struct {
	EPAPerPlay  float64 `db:"def_epa_per_play"`
	SuccessRate float64 `db:"def_success_rate"`
	PassEPA     float64 `db:"def_pass_epa"`
	RushEPA     float64 `db:"def_rush_epa"`
	Plays       int     `db:"def_plays"`
}

// SituationalRow is one (down, distance-bucket) aggregate cell.
type SituationalRow struct {
	Down           int     `db:"down"`
	DistanceBucket string  `db:"distance_bucket"`
	PassRate       float64 `db:"pass_rate"`
	EPAPerPlay     float64 `db:"epa_per_play"`
	SuccessRate    float64 `db:"success_rate"`
	SampleSize     int     `db:"sample_size"`
}

// OutcomeCell is the empirical play-outcome distribution for one
// (down, distance-bucket, field-zone) cell.
type OutcomeCell struct {
	Down           int
	DistanceBucket string
	FieldZone      string
	Yards          []int
	FirstDownRate  float64
	TDRate         float64
	TurnoverRate   float64
	SampleSize     int
}

// PlayerGroupRow is a player's aggregated rates for one stat role.
type PlayerGroupRow struct {
	PlayerID    string  `db:"player_id"`
	RawEPA      float64 `db:"raw_epa"`
	RawYards    float64 `db:"raw_yards"`
	RawSuccess  float64 `db:"raw_success"`
	Attempts    int     `db:"attempts"`
}

// PlayerSeasonRow is one counting-stat leaderboard row.
type PlayerSeasonRow struct {
	PlayerID   string  `db:"player_id"`
	PlayerName string  `db:"player_name"`
	Team       string  `db:"team"`
	Position   string  `db:"position"`
	StatValue  float64 `db:"stat_value"`
}

// PlayerInfo is the name/position/team lookup for enrichment.
type PlayerInfo struct {
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	Position   string `db:"position"`
	Team       string `db:"team"`
}

// TrainingPlay is one regression training sample.
type TrainingPlay struct {
	Down                 int     `db:"down"`
	Distance             int     `db:"ydstogo"`
	FieldPosition        int     `db:"yardline_100"`
	Quarter              int     `db:"quarter"`
	ScoreDiff            int     `db:"score_differential"`
	Shotgun              int     `db:"shotgun"`
	NoHuddle             int     `db:"no_huddle"`
	HalfSecondsRemaining int     `db:"half_seconds_remaining"`
	IsHome               int     `db:"is_home"`
	EPA                  float64 `db:"epa"`
}

// CountingStat selects a counting-stat leaderboard.
type CountingStat struct {
	StatType string // rushing, passing, receiving
	Metric   string // yards or touchdowns
	Season   int
	Limit    int
}

// AggregateReader is the serving-time data access surface: play-outcome
// distributions, field-goal make rates, and counting-stat leaderboards.
type AggregateReader interface {
	PlayOutcomes(ctx context.Context, seasons []int) ([]OutcomeCell, error)
	FGRates(ctx context.Context, seasons []int) (map[int]float64, error)
	CountingLeaders(ctx context.Context, sel CountingStat) ([]PlayerSeasonRow, error)
	PlayerNames(ctx context.Context, playerIDs []string) (map[string]PlayerInfo, error)
}

// TrainingReader is the training-time data access surface.
type TrainingReader interface {
	Teams(ctx context.Context, season int) ([]string, error)
	LeagueOverall(ctx context.Context, season int) (TeamOverallRow, error)
	LeagueSituational(ctx context.Context, season int) ([]SituationalRow, error)
	TeamOverall(ctx context.Context, team string, season int) (TeamOverallRow, error)
	TeamDefense(ctx context.Context, team string, season int) (TeamDefenseRow, error)
	TeamSituational(ctx context.Context, team string, season int) ([]SituationalRow, error)
	PlayerGroups(ctx context.Context, statType string, season int) ([]PlayerGroupRow, error)
	TrainingPlays(ctx context.Context, seasons []int) ([]TrainingPlay, error)
}
