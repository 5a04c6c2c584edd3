// Package situation holds the shared game-state vocabulary: downs,
// distances, field position, and the coarse buckets used to index
// empirical play distributions.
package situation

// Situation describes a single play-calling decision point. FieldPosition is
// yards from the opponent's goal line (yardline_100 in play-by-play terms),
// so 1 is knocking on the door and 99 is backed up against your own end zone.
type Situation struct {
	Down           int
	Distance       int
	FieldPosition  int
	Quarter        int
	ScoreDiff      int
	DefendersInBox *int
}

// GoalToGo reports whether the distance to gain reaches the goal line.
// Distance > FieldPosition is not rejected anywhere; callers treat it as
// goal-to-go.
func (s Situation) GoalToGo() bool {
	return s.Distance >= s.FieldPosition
}

// Distance buckets for yards to go.
const (
	DistanceShort  = "short"  // <= 3
	DistanceMedium = "medium" // <= 7
	DistanceLong   = "long"
)

// DistanceBucket maps yards-to-go into short/medium/long.
func DistanceBucket(distance int) string {
	switch {
	case distance <= 3:
		return DistanceShort
	case distance <= 7:
		return DistanceMedium
	default:
		return DistanceLong
	}
}

// Field zones keyed by yards from the opponent goal line.
const (
	ZoneGoalLine     = "goal_line"     // <= 10
	ZoneRedZone      = "red_zone"      // <= 20
	ZoneOppTerritory = "opp_territory" // <= 40
	ZoneMidfield     = "midfield"      // <= 60
	ZoneOwnTerritory = "own_territory"
)

// FieldZone maps a field position into its zone.
func FieldZone(fieldPosition int) string {
	switch {
	case fieldPosition <= 10:
		return ZoneGoalLine
	case fieldPosition <= 20:
		return ZoneRedZone
	case fieldPosition <= 40:
		return ZoneOppTerritory
	case fieldPosition <= 60:
		return ZoneMidfield
	default:
		return ZoneOwnTerritory
	}
}

// Score differential buckets, two scores out in either direction marking
// the "big" ends.
const (
	ScoreLosingBig  = "losing_big"
	ScoreLosing     = "losing"
	ScoreTied       = "tied"
	ScoreWinning    = "winning"
	ScoreWinningBig = "winning_big"
)

// ScoreBucket maps a score differential (offense minus defense) into a bucket.
func ScoreBucket(scoreDiff int) string {
	switch {
	case scoreDiff <= -14:
		return ScoreLosingBig
	case scoreDiff <= -1:
		return ScoreLosing
	case scoreDiff == 0:
		return ScoreTied
	case scoreDiff <= 14:
		return ScoreWinning
	default:
		return ScoreWinningBig
	}
}
