package situation

import "testing"

// TestDistanceBucket pins the bucket edges.
func TestDistanceBucket(t *testing.T) {
	tests := []struct {
		distance int
		want     string
	}{
		{1, DistanceShort},
		{3, DistanceShort},
		{4, DistanceMedium},
		{7, DistanceMedium},
		{8, DistanceLong},
		{25, DistanceLong},
	}

	for _, tt := range tests {
		if got := DistanceBucket(tt.distance); got != tt.want {
			t.Errorf("DistanceBucket(%d) = %q, want %q", tt.distance, got, tt.want)
		}
	}
}

// TestFieldZone pins the zone edges.
func TestFieldZone(t *testing.T) {
	tests := []struct {
		fieldPos int
		want     string
	}{
		{1, ZoneGoalLine},
		{10, ZoneGoalLine},
		{11, ZoneRedZone},
		{20, ZoneRedZone},
		{21, ZoneOppTerritory},
		{40, ZoneOppTerritory},
		{41, ZoneMidfield},
		{60, ZoneMidfield},
		{61, ZoneOwnTerritory},
		{99, ZoneOwnTerritory},
	}

	for _, tt := range tests {
		if got := FieldZone(tt.fieldPos); got != tt.want {
			t.Errorf("FieldZone(%d) = %q, want %q", tt.fieldPos, got, tt.want)
		}
	}
}

// TestScoreBucket pins the score-differential bucket edges, two scores out
// marking the big ends.
func TestScoreBucket(t *testing.T) {
	tests := []struct {
		scoreDiff int
		want      string
	}{
		{-21, ScoreLosingBig},
		{-14, ScoreLosingBig},
		{-13, ScoreLosing},
		{-1, ScoreLosing},
		{0, ScoreTied},
		{1, ScoreWinning},
		{14, ScoreWinning},
		{15, ScoreWinningBig},
	}

	for _, tt := range tests {
		if got := ScoreBucket(tt.scoreDiff); got != tt.want {
			t.Errorf("ScoreBucket(%d) = %q, want %q", tt.scoreDiff, got, tt.want)
		}
	}
}

// TestGoalToGo verifies the goal-to-go flag.
func TestGoalToGo(t *testing.T) {
	s := Situation{Down: 1, Distance: 8, FieldPosition: 8}
	if !s.GoalToGo() {
		t.Error("expected goal to go when distance reaches the goal line")
	}

	s = Situation{Down: 1, Distance: 10, FieldPosition: 45}
	if s.GoalToGo() {
		t.Error("did not expect goal to go at midfield")
	}
}
