package drivesim

import (
	"math"
	"math/rand"
	"testing"
)

// syntheticDistributions builds a full grid of cells with a fixed yardage
// multiset so simulations are statistically stable.
func syntheticDistributions(yards []int, turnoverRate float64) map[string]Distribution {
	dists := map[string]Distribution{}
	buckets := []string{"short", "medium", "long"}
	zones := []string{"goal_line", "red_zone", "opp_territory", "midfield", "own_territory"}

	for down := 1; down <= 4; down++ {
		for _, bucket := range buckets {
			for _, zone := range zones {
				dists[DistributionKey(down, bucket, zone)] = Distribution{
					Yards:        yards,
					TurnoverRate: turnoverRate,
					SampleSize:   1000,
				}
			}
		}
	}
	return dists
}

func syntheticFGRates() map[int]float64 {
	rates := map[int]float64{}
	for d := 18; d <= 65; d++ {
		rates[d] = math.Max(0.2, 1.0-float64(d-20)*0.015)
	}
	return rates
}

func loadedSimulator(yards []int, turnoverRate float64) *Simulator {
	s := New(4, 50000)
	s.Load(syntheticDistributions(yards, turnoverRate), syntheticFGRates())
	return s
}

// TestFGRateMonotonicity verifies longer kicks never have a higher make
// probability over the playable range.
func TestFGRateMonotonicity(t *testing.T) {
	s := loadedSimulator([]int{3}, 0.02)

	prev := 1.1
	for fieldPos := 1; fieldPos <= 60; fieldPos++ {
		rate := s.FGSuccessRate(fieldPos)
		if rate > prev {
			t.Errorf("FG rate rose from %v to %v at field position %d", prev, rate, fieldPos)
		}
		if rate < 0.2 {
			t.Errorf("FG rate %v below the 0.2 floor at field position %d", rate, fieldPos)
		}
		prev = rate
	}
}

// TestFGRateFallback verifies field positions outside the observed range use
// the linear-decay fallback with its floor.
func TestFGRateFallback(t *testing.T) {
	s := New(1, 1000)
	s.Load(syntheticDistributions([]int{3}, 0.02), map[int]float64{})

	// Kick distance 37: 1 - 17*0.015
	got := s.FGSuccessRate(20)
	want := 1.0 - float64(37-20)*0.015
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("FGSuccessRate(20) = %v, want %v", got, want)
	}

	// Very long kicks hit the floor
	if got := s.FGSuccessRate(80); got != 0.2 {
		t.Errorf("FGSuccessRate(80) = %v, want floor 0.2", got)
	}
}

// TestFGRateInterpolation verifies gaps between observed kick distances are
// filled linearly.
func TestFGRateInterpolation(t *testing.T) {
	rates := interpolateFGRates(map[int]float64{30: 0.9, 34: 0.7})

	if math.Abs(rates[32]-0.8) > 1e-9 {
		t.Errorf("rates[32] = %v, want midpoint 0.8", rates[32])
	}
	if math.Abs(rates[31]-0.85) > 1e-9 {
		t.Errorf("rates[31] = %v, want 0.85", rates[31])
	}
}

// TestSamplePlayCapsAtFieldPosition verifies a sampled gain can't travel
// beyond the goal line and that reaching it is a touchdown.
func TestSamplePlayCapsAtFieldPosition(t *testing.T) {
	s := loadedSimulator([]int{50}, 0.0)
	rng := rand.New(rand.NewSource(1))

	result := s.samplePlay(rng, 1, 10, 8)
	if result.yards != 8 {
		t.Errorf("yards = %d, want capped at 8", result.yards)
	}
	if !result.touchdown {
		t.Error("reaching the goal line should be a touchdown")
	}
}

// TestSamplePlayFallback verifies a thin cell falls back to the midfield
// cell for the same down and distance.
func TestSamplePlayFallback(t *testing.T) {
	dists := map[string]Distribution{
		// Thin target cell, rich midfield cell with a distinctive yardage
		DistributionKey(1, "long", "red_zone"): {Yards: []int{99}, SampleSize: 3},
		DistributionKey(1, "long", "midfield"): {Yards: []int{4}, SampleSize: 500},
	}
	s := New(1, 1000)
	s.Load(dists, map[int]float64{})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		result := s.samplePlay(rng, 1, 10, 15)
		if result.yards != 4 {
			t.Fatalf("yards = %d, want 4 from the midfield fallback", result.yards)
		}
	}
}

// TestSamplePlayGenericFallback verifies a situation with no usable cell at
// all still produces plays from the generic multiset.
func TestSamplePlayGenericFallback(t *testing.T) {
	s := New(1, 1000)
	s.Load(map[string]Distribution{}, map[int]float64{})

	rng := rand.New(rand.NewSource(1))
	result := s.samplePlay(rng, 2, 5, 40)

	found := false
	for _, y := range genericYards {
		if result.yards == y {
			found = true
		}
	}
	if !result.turnover && !found {
		t.Errorf("yards = %d, not in the generic multiset", result.yards)
	}
}

// TestTurnoverShortCircuits verifies a certain turnover ends the play with
// no yardage.
func TestTurnoverShortCircuits(t *testing.T) {
	s := loadedSimulator([]int{5}, 1.0)
	rng := rand.New(rand.NewSource(1))

	result := s.samplePlay(rng, 1, 10, 50)
	if !result.turnover {
		t.Fatal("expected a turnover at rate 1.0")
	}
	if result.yards != 0 || result.touchdown || result.firstDown {
		t.Errorf("turnover play carried extra outcomes: %+v", result)
	}
}
