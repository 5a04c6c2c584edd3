package training

import (
	"math"
	"math/rand"
	"testing"

	"playcall/ports"
)

// syntheticPlays generates plays whose EPA follows a known linear rule so
// the fit can be checked against ground truth.
func syntheticPlays(n int, intercept, downCoef, shotgunCoef float64, noise float64) []ports.TrainingPlay {
	rng := rand.New(rand.NewSource(7))
	plays := make([]ports.TrainingPlay, n)
	for i := range plays {
		down := 1 + rng.Intn(4)
		shotgun := rng.Intn(2)
		plays[i] = ports.TrainingPlay{
			Down:                 down,
			Distance:             1 + rng.Intn(10),
			FieldPosition:        20 + rng.Intn(60),
			Quarter:              1 + rng.Intn(4),
			ScoreDiff:            rng.Intn(21) - 10,
			Shotgun:              shotgun,
			HalfSecondsRemaining: 200 + rng.Intn(1500),
			EPA:                  intercept + downCoef*float64(down) + shotgunCoef*float64(shotgun) + noise*rng.NormFloat64(),
		}
	}
	return plays
}

// TestFitRidgeRecoversCoefficients verifies the solver recovers a known
// generating model from noiseless data.
func TestFitRidgeRecoversCoefficients(t *testing.T) {
	plays := syntheticPlays(5000, 0.05, -0.04, 0.08, 0.0)

	model, err := fitRidge(plays, []int{2025}, 0.001)
	if err != nil {
		t.Fatalf("fitRidge: %v", err)
	}

	if math.Abs(model.Coefficients["down"]-(-0.04)) > 0.005 {
		t.Errorf("down coefficient = %v, want about -0.04", model.Coefficients["down"])
	}
	if math.Abs(model.Coefficients["shotgun"]-0.08) > 0.005 {
		t.Errorf("shotgun coefficient = %v, want about 0.08", model.Coefficients["shotgun"])
	}
	if model.TrainRMSE > 0.01 {
		t.Errorf("TrainRMSE = %v, want near zero on noiseless data", model.TrainRMSE)
	}
	if model.NSamples != 5000 {
		t.Errorf("NSamples = %d, want 5000", model.NSamples)
	}
}

// TestFitRidgeNoisyStillClose verifies noise degrades but doesn't derail
// the fit.
func TestFitRidgeNoisyStillClose(t *testing.T) {
	plays := syntheticPlays(8000, 0.05, -0.04, 0.08, 0.2)

	model, err := fitRidge(plays, []int{2025}, 1.0)
	if err != nil {
		t.Fatalf("fitRidge: %v", err)
	}
	if math.Abs(model.Coefficients["shotgun"]-0.08) > 0.03 {
		t.Errorf("shotgun coefficient = %v, want within 0.03 of 0.08", model.Coefficients["shotgun"])
	}
}

// TestFitRidgeRejectsTinySamples verifies the sample floor.
func TestFitRidgeRejectsTinySamples(t *testing.T) {
	plays := syntheticPlays(10, 0.0, 0.0, 0.0, 0.0)

	if _, err := fitRidge(plays, []int{2025}, 1.0); err == nil {
		t.Error("expected an error for a tiny training set")
	}
}
