// Package epa wraps the trained expected-points-added regression and derives
// run-vs-pass recommendations from it.
package epa

import (
	"encoding/json"
	"os"

	"playcall/internal/errors"
)

// Feature names the model is trained over, in training column order.
var FeatureNames = []string{
	"down",
	"ydstogo",
	"yardline_100",
	"quarter",
	"score_differential",
	"shotgun",
	"no_huddle",
	"half_seconds_remaining",
	"is_home",
	"ydstogo_pct",
	"goal_to_go",
	"late_half",
	"two_min_drill",
}

// Model is a ridge-regression EPA predictor. The coefficients are fit
// offline by the training pipeline and persisted as JSON.
type Model struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	TrainSeasons []int              `json:"train_seasons,omitempty"`
	TrainRMSE    float64            `json:"train_rmse,omitempty"`
	NSamples     int                `json:"n_samples,omitempty"`
}

// Predict evaluates the model for one engineered feature vector.
func (m *Model) Predict(features map[string]float64) float64 {
	epa := m.Intercept
	for name, coef := range m.Coefficients {
		epa += coef * features[name]
	}
	return epa
}

// Save writes the model to a JSON file.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode EPA model")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write EPA model")
	}
	return nil
}

// Load reads a model from a JSON file. A missing file is an
// ARTIFACT_NOT_LOADED condition, not an input error.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactNotLoaded("EPA model", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.ArtifactNotLoaded("EPA model", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, errors.ArtifactNotLoaded("EPA model", errors.New(errors.CodeArtifactNotLoaded, "model has no coefficients"))
	}
	return &m, nil
}
