// Package player implements empirical-Bayes shrinkage of per-player rate
// statistics toward position priors. Small samples get pulled hard toward
// the prior; large samples barely move.
package player

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"playcall/domain/player"
	"playcall/internal/errors"
)

// DefaultShrinkageK is the shrinkage strength: with n samples, the weight on
// the player's own data is n/(n+k). Calibrated; do not tune casually.
const DefaultShrinkageK = 30.0

// ci95 is the two-sided 95% normal quantile.
var ci95 = distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

// Shrink computes the empirical-Bayes estimate and its interval.
//
// The interval half-width is 1.96*sqrt(priorVar/n)*(1+(1-w)): deliberately
// widened as shrinkage increases, so a small-sample estimate advertises the
// prior's residual uncertainty, not just its own sampling error.
func Shrink(playerMean float64, playerN int, priorMean, priorVar, k float64) (shrunk, ciLower, ciUpper float64) {
	weight := float64(playerN) / (float64(playerN) + k)
	shrunk = weight*playerMean + (1-weight)*priorMean

	se := math.Sqrt(priorVar)
	if playerN > 0 {
		se = math.Sqrt(priorVar / float64(playerN))
	}
	halfWidth := ci95 * se * (1 + (1 - weight))

	return shrunk, shrunk - halfWidth, shrunk + halfWidth
}

// Model holds position priors and per-player shrunk estimates for a season.
// Built once per training run, read-only at serving time.
type Model struct {
	ShrinkageK float64                     `json:"shrinkage_k"`
	Season     int                         `json:"season"`
	Priors     map[string]player.Prior     `json:"position_priors"`
	Estimates  map[string]*player.Estimate `json:"player_estimates"`
}

// NewModel creates an empty model with the default shrinkage strength.
func NewModel(season int) *Model {
	return &Model{
		ShrinkageK: DefaultShrinkageK,
		Season:     season,
		Priors:     map[string]player.Prior{},
		Estimates:  map[string]*player.Estimate{},
	}
}

// GetEstimate returns the estimate for a player, or nil.
func (m *Model) GetEstimate(playerID string) *player.Estimate {
	return m.Estimates[playerID]
}

// RankedPlayer is one row of a ranking.
type RankedPlayer struct {
	PlayerID         string  `json:"player_id"`
	PlayerName       string  `json:"player_name,omitempty"`
	Team             string  `json:"team,omitempty"`
	ShrunkValue      float64 `json:"shrunk_value"`
	RawValue         float64 `json:"raw_value"`
	CILower          float64 `json:"ci_lower"`
	CIUpper          float64 `json:"ci_upper"`
	Attempts         int     `json:"attempts"`
	ShrinkageApplied float64 `json:"shrinkage_applied"`
}

// GetTopPlayers ranks players of a stat type by their shrunk estimate.
// Metric is "epa_per_play", "epa_per_target" (same ranking, receiving
// label), or "success_rate". Sorting by the shrunk value rather than the
// raw one is the load-bearing choice here: it keeps small-sample outliers
// off the top of the list.
func (m *Model) GetTopPlayers(statType, metric string, minAttempts, n int) []RankedPlayer {
	eligible := []RankedPlayer{}

	for id, est := range m.Estimates {
		if est.StatType != statType {
			continue
		}
		if est.Raw.Attempts < minAttempts {
			continue
		}
		shrunkValue := est.Shrunk.EPAPerPlay
		rawValue := est.Raw.EPAPerPlay
		if metric == "success_rate" {
			shrunkValue = est.Shrunk.SuccessRate
			rawValue = est.Raw.SuccessRate
		}
		eligible = append(eligible, RankedPlayer{
			PlayerID:         id,
			PlayerName:       est.PlayerName,
			Team:             est.Team,
			ShrunkValue:      shrunkValue,
			RawValue:         rawValue,
			CILower:          est.Shrunk.EPACILower,
			CIUpper:          est.Shrunk.EPACIUpper,
			Attempts:         est.Raw.Attempts,
			ShrinkageApplied: est.ShrinkageApplied,
		})
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].ShrunkValue != eligible[j].ShrunkValue {
			return eligible[i].ShrunkValue > eligible[j].ShrunkValue
		}
		return eligible[i].PlayerID < eligible[j].PlayerID
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// ComparisonSide is one player's half of a comparison.
type ComparisonSide struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	StatType         string  `json:"stat_type"`
	ShrunkEPA        float64 `json:"shrunk_epa"`
	RawEPA           float64 `json:"raw_epa"`
	SampleSize       int     `json:"sample_size"`
	ShrinkageApplied float64 `json:"shrinkage_applied"`
}

// Comparison is a two-player verdict.
type Comparison struct {
	Player1       ComparisonSide `json:"player_1"`
	Player2       ComparisonSide `json:"player_2"`
	Verdict       string         `json:"verdict"`
	EPADifference float64        `json:"epa_difference,omitempty"`
}

// ComparePlayers compares two players' shrunk estimates. Differences under
// 0.02 EPA read as "similar".
func (m *Model) ComparePlayers(id1, id2 string) (*Comparison, error) {
	p1 := m.GetEstimate(id1)
	p2 := m.GetEstimate(id2)

	if p1 == nil && p2 == nil {
		return nil, errors.NotFound("players " + id1 + " and " + id2)
	}
	if p1 == nil {
		return nil, errors.NotFound("player " + id1)
	}
	if p2 == nil {
		return nil, errors.NotFound("player " + id2)
	}

	cmp := &Comparison{
		Player1: comparisonSide(p1),
		Player2: comparisonSide(p2),
	}

	diff := cmp.Player1.ShrunkEPA - cmp.Player2.ShrunkEPA
	switch {
	case math.Abs(diff) < 0.02:
		cmp.Verdict = "similar"
	case diff > 0:
		cmp.Verdict = "player_1_better"
		cmp.EPADifference = math.Round(diff*10000) / 10000
	default:
		cmp.Verdict = "player_2_better"
		cmp.EPADifference = math.Round(diff*10000) / 10000
	}

	return cmp, nil
}

func comparisonSide(est *player.Estimate) ComparisonSide {
	return ComparisonSide{
		ID:               est.PlayerID,
		Name:             est.PlayerName,
		StatType:         est.StatType,
		ShrunkEPA:        est.Shrunk.EPAPerPlay,
		RawEPA:           est.Raw.EPAPerPlay,
		SampleSize:       est.Raw.Attempts,
		ShrinkageApplied: est.ShrinkageApplied,
	}
}

// Save writes the model to a JSON file.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode player estimates")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write player estimates")
	}
	return nil
}

// Load reads a model from a JSON file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactNotLoaded("player estimates", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.ArtifactNotLoaded("player estimates", err)
	}
	if m.ShrinkageK == 0 {
		m.ShrinkageK = DefaultShrinkageK
	}
	return &m, nil
}
