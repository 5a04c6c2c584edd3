// Package drivesim is the Monte Carlo drive engine: it samples plays from
// bucketed empirical distributions to estimate drive outcomes and evaluate
// 4th-down decisions.
package drivesim

import (
	"fmt"
	"math"
	"math/rand"

	"playcall/domain/situation"
)

// Distribution is the empirical play-outcome multiset for one
// (down, distance-bucket, field-zone) cell.
type Distribution struct {
	Yards         []int   `json:"yards"`
	FirstDownRate float64 `json:"first_down_rate"`
	TDRate        float64 `json:"td_rate"`
	TurnoverRate  float64 `json:"turnover_rate"`
	SampleSize    int     `json:"sample_size"`
}

// minSampleSize is the cell-size floor; thinner cells fall back to the
// coarser midfield cell for the same down and distance.
const minSampleSize = 20

// Simulator samples plays from loaded historical distributions. Read-only
// after Load, so safe for concurrent simulations.
type Simulator struct {
	distributions map[string]Distribution
	fgRates       map[int]float64
	workers       int
	maxTrials     int
	loaded        bool
}

// New creates a simulator that splits trial batches across the given number
// of workers and refuses trial counts beyond maxTrials.
func New(workers, maxTrials int) *Simulator {
	if workers < 1 {
		workers = 1
	}
	return &Simulator{
		distributions: map[string]Distribution{},
		fgRates:       map[int]float64{},
		workers:       workers,
		maxTrials:     maxTrials,
	}
}

// DistributionKey builds the lookup key for a situation cell.
func DistributionKey(down int, distanceBucket, fieldZone string) string {
	return fmt.Sprintf("%d_%s_%s", down, distanceBucket, fieldZone)
}

// Load installs play distributions and raw field-goal make rates (keyed by
// kick distance, snap plus end zone). Missing kick distances between the
// observed minimum and maximum are filled by linear interpolation.
func (s *Simulator) Load(distributions map[string]Distribution, fgRates map[int]float64) {
	s.distributions = distributions
	s.fgRates = interpolateFGRates(fgRates)
	s.loaded = true
}

// Loaded reports whether distributions have been installed.
func (s *Simulator) Loaded() bool {
	return s.loaded
}

type playResult struct {
	yards     int
	firstDown bool
	touchdown bool
	turnover  bool
}

// genericYards backstops situations with no usable historical cell at all.
var genericYards = []int{0, 1, 2, 3, 4, 5, -2, 8, 10}

func (s *Simulator) samplePlay(rng *rand.Rand, down, distance, fieldPos int) playResult {
	key := DistributionKey(down, situation.DistanceBucket(distance), situation.FieldZone(fieldPos))

	dist, ok := s.distributions[key]
	if !ok || dist.SampleSize < minSampleSize {
		fallback := DistributionKey(down, situation.DistanceBucket(distance), situation.ZoneMidfield)
		dist, ok = s.distributions[fallback]
		if !ok {
			dist = Distribution{Yards: genericYards, TurnoverRate: 0.03, TDRate: 0.03}
		}
	}

	// Turnover is drawn first and short-circuits the play
	if rng.Float64() < dist.TurnoverRate {
		return playResult{turnover: true}
	}

	yards := dist.Yards[rng.Intn(len(dist.Yards))]
	if yards > fieldPos {
		yards = fieldPos
	}

	touchdown := yards >= fieldPos
	firstDown := yards >= distance || touchdown

	return playResult{
		yards:     yards,
		firstDown: firstDown,
		touchdown: touchdown,
	}
}

// FGSuccessRate returns the field-goal make probability for a field
// position. The kick distance is field position plus 17 (snap and end
// zone). Distances outside the observed range use the linear-decay
// fallback, floored at 0.2.
func (s *Simulator) FGSuccessRate(fieldPos int) float64 {
	kickDistance := fieldPos + 17
	if rate, ok := s.fgRates[kickDistance]; ok {
		return rate
	}
	return fallbackFGRate(kickDistance)
}

func fallbackFGRate(kickDistance int) float64 {
	return math.Max(0.2, 1.0-float64(kickDistance-20)*0.015)
}

func interpolateFGRates(observed map[int]float64) map[int]float64 {
	rates := make(map[int]float64, len(observed))
	minDist, maxDist := 0, 0
	for d, r := range observed {
		rates[d] = r
		if minDist == 0 || d < minDist {
			minDist = d
		}
		if d > maxDist {
			maxDist = d
		}
	}
	if len(rates) < 2 {
		return rates
	}

	for d := minDist + 1; d < maxDist; d++ {
		if _, ok := rates[d]; ok {
			continue
		}
		lower, upper := d, d
		for ; ; lower-- {
			if _, ok := rates[lower]; ok {
				break
			}
		}
		for ; ; upper++ {
			if _, ok := rates[upper]; ok {
				break
			}
		}
		ratio := float64(d-lower) / float64(upper-lower)
		rates[d] = rates[lower]*(1-ratio) + rates[upper]*ratio
	}

	return rates
}
