package drivesim

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"playcall/domain/decision"
	"playcall/internal/errors"
)

// Field goals beyond this field position are excluded from the decision via
// sentinel, so "field_goal" can never be recommended past it.
const maxFGFieldPosition = 45

// excluded marks an unavailable option in the arg-max.
const excluded = -999.0

// tally accumulates one worker's trial outcomes.
type tally struct {
	touchdowns  int
	fieldGoals  int
	other       int
	totalPoints float64
}

// runTrials fans nTrials out across the worker pool, each worker with its
// own RNG. Trials touch only local state, so this is safe parallelism.
func (s *Simulator) runTrials(nTrials int, trial func(rng *rand.Rand) (decision.DriveOutcome, float64)) tally {
	workers := s.workers
	if workers > nTrials {
		workers = 1
	}

	tallies := make([]tally, workers)
	seed := time.Now().UnixNano()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		chunk := nTrials / workers
		if w == workers-1 {
			chunk = nTrials - chunk*(workers-1)
		}
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w)*7919))
			t := &tallies[w]
			for i := 0; i < chunk; i++ {
				outcome, points := trial(rng)
				switch outcome {
				case decision.OutcomeTouchdown:
					t.touchdowns++
				case decision.OutcomeFieldGoal:
					t.fieldGoals++
				default:
					t.other++
				}
				t.totalPoints += points
			}
			return nil
		})
	}
	g.Wait()

	total := tally{}
	for _, t := range tallies {
		total.touchdowns += t.touchdowns
		total.fieldGoals += t.fieldGoals
		total.other += t.other
		total.totalPoints += t.totalPoints
	}
	return total
}

// SimulateDecision evaluates go-for-it vs field goal vs punt from a 4th-down
// (or any) state. Go-for-it expected points come from full-drive simulation;
// the field goal is success probability times three; the punt is a fixed
// zero, a known simplification that ignores opponent field position. Punting
// is only on the table on 4th down; earlier downs exclude it from the
// arg-max the same way an out-of-range field goal is excluded.
func (s *Simulator) SimulateDecision(down, distance, fieldPos, nSims int) (*decision.Result, error) {
	if !s.loaded {
		return nil, errors.ArtifactNotLoaded("play distributions", nil)
	}
	if nSims <= 0 {
		return nil, errors.InvalidInput("simulation count must be positive")
	}
	if s.maxTrials > 0 && nSims > s.maxTrials {
		nSims = s.maxTrials
	}

	fgRate := s.FGSuccessRate(fieldPos)

	goTally := s.runTrials(nSims, func(rng *rand.Rand) (decision.DriveOutcome, float64) {
		return s.runDrive(rng, down, distance, fieldPos, true)
	})

	goEP := goTally.totalPoints / float64(nSims)
	fgEP := fgRate * 3.0
	puntEP := 0.0

	options := map[string]float64{
		"go_for_it": goEP,
	}
	if down == 4 {
		options["punt"] = puntEP
	} else {
		options["punt"] = excluded
	}
	if fieldPos <= maxFGFieldPosition {
		options["field_goal"] = fgEP
	} else {
		options["field_goal"] = excluded
	}

	recommendation, best, secondBest := argmax(options)
	confidence := math.Min(0.95, math.Max(0.5, 0.5+(best-secondBest)/3.0))

	return &decision.Result{
		Down:          down,
		Distance:      distance,
		FieldPosition: fieldPos,
		FGDistance:    fieldPos + 17,
		Simulations:   nSims,
		GoForIt: decision.GoForItOption{
			ExpectedPoints:      round3(goEP),
			TDProbability:       round3(float64(goTally.touchdowns) / float64(nSims)),
			FGProbability:       round3(float64(goTally.fieldGoals) / float64(nSims)),
			TurnoverProbability: round3(float64(goTally.other) / float64(nSims)),
		},
		FieldGoal: decision.FieldGoalOption{
			ExpectedPoints:     round3(fgEP),
			SuccessProbability: round3(fgRate),
		},
		Punt: decision.PuntOption{
			ExpectedPoints: puntEP,
		},
		Recommendation:     recommendation,
		Confidence:         round3(confidence),
		ExpectedPointsDiff: round3(best - secondBest),
	}, nil
}

// SimulateScenario starts fresh 1st-and-10 drives (1st-and-goal inside the
// 10) from a field position and reports the outcome distribution. Used to
// build expected-points curves.
func (s *Simulator) SimulateScenario(fieldPos, nSims int) (*decision.ScenarioResult, error) {
	if !s.loaded {
		return nil, errors.ArtifactNotLoaded("play distributions", nil)
	}
	if fieldPos < 1 || fieldPos > 99 {
		return nil, errors.InvalidInput("field position must be between 1 and 99")
	}
	if nSims <= 0 {
		return nil, errors.InvalidInput("simulation count must be positive")
	}
	if s.maxTrials > 0 && nSims > s.maxTrials {
		nSims = s.maxTrials
	}

	distance := 10
	if fieldPos < 10 {
		distance = fieldPos
	}

	t := s.runTrials(nSims, func(rng *rand.Rand) (decision.DriveOutcome, float64) {
		return s.SimulateDrive(rng, 1, distance, fieldPos)
	})

	return &decision.ScenarioResult{
		StartingFieldPosition: fieldPos,
		Simulations:           nSims,
		ExpectedPoints:        round3(t.totalPoints / float64(nSims)),
		TDProbability:         round3(float64(t.touchdowns) / float64(nSims)),
		FGProbability:         round3(float64(t.fieldGoals) / float64(nSims)),
		NoScoreProbability:    round3(float64(t.other) / float64(nSims)),
	}, nil
}

// BuildEPTable estimates expected points for every field position 1-99.
func (s *Simulator) BuildEPTable(nSimsPerPosition int) ([]decision.ScenarioResult, error) {
	results := make([]decision.ScenarioResult, 0, 99)
	for fieldPos := 1; fieldPos < 100; fieldPos++ {
		r, err := s.SimulateScenario(fieldPos, nSimsPerPosition)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func argmax(options map[string]float64) (name string, best, secondBest float64) {
	type option struct {
		name  string
		value float64
	}
	sorted := make([]option, 0, len(options))
	for n, v := range options {
		sorted = append(sorted, option{n, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].value != sorted[j].value {
			return sorted[i].value > sorted[j].value
		}
		return sorted[i].name < sorted[j].name
	})
	return sorted[0].name, sorted[0].value, sorted[1].value
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
