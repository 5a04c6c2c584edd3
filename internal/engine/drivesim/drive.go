package drivesim

import (
	"math/rand"

	"playcall/domain/decision"
)

// maxPlaysPerDrive stops runaway drives; hitting it counts as end of half.
const maxPlaysPerDrive = 20

// SimulateDrive plays out one drive from a starting state and returns its
// terminal outcome and the points scored.
//
// The 4th-down policy applied here is the in-simulation heuristic for
// *future* downs, deliberately separate from the top-level decision being
// evaluated by SimulateDecision. Collapsing the two would make the
// evaluation circular.
func (s *Simulator) SimulateDrive(rng *rand.Rand, startDown, startDistance, startFieldPos int) (decision.DriveOutcome, float64) {
	return s.runDrive(rng, startDown, startDistance, startFieldPos, false)
}

// runDrive is the drive loop. With forceFirstPlay set, the opening snap is
// always run from scrimmage even on 4th down; SimulateDecision uses this so
// the go-for-it branch actually goes for it.
func (s *Simulator) runDrive(rng *rand.Rand, startDown, startDistance, startFieldPos int, forceFirstPlay bool) (decision.DriveOutcome, float64) {
	down := startDown
	distance := startDistance
	fieldPos := startFieldPos

	for play := 0; play < maxPlaysPerDrive; play++ {
		if down == 4 && !(forceFirstPlay && play == 0) {
			fgRate := s.FGSuccessRate(fieldPos)
			switch {
			case fieldPos <= 2:
				// Goal line: go for it
			case fieldPos <= 35 && fgRate > 0.5:
				if rng.Float64() < fgRate {
					return decision.OutcomeFieldGoal, 3.0
				}
				return decision.OutcomeTurnoverOnDowns, 0.0
			case distance <= 3 && fieldPos <= 50:
				// Short yardage in range: go for it
			default:
				return decision.OutcomePunt, 0.0
			}
		}

		result := s.samplePlay(rng, down, distance, fieldPos)

		if result.turnover {
			return decision.OutcomeTurnover, 0.0
		}
		if result.touchdown {
			// Assume the extra point
			return decision.OutcomeTouchdown, 7.0
		}

		fieldPos -= result.yards
		if fieldPos < 1 {
			fieldPos = 1
		}

		if result.firstDown {
			down = 1
			distance = 10
			if fieldPos < 10 {
				distance = fieldPos
			}
		} else {
			down++
			distance -= result.yards
			if distance < 1 {
				distance = 1
			}
		}

		if down > 4 {
			return decision.OutcomeTurnoverOnDowns, 0.0
		}
	}

	return decision.OutcomeEndOfHalf, 0.0
}
