package training

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"playcall/domain/player"
	playerengine "playcall/internal/engine/player"
	"playcall/internal/errors"
	"playcall/ports"
)

// priorVarFloor keeps the shrinkage interval from collapsing when a season's
// player pool happens to be unusually homogeneous.
const priorVarFloor = 0.001

// BuildPlayerModel computes position priors and shrunk per-player estimates
// for every stat role in a season.
func BuildPlayerModel(ctx context.Context, reader ports.TrainingReader, season int) (*playerengine.Model, error) {
	model := playerengine.NewModel(season)

	for _, statType := range []string{player.StatRushing, player.StatPassing, player.StatReceiving} {
		groups, err := reader.PlayerGroups(ctx, statType, season)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			continue
		}

		prior := buildPrior(groups)
		model.Priors[statType] = prior

		priorVar := math.Max(prior.StdEPA*prior.StdEPA, priorVarFloor)

		for _, g := range groups {
			shrunk, lo, hi := playerengine.Shrink(g.RawEPA, g.Attempts, prior.MeanEPA, priorVar, model.ShrinkageK)
			weight := float64(g.Attempts) / (float64(g.Attempts) + model.ShrinkageK)

			model.Estimates[g.PlayerID] = &player.Estimate{
				PlayerID: g.PlayerID,
				StatType: statType,
				Season:   season,
				Raw: player.RawStats{
					EPAPerPlay:   g.RawEPA,
					YardsPerPlay: g.RawYards,
					SuccessRate:  g.RawSuccess,
					Attempts:     g.Attempts,
				},
				Shrunk: player.ShrunkStats{
					EPAPerPlay:  shrunk,
					EPACILower:  lo,
					EPACIUpper:  hi,
					SuccessRate: weight*g.RawSuccess + (1-weight)*prior.SuccessRate,
				},
				ShrinkageApplied: 1 - weight,
			}
		}
	}

	if len(model.Estimates) == 0 {
		return nil, errors.NotFound("player data for season")
	}
	return model, nil
}

// buildPrior derives the shrinkage target for one stat role. The mean is
// attempt-weighted so high-volume players anchor it; the spread is the
// unweighted dispersion of player means, which is what shrinkage needs to
// know about the talent distribution.
func buildPrior(groups []ports.PlayerGroupRow) player.Prior {
	epas := make([]float64, len(groups))
	yards := make([]float64, len(groups))
	successes := make([]float64, len(groups))

	var weightedEPA, weightedYards, weightedSuccess float64
	totalAttempts := 0
	for i, g := range groups {
		epas[i] = g.RawEPA
		yards[i] = g.RawYards
		successes[i] = g.RawSuccess
		weightedEPA += g.RawEPA * float64(g.Attempts)
		weightedYards += g.RawYards * float64(g.Attempts)
		weightedSuccess += g.RawSuccess * float64(g.Attempts)
		totalAttempts += g.Attempts
	}

	stdEPA, err := stats.StandardDeviationSample(epas)
	if err != nil {
		// A single player gives no sample spread; fall back to the floor.
		stdEPA = math.Sqrt(priorVarFloor)
	}

	return player.Prior{
		MeanEPA:     weightedEPA / float64(totalAttempts),
		StdEPA:      stdEPA,
		MeanYards:   weightedYards / float64(totalAttempts),
		SuccessRate: weightedSuccess / float64(totalAttempts),
		TotalPlays:  totalAttempts,
	}
}
