package training

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"playcall/domain/situation"
	"playcall/internal/engine/epa"
	"playcall/internal/errors"
	"playcall/ports"
)

// DefaultRidgeLambda is the L2 penalty on the regression coefficients. Small
// relative to the sample sizes involved; it exists to keep the correlated
// down/distance features from trading coefficient mass.
const DefaultRidgeLambda = 1.0

// minTrainingSamples guards against fitting on a trivially small extract.
const minTrainingSamples = 100

// FitEPAModel fits the ridge regression over engineered play features.
// Solves the normal equations (X'X + lambda*I) b = X'y directly; the
// intercept column is not penalized.
func FitEPAModel(ctx context.Context, reader ports.TrainingReader, seasons []int) (*epa.Model, error) {
	plays, err := reader.TrainingPlays(ctx, seasons)
	if err != nil {
		return nil, err
	}
	return fitRidge(plays, seasons, DefaultRidgeLambda)
}

func fitRidge(plays []ports.TrainingPlay, seasons []int, lambda float64) (*epa.Model, error) {
	n := len(plays)
	if n < minTrainingSamples {
		return nil, errors.InvalidInput("not enough plays to fit the EPA model")
	}

	p := len(epa.FeatureNames) + 1 // intercept column first

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, play := range plays {
		features := epa.EngineerFeatures(trainingInput(play))
		x.Set(i, 0, 1)
		for j, name := range epa.FeatureNames {
			x.Set(i, j+1, features[name])
		}
		y.SetVec(i, play.EPA)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, errors.Wrap(err, "ridge system is singular")
	}

	model := &epa.Model{
		Intercept:    beta.AtVec(0),
		Coefficients: make(map[string]float64, len(epa.FeatureNames)),
		TrainSeasons: seasons,
		NSamples:     n,
	}
	for j, name := range epa.FeatureNames {
		model.Coefficients[name] = beta.AtVec(j + 1)
	}

	var sse float64
	for _, play := range plays {
		pred := model.Predict(epa.EngineerFeatures(trainingInput(play)))
		sse += (pred - play.EPA) * (pred - play.EPA)
	}
	model.TrainRMSE = math.Sqrt(sse / float64(n))

	return model, nil
}

func trainingInput(play ports.TrainingPlay) epa.PlayInput {
	return epa.PlayInput{
		Situation: situation.Situation{
			Down:          play.Down,
			Distance:      play.Distance,
			FieldPosition: play.FieldPosition,
			Quarter:       play.Quarter,
			ScoreDiff:     play.ScoreDiff,
		},
		Shotgun:              play.Shotgun,
		NoHuddle:             play.NoHuddle,
		HalfSecondsRemaining: play.HalfSecondsRemaining,
		IsHome:               play.IsHome,
	}
}
