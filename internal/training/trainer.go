package training

import (
	"context"
	"os"
	"path/filepath"

	"playcall/internal"
	"playcall/internal/config"
	playerengine "playcall/internal/engine/player"
	"playcall/internal/errors"
	"playcall/ports"
)

// Store is the data access the trainer needs: training aggregates plus the
// name lookup used to label player estimates.
type Store interface {
	ports.TrainingReader
	ports.AggregateReader
}

// Trainer runs the full training pipeline and writes the serving artifacts.
type Trainer struct {
	cfg    *config.Config
	store  Store
	logger *internal.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg *config.Config, store Store, logger *internal.Logger) *Trainer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Trainer{cfg: cfg, store: store, logger: logger}
}

// Run trains everything for the configured season and writes the artifacts
// under the model directory. The EPA regression trains over the three most
// recent seasons; profiles and player estimates use the target season alone.
func (t *Trainer) Run(ctx context.Context) error {
	season := t.cfg.Models.DefaultSeason
	if err := os.MkdirAll(t.cfg.Models.Dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create model directory")
	}

	t.logger.Info("Building team profiles for %d", season)
	profiler, err := BuildProfiles(ctx, t.store, season)
	if err != nil {
		return errors.Wrap(err, "team profile training failed")
	}
	if err := profiler.Save(filepath.Join(t.cfg.Models.Dir, "team_profiles.json")); err != nil {
		return err
	}
	t.logger.Info("Wrote %d team profiles", len(profiler.Profiles))

	t.logger.Info("Building player estimates for %d", season)
	playerModel, err := BuildPlayerModel(ctx, t.store, season)
	if err != nil {
		return errors.Wrap(err, "player estimate training failed")
	}
	t.labelPlayers(ctx, playerModel)
	if err := playerModel.Save(filepath.Join(t.cfg.Models.Dir, "player_estimates.json")); err != nil {
		return err
	}
	t.logger.Info("Wrote %d player estimates", len(playerModel.Estimates))

	seasons := []int{season - 2, season - 1, season}
	t.logger.Info("Fitting EPA model over seasons %v", seasons)
	epaModel, err := FitEPAModel(ctx, t.store, seasons)
	if err != nil {
		return errors.Wrap(err, "EPA model training failed")
	}
	if err := epaModel.Save(filepath.Join(t.cfg.Models.Dir, "epa_model.json")); err != nil {
		return err
	}
	t.logger.Info("Fit EPA model: %d samples, train RMSE %.4f", epaModel.NSamples, epaModel.TrainRMSE)

	return nil
}

// labelPlayers attaches names and teams to the estimates. Lookup failures
// are logged and skipped; unlabeled estimates are still usable and the
// serving layer backfills names on demand.
func (t *Trainer) labelPlayers(ctx context.Context, model *playerengine.Model) {
	ids := make([]string, 0, len(model.Estimates))
	for id := range model.Estimates {
		ids = append(ids, id)
	}
	names, err := t.store.PlayerNames(ctx, ids)
	if err != nil {
		t.logger.Warn("Player name lookup failed, estimates will be unlabeled: %v", err)
		return
	}
	for id, est := range model.Estimates {
		if info, ok := names[id]; ok {
			est.PlayerName = info.PlayerName
			est.Team = info.Team
		}
	}
}
