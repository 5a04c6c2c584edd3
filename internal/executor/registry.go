// Package executor dispatches typed routes to their analysis pipelines and
// wraps every result in a uniform response envelope.
package executor

import (
	"context"
	"path/filepath"
	"sync"

	"playcall/internal"
	"playcall/internal/config"
	"playcall/internal/engine/drivesim"
	"playcall/internal/engine/epa"
	"playcall/internal/engine/player"
	"playcall/internal/engine/teamprofile"
	"playcall/ports"
)

// Artifact file names under the model directory. The training command writes
// these; the registry reads them.
const (
	epaModelFile     = "epa_model.json"
	teamProfilesFile = "team_profiles.json"
	playerModelFile  = "player_estimates.json"
)

// Registry lazily loads trained artifacts on first use and caches them for
// the life of the process. Each artifact loads at most once, even under
// concurrent first requests.
type Registry struct {
	cfg    *config.Config
	reader ports.AggregateReader
	logger *internal.Logger

	epaOnce  sync.Once
	epaModel *epa.Model
	epaErr   error

	profilerOnce sync.Once
	profiler     *teamprofile.Profiler
	profilerErr  error

	playersOnce sync.Once
	players     *player.Model
	playersErr  error

	simOnce sync.Once
	sim     *drivesim.Simulator
	simErr  error
}

// NewRegistry creates a registry. Nothing is loaded until a pipeline asks.
func NewRegistry(cfg *config.Config, reader ports.AggregateReader, logger *internal.Logger) *Registry {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Registry{cfg: cfg, reader: reader, logger: logger}
}

func (r *Registry) modelPath(name string) string {
	return filepath.Join(r.cfg.Models.Dir, name)
}

// EPAModel returns the trained EPA regression, loading it on first call.
func (r *Registry) EPAModel() (*epa.Model, error) {
	r.epaOnce.Do(func() {
		r.epaModel, r.epaErr = epa.Load(r.modelPath(epaModelFile))
		if r.epaErr == nil {
			r.logger.Info("Loaded EPA model (%d coefficients)", len(r.epaModel.Coefficients))
		}
	})
	return r.epaModel, r.epaErr
}

// Profiler returns the team profiles, loading them on first call.
func (r *Registry) Profiler() (*teamprofile.Profiler, error) {
	r.profilerOnce.Do(func() {
		r.profiler, r.profilerErr = teamprofile.Load(r.modelPath(teamProfilesFile))
		if r.profilerErr == nil {
			r.logger.Info("Loaded team profiles (%d entries)", len(r.profiler.Profiles))
		}
	})
	return r.profiler, r.profilerErr
}

// PlayerModel returns the shrunk player estimates, loading them on first call.
func (r *Registry) PlayerModel() (*player.Model, error) {
	r.playersOnce.Do(func() {
		r.players, r.playersErr = player.Load(r.modelPath(playerModelFile))
		if r.playersErr == nil {
			r.logger.Info("Loaded player estimates (%d players)", len(r.players.Estimates))
		}
	})
	return r.players, r.playersErr
}

// Simulator returns the drive simulator, building its distributions from the
// play store on first call. Uses the three most recent seasons ending at the
// configured default.
func (r *Registry) Simulator(ctx context.Context) (*drivesim.Simulator, error) {
	r.simOnce.Do(func() {
		seasons := recentSeasons(r.cfg.Models.DefaultSeason, 3)

		cells, err := r.reader.PlayOutcomes(ctx, seasons)
		if err != nil {
			r.simErr = err
			return
		}
		fgRates, err := r.reader.FGRates(ctx, seasons)
		if err != nil {
			r.simErr = err
			return
		}

		distributions := make(map[string]drivesim.Distribution, len(cells))
		for _, cell := range cells {
			key := drivesim.DistributionKey(cell.Down, cell.DistanceBucket, cell.FieldZone)
			distributions[key] = drivesim.Distribution{
				Yards:         cell.Yards,
				FirstDownRate: cell.FirstDownRate,
				TDRate:        cell.TDRate,
				TurnoverRate:  cell.TurnoverRate,
				SampleSize:    cell.SampleSize,
			}
		}

		sim := drivesim.New(r.cfg.Simulation.Workers, r.cfg.Simulation.MaxTrials)
		sim.Load(distributions, fgRates)
		r.sim = sim
		r.logger.Info("Loaded play distributions (%d cells, %d FG distances)", len(distributions), len(fgRates))
	})
	return r.sim, r.simErr
}

func recentSeasons(latest, n int) []int {
	seasons := make([]int, 0, n)
	for s := latest - n + 1; s <= latest; s++ {
		seasons = append(seasons, s)
	}
	return seasons
}
