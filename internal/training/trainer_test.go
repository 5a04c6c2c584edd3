package training

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"playcall/internal/config"
	playerengine "playcall/internal/engine/player"
	"playcall/ports"
)

// Mock implementations for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Teams(ctx context.Context, season int) ([]string, error) {
	args := m.Called(ctx, season)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) LeagueOverall(ctx context.Context, season int) (ports.TeamOverallRow, error) {
	args := m.Called(ctx, season)
	return args.Get(0).(ports.TeamOverallRow), args.Error(1)
}

func (m *MockStore) LeagueSituational(ctx context.Context, season int) ([]ports.SituationalRow, error) {
	args := m.Called(ctx, season)
	return args.Get(0).([]ports.SituationalRow), args.Error(1)
}

func (m *MockStore) TeamOverall(ctx context.Context, team string, season int) (ports.TeamOverallRow, error) {
	args := m.Called(ctx, team, season)
	return args.Get(0).(ports.TeamOverallRow), args.Error(1)
}

func (m *MockStore) TeamDefense(ctx context.Context, team string, season int) (ports.TeamDefenseRow, error) {
	args := m.Called(ctx, team, season)
	return args.Get(0).(ports.TeamDefenseRow), args.Error(1)
}

func (m *MockStore) TeamSituational(ctx context.Context, team string, season int) ([]ports.SituationalRow, error) {
	args := m.Called(ctx, team, season)
	return args.Get(0).([]ports.SituationalRow), args.Error(1)
}

func (m *MockStore) PlayerGroups(ctx context.Context, statType string, season int) ([]ports.PlayerGroupRow, error) {
	args := m.Called(ctx, statType, season)
	return args.Get(0).([]ports.PlayerGroupRow), args.Error(1)
}

func (m *MockStore) TrainingPlays(ctx context.Context, seasons []int) ([]ports.TrainingPlay, error) {
	args := m.Called(ctx, seasons)
	return args.Get(0).([]ports.TrainingPlay), args.Error(1)
}

func (m *MockStore) PlayOutcomes(ctx context.Context, seasons []int) ([]ports.OutcomeCell, error) {
	args := m.Called(ctx, seasons)
	return args.Get(0).([]ports.OutcomeCell), args.Error(1)
}

func (m *MockStore) FGRates(ctx context.Context, seasons []int) (map[int]float64, error) {
	args := m.Called(ctx, seasons)
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockStore) CountingLeaders(ctx context.Context, sel ports.CountingStat) ([]ports.PlayerSeasonRow, error) {
	args := m.Called(ctx, sel)
	return args.Get(0).([]ports.PlayerSeasonRow), args.Error(1)
}

func (m *MockStore) PlayerNames(ctx context.Context, playerIDs []string) (map[string]ports.PlayerInfo, error) {
	args := m.Called(ctx, playerIDs)
	return args.Get(0).(map[string]ports.PlayerInfo), args.Error(1)
}

func trainerPlays(n int) []ports.TrainingPlay {
	plays := make([]ports.TrainingPlay, n)
	for i := range plays {
		down := i%4 + 1
		shotgun := i % 2
		plays[i] = ports.TrainingPlay{
			Down:                 down,
			Distance:             i%12 + 1,
			FieldPosition:        i%90 + 5,
			Quarter:              i%4 + 1,
			ScoreDiff:            i%21 - 10,
			Shotgun:              shotgun,
			NoHuddle:             0,
			HalfSecondsRemaining: 1800 - i*3,
			IsHome:               i % 2,
			EPA:                  0.02 + 0.05*float64(shotgun) - 0.03*float64(down),
		}
	}
	return plays
}

// TestTrainerRunWritesArtifacts verifies a full training run writes all
// three serving artifacts and labels player estimates from the name lookup.
func TestTrainerRunWritesArtifacts(t *testing.T) {
	store := new(MockStore)
	store.On("LeagueOverall", mock.Anything, 2025).Return(ports.TeamOverallRow{
		PassRate: 0.58, EPAPerPlay: 0.0, SuccessRate: 0.44,
		ShotgunRate: 0.65, PassEPA: 0.05, RushEPA: -0.05, TotalPlays: 30000,
	}, nil)
	store.On("LeagueSituational", mock.Anything, 2025).Return([]ports.SituationalRow{
		{Down: 3, DistanceBucket: "short", PassRate: 0.55, EPAPerPlay: 0.02, SuccessRate: 0.5, SampleSize: 900},
	}, nil)
	store.On("Teams", mock.Anything, 2025).Return([]string{"KC"}, nil)
	store.On("TeamOverall", mock.Anything, "KC", 2025).Return(ports.TeamOverallRow{
		PassRate: 0.63, EPAPerPlay: 0.08, SuccessRate: 0.49,
		ShotgunRate: 0.7, PassEPA: 0.15, RushEPA: 0.01, TotalPlays: 1050,
	}, nil)
	store.On("TeamDefense", mock.Anything, "KC", 2025).Return(ports.TeamDefenseRow{
		EPAPerPlay: -0.03, SuccessRate: 0.42, Plays: 1010,
	}, nil)
	store.On("TeamSituational", mock.Anything, "KC", 2025).Return([]ports.SituationalRow{
		{Down: 3, DistanceBucket: "short", PassRate: 0.7, EPAPerPlay: 0.12, SuccessRate: 0.58, SampleSize: 40},
	}, nil)
	store.On("PlayerGroups", mock.Anything, "rushing", 2025).Return([]ports.PlayerGroupRow{
		{PlayerID: "rb1", RawEPA: 0.10, RawYards: 4.8, RawSuccess: 0.46, Attempts: 250},
		{PlayerID: "rb2", RawEPA: 0.02, RawYards: 4.1, RawSuccess: 0.41, Attempts: 180},
		{PlayerID: "rb3", RawEPA: -0.04, RawYards: 3.6, RawSuccess: 0.37, Attempts: 120},
	}, nil)
	store.On("PlayerGroups", mock.Anything, "passing", 2025).Return([]ports.PlayerGroupRow{}, nil)
	store.On("PlayerGroups", mock.Anything, "receiving", 2025).Return([]ports.PlayerGroupRow{}, nil)
	store.On("PlayerNames", mock.Anything, mock.Anything).Return(map[string]ports.PlayerInfo{
		"rb1": {PlayerID: "rb1", PlayerName: "Back One", Position: "RB", Team: "KC"},
	}, nil)
	store.On("TrainingPlays", mock.Anything, []int{2023, 2024, 2025}).Return(trainerPlays(150), nil)

	dir := filepath.Join(t.TempDir(), "models")
	cfg := &config.Config{
		Models: config.ModelConfig{Dir: dir, DefaultSeason: 2025},
	}

	err := NewTrainer(cfg, store, nil).Run(context.Background())
	assert.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "team_profiles.json"))
	assert.FileExists(t, filepath.Join(dir, "player_estimates.json"))
	assert.FileExists(t, filepath.Join(dir, "epa_model.json"))

	model, err := playerengine.Load(filepath.Join(dir, "player_estimates.json"))
	assert.NoError(t, err)
	if assert.Contains(t, model.Estimates, "rb1") {
		assert.Equal(t, "Back One", model.Estimates["rb1"].PlayerName)
		assert.Equal(t, "KC", model.Estimates["rb1"].Team)
	}
	store.AssertExpectations(t)
}

// TestTrainerRunFailsWithoutData verifies an empty season aborts the run
// before any artifact is written.
func TestTrainerRunFailsWithoutData(t *testing.T) {
	store := new(MockStore)
	store.On("LeagueOverall", mock.Anything, 2025).Return(ports.TeamOverallRow{}, nil)

	dir := filepath.Join(t.TempDir(), "models")
	cfg := &config.Config{
		Models: config.ModelConfig{Dir: dir, DefaultSeason: 2025},
	}

	err := NewTrainer(cfg, store, nil).Run(context.Background())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "team_profiles.json"))
}
