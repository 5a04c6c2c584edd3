// Package training builds the serving artifacts from the play-by-play
// store: team profiles, shrunk player estimates, and the EPA regression.
package training

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"playcall/domain/profile"
	"playcall/internal/engine/teamprofile"
	"playcall/internal/errors"
	"playcall/ports"
)

// Deviation thresholds for calling out a strength or weakness.
const (
	epaDevThreshold  = 0.05
	passEPAThreshold = 0.10
	rushEPAThreshold = 0.05
	defEPAThreshold  = 0.05
)

// teamBuildConcurrency caps parallel per-team queries against the store.
const teamBuildConcurrency = 8

// BuildProfiles computes league averages and every team's profile for a
// season. Teams are built concurrently; the store sees at most
// teamBuildConcurrency queries in flight.
func BuildProfiles(ctx context.Context, reader ports.TrainingReader, season int) (*teamprofile.Profiler, error) {
	leagueOverall, err := reader.LeagueOverall(ctx, season)
	if err != nil {
		return nil, err
	}
	if leagueOverall.TotalPlays == 0 {
		return nil, errors.NotFound("play data for season")
	}

	leagueSitRows, err := reader.LeagueSituational(ctx, season)
	if err != nil {
		return nil, err
	}
	leagueSit := make(map[string]profile.LeagueSituational, len(leagueSitRows))
	for _, row := range leagueSitRows {
		leagueSit[teamprofile.SituationKey(row.Down, row.DistanceBucket)] = profile.LeagueSituational{
			PassRate:    row.PassRate,
			EPAPerPlay:  row.EPAPerPlay,
			SuccessRate: row.SuccessRate,
			SampleSize:  row.SampleSize,
		}
	}

	teams, err := reader.Teams(ctx, season)
	if err != nil {
		return nil, err
	}

	profiler := teamprofile.NewProfiler()
	profiler.PutLeague(profile.LeagueAverages{
		Season:      season,
		Overall:     overallStats(leagueOverall),
		Situational: leagueSit,
	})

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(teamBuildConcurrency)

	for _, team := range teams {
		team := team
		g.Go(func() error {
			tp, err := buildTeamProfile(gctx, reader, team, season, leagueOverall, leagueSit)
			if err != nil {
				return err
			}
			mu.Lock()
			profiler.Put(tp)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profiler, nil
}

func buildTeamProfile(ctx context.Context, reader ports.TrainingReader, team string, season int,
	league ports.TeamOverallRow, leagueSit map[string]profile.LeagueSituational) (*profile.TeamProfile, error) {

	overall, err := reader.TeamOverall(ctx, team, season)
	if err != nil {
		return nil, err
	}
	defense, err := reader.TeamDefense(ctx, team, season)
	if err != nil {
		return nil, err
	}
	sitRows, err := reader.TeamSituational(ctx, team, season)
	if err != nil {
		return nil, err
	}

	situational := make(map[string]profile.SituationalStat, len(sitRows))
	for _, row := range sitRows {
		key := teamprofile.SituationKey(row.Down, row.DistanceBucket)
		ls := leagueSit[key]
		situational[key] = profile.SituationalStat{
			PassRateVsLeague:    row.PassRate - ls.PassRate,
			EPAVsLeague:         row.EPAPerPlay - ls.EPAPerPlay,
			SuccessRateVsLeague: row.SuccessRate - ls.SuccessRate,
			TeamPassRate:        row.PassRate,
			TeamEPA:             row.EPAPerPlay,
			SampleSize:          row.SampleSize,
		}
	}

	tp := &profile.TeamProfile{
		Team:    team,
		Season:  season,
		Overall: overallStats(overall),
		Defense: profile.DefenseStats{
			EPAPerPlay:  defense.EPAPerPlay,
			SuccessRate: defense.SuccessRate,
			PassEPA:     defense.PassEPA,
			RushEPA:     defense.RushEPA,
		},
		Deviations: profile.Deviations{
			PassRate:      overall.PassRate - league.PassRate,
			EPAPerPlay:    overall.EPAPerPlay - league.EPAPerPlay,
			SuccessRate:   overall.SuccessRate - league.SuccessRate,
			ShotgunRate:   overall.ShotgunRate - league.ShotgunRate,
			ExplosiveRate: overall.ExplosiveRate - league.ExplosiveRate,
		},
		Situational: situational,
	}
	tp.Strengths, tp.Weaknesses = assessIdentity(tp)

	return tp, nil
}

func overallStats(row ports.TeamOverallRow) profile.OverallStats {
	return profile.OverallStats{
		PassRate:      row.PassRate,
		EPAPerPlay:    row.EPAPerPlay,
		SuccessRate:   row.SuccessRate,
		ShotgunRate:   row.ShotgunRate,
		NoHuddleRate:  row.NoHuddleRate,
		ExplosiveRate: row.ExplosiveRate,
		PassEPA:       row.PassEPA,
		RushEPA:       row.RushEPA,
		TotalPlays:    row.TotalPlays,
	}
}

// assessIdentity derives the plain-language strengths and weaknesses shown
// in profile responses.
func assessIdentity(tp *profile.TeamProfile) (strengths, weaknesses []string) {
	strengths = []string{}
	weaknesses = []string{}

	if tp.Deviations.EPAPerPlay > epaDevThreshold {
		strengths = append(strengths, "efficient offense overall")
	} else if tp.Deviations.EPAPerPlay < -epaDevThreshold {
		weaknesses = append(weaknesses, "inefficient offense overall")
	}

	if tp.Overall.PassEPA > passEPAThreshold {
		strengths = append(strengths, "explosive passing attack")
	}
	if tp.Overall.RushEPA > rushEPAThreshold {
		strengths = append(strengths, "effective run game")
	} else if tp.Overall.RushEPA < -rushEPAThreshold {
		weaknesses = append(weaknesses, "struggling run game")
	}

	// Defensive EPA is from the opposing offense's view; negative is good.
	if tp.Defense.EPAPerPlay < -defEPAThreshold {
		strengths = append(strengths, "stout defense")
	} else if tp.Defense.EPAPerPlay > defEPAThreshold {
		weaknesses = append(weaknesses, "leaky defense")
	}

	return strengths, weaknesses
}
