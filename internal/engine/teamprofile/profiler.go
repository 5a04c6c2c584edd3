// Package teamprofile manages team identity profiles: per-team deviation
// from league average in tendencies and effectiveness. Profiles feed the
// EPA comparator's team adjustments and answer profile/tendency queries.
package teamprofile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"playcall/domain/profile"
	"playcall/internal/errors"
)

// Profiler holds all team profiles and league averages, keyed by
// team_season. Read-only after load.
type Profiler struct {
	Profiles       map[string]*profile.TeamProfile   `json:"profiles"`
	LeagueAverages map[string]profile.LeagueAverages `json:"league_averages"`
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{
		Profiles:       map[string]*profile.TeamProfile{},
		LeagueAverages: map[string]profile.LeagueAverages{},
	}
}

func profileKey(team string, season int) string {
	return fmt.Sprintf("%s_%d", team, season)
}

// SituationKey builds the situational-cell key, e.g. "down3_short".
func SituationKey(down int, distanceBucket string) string {
	return fmt.Sprintf("down%d_%s", down, distanceBucket)
}

// Put stores a built profile. Training-time only.
func (p *Profiler) Put(tp *profile.TeamProfile) {
	p.Profiles[profileKey(tp.Team, tp.Season)] = tp
}

// PutLeague stores league averages for a season. Training-time only.
func (p *Profiler) PutLeague(la profile.LeagueAverages) {
	p.LeagueAverages[strconv.Itoa(la.Season)] = la
}

// GetProfile returns a team's profile for a season, or nil.
func (p *Profiler) GetProfile(team string, season int) *profile.TeamProfile {
	return p.Profiles[profileKey(team, season)]
}

// League returns the league averages for a season.
func (p *Profiler) League(season int) (profile.LeagueAverages, bool) {
	la, ok := p.LeagueAverages[strconv.Itoa(season)]
	return la, ok
}

// AvailableTeams lists the distinct teams with any profile, sorted.
func (p *Profiler) AvailableTeams() []string {
	seen := map[string]bool{}
	for key := range p.Profiles {
		if i := strings.LastIndex(key, "_"); i > 0 {
			seen[key[:i]] = true
		}
	}
	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// TeamAdjustments returns the comparator inputs for a team: pass and rush
// EPA relative to the team's own overall EPA per play. Zero when the team
// has no profile.
func (p *Profiler) TeamAdjustments(team string, season int) (passAdj, runAdj float64) {
	tp := p.GetProfile(team, season)
	if tp == nil {
		return 0, 0
	}
	return tp.Overall.PassEPA - tp.Overall.EPAPerPlay,
		tp.Overall.RushEPA - tp.Overall.EPAPerPlay
}

// Comparison is a side-by-side view of two teams.
type Comparison struct {
	Teams        [2]string              `json:"teams"`
	Season       int                    `json:"season"`
	Offense      map[string][2]float64  `json:"offense"`
	Defense      map[string][2]float64  `json:"defense"`
	MatchupNotes []string               `json:"matchup_notes"`
}

// CompareTeams builds a comparison for two teams. Both profiles must exist;
// the error names exactly which team(s) are missing.
func (p *Profiler) CompareTeams(team1, team2 string, season int) (*Comparison, error) {
	p1 := p.GetProfile(team1, season)
	p2 := p.GetProfile(team2, season)

	if p1 == nil || p2 == nil {
		missing := []string{}
		if p1 == nil {
			missing = append(missing, team1)
		}
		if p2 == nil {
			missing = append(missing, team2)
		}
		available := p.AvailableTeams()
		if len(available) > 10 {
			available = available[:10]
		}
		return nil, errors.NotFound(fmt.Sprintf(
			"profile for: %s (available teams include: %s)",
			strings.Join(missing, ", "), strings.Join(available, ", ")))
	}

	cmp := &Comparison{
		Teams:  [2]string{team1, team2},
		Season: season,
		Offense: map[string][2]float64{
			"epa_per_play": {p1.Overall.EPAPerPlay, p2.Overall.EPAPerPlay},
			"pass_rate":    {p1.Overall.PassRate, p2.Overall.PassRate},
			"success_rate": {p1.Overall.SuccessRate, p2.Overall.SuccessRate},
		},
		Defense: map[string][2]float64{
			"epa_per_play": {p1.Defense.EPAPerPlay, p2.Defense.EPAPerPlay},
		},
		MatchupNotes: []string{},
	}

	if p1.Overall.PassEPA > 0.1 && p2.Defense.PassEPA > 0 {
		cmp.MatchupNotes = append(cmp.MatchupNotes,
			fmt.Sprintf("%s's strong passing attack vs %s's weak pass defense", team1, team2))
	}
	if p1.Overall.RushEPA > 0.05 && p2.Defense.RushEPA > 0 {
		cmp.MatchupNotes = append(cmp.MatchupNotes,
			fmt.Sprintf("%s's effective run game vs %s's poor run defense", team1, team2))
	}
	if p2.Overall.PassEPA > 0.1 && p1.Defense.PassEPA > 0 {
		cmp.MatchupNotes = append(cmp.MatchupNotes,
			fmt.Sprintf("%s's strong passing attack vs %s's weak pass defense", team2, team1))
	}

	return cmp, nil
}

// Recommendation is a team-specific read on one situation cell.
type Recommendation struct {
	Team             string  `json:"team"`
	Situation        string  `json:"situation"`
	Tendency         string  `json:"tendency"`
	TeamPassRate     float64 `json:"team_pass_rate,omitempty"`
	PassRateVsLeague float64 `json:"pass_rate_vs_league,omitempty"`
	EPAVsLeague      float64 `json:"epa_vs_league,omitempty"`
	SampleSize       int     `json:"sample_size,omitempty"`
	Note             string  `json:"note"`
}

// SituationalRecommendation reports whether a team's deviation in a
// situation cell is working for it.
func (p *Profiler) SituationalRecommendation(team string, season, down int, distanceBucket string) (*Recommendation, error) {
	tp := p.GetProfile(team, season)
	if tp == nil {
		return nil, errors.NotFound(fmt.Sprintf("profile for %s in %d", team, season))
	}

	key := SituationKey(down, distanceBucket)
	sit, ok := tp.Situational[key]
	if !ok {
		return &Recommendation{
			Team:      team,
			Situation: key,
			Tendency:  "neutral",
			Note:      "Insufficient data for this situation",
		}, nil
	}

	passDiff := sit.PassRateVsLeague
	epaDiff := sit.EPAVsLeague

	var tendency, note string
	switch {
	case passDiff > 0.1 && epaDiff > 0:
		tendency = "pass_heavy_effective"
		note = fmt.Sprintf("%s passes more than average here (+%.0f%%) and it's working (+%.2f EPA)", team, passDiff*100, epaDiff)
	case passDiff > 0.1 && epaDiff < 0:
		tendency = "pass_heavy_ineffective"
		note = fmt.Sprintf("%s passes more than average here (+%.0f%%) but it's not working (%.2f EPA)", team, passDiff*100, epaDiff)
	case passDiff < -0.1 && epaDiff > 0:
		tendency = "run_heavy_effective"
		note = fmt.Sprintf("%s runs more than average here (%.0f%% pass rate vs league) and it's working", team, passDiff*100)
	case passDiff < -0.1 && epaDiff < 0:
		tendency = "run_heavy_ineffective"
		note = fmt.Sprintf("%s runs more than average here but it's not working", team)
	default:
		tendency = "balanced"
		note = fmt.Sprintf("%s is close to league average in this situation", team)
	}

	return &Recommendation{
		Team:             team,
		Situation:        key,
		Tendency:         tendency,
		TeamPassRate:     sit.TeamPassRate,
		PassRateVsLeague: sit.PassRateVsLeague,
		EPAVsLeague:      sit.EPAVsLeague,
		SampleSize:       sit.SampleSize,
		Note:             note,
	}, nil
}

// Save writes all profiles to a JSON file.
func (p *Profiler) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode team profiles")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write team profiles")
	}
	return nil
}

// Load reads profiles from a JSON file.
func Load(path string) (*Profiler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactNotLoaded("team profiles", err)
	}
	var p Profiler
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.ArtifactNotLoaded("team profiles", err)
	}
	if p.Profiles == nil {
		p.Profiles = map[string]*profile.TeamProfile{}
	}
	if p.LeagueAverages == nil {
		p.LeagueAverages = map[string]profile.LeagueAverages{}
	}
	return &p, nil
}
