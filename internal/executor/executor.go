package executor

import (
	"context"
	"fmt"

	"playcall/domain/route"
	"playcall/domain/situation"
	"playcall/internal"
	"playcall/internal/config"
	"playcall/internal/engine/epa"
	"playcall/internal/engine/teamprofile"
	"playcall/internal/errors"
	"playcall/ports"
)

// Executor runs the pipeline a route selects and shapes the response
// envelope. Every response has the same shape: success, pipeline, and either
// data or error. Pipeline failures are values, never panics that escape.
type Executor struct {
	registry *Registry
	reader   ports.AggregateReader
	cfg      *config.Config
	logger   *internal.Logger
}

// New creates an executor over a registry.
func New(cfg *config.Config, registry *Registry, reader ports.AggregateReader, logger *internal.Logger) *Executor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Executor{registry: registry, reader: reader, cfg: cfg, logger: logger}
}

// Response is the uniform pipeline envelope.
type Response map[string]interface{}

func success(pipeline route.PipelineType, data interface{}) Response {
	return Response{
		"success":  true,
		"pipeline": string(pipeline),
		"data":     data,
	}
}

func failure(pipeline route.PipelineType, err error) Response {
	return Response{
		"success":  false,
		"pipeline": string(pipeline),
		"error":    err.Error(),
		"code":     errors.GetCode(err),
	}
}

// Execute dispatches a route to its pipeline. A panic inside a pipeline is
// recovered at this boundary and reported as an internal error, so one bad
// query cannot take down the process.
func (e *Executor) Execute(ctx context.Context, rt route.Route) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Pipeline %s panicked: %v", rt.Pipeline, r)
			resp = failure(rt.Pipeline, errors.InternalError(fmt.Sprintf("pipeline %s failed unexpectedly", rt.Pipeline)))
		}
	}()

	e.logger.Debug("Executing pipeline %s (tier %d, confidence %.2f)", rt.Pipeline, rt.Tier, rt.Confidence)

	var (
		data interface{}
		err  error
	)

	switch rt.Pipeline {
	case route.TeamProfile:
		data, err = e.teamProfile(rt)
	case route.TeamComparison:
		data, err = e.teamComparison(rt)
	case route.TeamTendencies:
		data, err = e.teamTendencies(rt)
	case route.SituationEPA:
		data, err = e.situationEPA(rt)
	case route.DecisionAnalysis:
		data, err = e.decisionAnalysis(ctx, rt)
	case route.PlayerRankings:
		data, err = e.playerRankings(ctx, rt)
	case route.PlayerComparison:
		data, err = e.playerComparison(ctx, rt)
	case route.DriveSimulation:
		data, err = e.driveSimulation(ctx, rt)
	case route.GeneralQuery:
		data, err = e.generalQuery(rt)
	case route.Unknown:
		err = errors.InvalidInput("could not determine what you're asking; try rephrasing")
	default:
		err = errors.InternalError(fmt.Sprintf("unhandled pipeline: %s", rt.Pipeline))
	}

	if err != nil {
		e.logger.Warn("Pipeline %s failed: %v", rt.Pipeline, err)
		return failure(rt.Pipeline, err)
	}
	return success(rt.Pipeline, data)
}

// season resolves the season to analyze: explicit parameter first, then the
// configured default.
func (e *Executor) season(rt route.Route) int {
	if s, ok := rt.IntParam("season"); ok {
		return s
	}
	return e.cfg.Models.DefaultSeason
}

func requireString(rt route.Route, name string) (string, error) {
	v := rt.StringParam(name)
	if v == "" {
		return "", errors.InvalidInput(fmt.Sprintf("missing required parameter: %s", name))
	}
	return v, nil
}

func requireInt(rt route.Route, name string) (int, error) {
	v, ok := rt.IntParam(name)
	if !ok {
		return 0, errors.InvalidInput(fmt.Sprintf("missing required parameter: %s", name))
	}
	return v, nil
}

func intOrDefault(rt route.Route, name string, def int) int {
	if v, ok := rt.IntParam(name); ok {
		return v
	}
	return def
}

func (e *Executor) teamProfile(rt route.Route) (interface{}, error) {
	team, err := requireString(rt, "team")
	if err != nil {
		return nil, err
	}

	profiler, err := e.registry.Profiler()
	if err != nil {
		return nil, err
	}

	season := e.season(rt)
	tp := profiler.GetProfile(team, season)
	if tp == nil {
		return nil, profileNotFound(profiler, team, season)
	}
	return tp, nil
}

func profileNotFound(profiler *teamprofile.Profiler, team string, season int) error {
	available := profiler.AvailableTeams()
	if len(available) > 10 {
		available = available[:10]
	}
	return errors.NotFound(fmt.Sprintf("profile for %s in %d (available teams include: %v)", team, season, available))
}

func (e *Executor) teamComparison(rt route.Route) (interface{}, error) {
	team1, err := requireString(rt, "team1")
	if err != nil {
		return nil, err
	}
	team2, err := requireString(rt, "team2")
	if err != nil {
		return nil, err
	}

	profiler, err := e.registry.Profiler()
	if err != nil {
		return nil, err
	}
	return profiler.CompareTeams(team1, team2, e.season(rt))
}

func (e *Executor) teamTendencies(rt route.Route) (interface{}, error) {
	team, err := requireString(rt, "team")
	if err != nil {
		return nil, err
	}

	profiler, err := e.registry.Profiler()
	if err != nil {
		return nil, err
	}
	season := e.season(rt)

	// With a down in the query, answer for that one situation cell.
	if down, ok := rt.IntParam("down"); ok {
		distance := intOrDefault(rt, "distance", 5)
		bucket := situation.DistanceBucket(distance)
		return profiler.SituationalRecommendation(team, season, down, bucket)
	}

	tp := profiler.GetProfile(team, season)
	if tp == nil {
		return nil, profileNotFound(profiler, team, season)
	}
	return map[string]interface{}{
		"team":        tp.Team,
		"season":      tp.Season,
		"deviations":  tp.Deviations,
		"situational": tp.Situational,
		"strengths":   tp.Strengths,
		"weaknesses":  tp.Weaknesses,
	}, nil
}

func (e *Executor) situationEPA(rt route.Route) (interface{}, error) {
	down, err := requireInt(rt, "down")
	if err != nil {
		return nil, err
	}
	distance, err := requireInt(rt, "distance")
	if err != nil {
		return nil, err
	}
	if down < 1 || down > 4 {
		return nil, errors.InvalidInput("down must be between 1 and 4")
	}
	if distance < 1 || distance > 99 {
		return nil, errors.InvalidInput("distance must be between 1 and 99")
	}

	model, err := e.registry.EPAModel()
	if err != nil {
		return nil, err
	}

	sit := situation.Situation{
		Down:          down,
		Distance:      distance,
		FieldPosition: intOrDefault(rt, "yardline", 50),
		Quarter:       intOrDefault(rt, "quarter", 2),
		ScoreDiff:     intOrDefault(rt, "score_diff", 0),
	}
	if box, ok := rt.IntParam("defenders_in_box"); ok {
		sit.DefendersInBox = &box
	}

	in := epa.PlayInput{
		Situation:            sit,
		HalfSecondsRemaining: intOrDefault(rt, "half_seconds_remaining", 900),
	}

	opts := epa.CompareOptions{}
	team := rt.StringParam("team")
	if team != "" {
		if profiler, perr := e.registry.Profiler(); perr == nil {
			opts.TeamPassAdjustment, opts.TeamRunAdjustment = profiler.TeamAdjustments(team, e.season(rt))
		}
	}

	result := map[string]interface{}{
		"situation": map[string]interface{}{
			"down":            down,
			"distance":        distance,
			"distance_bucket": situation.DistanceBucket(distance),
			"yardline":        sit.FieldPosition,
			"field_zone":      situation.FieldZone(sit.FieldPosition),
			"quarter":         sit.Quarter,
			"score_bucket":    situation.ScoreBucket(sit.ScoreDiff),
		},
		"comparison": model.ComparePlayTypes(in, opts),
	}
	if team != "" {
		result["team"] = team
	}
	return result, nil
}

func (e *Executor) decisionAnalysis(ctx context.Context, rt route.Route) (interface{}, error) {
	distance, err := requireInt(rt, "distance")
	if err != nil {
		return nil, err
	}
	if distance < 1 || distance > 99 {
		return nil, errors.InvalidInput("distance must be between 1 and 99")
	}

	down := intOrDefault(rt, "down", 4)
	yardline := intOrDefault(rt, "yardline", 35)
	if yardline < 1 || yardline > 99 {
		return nil, errors.InvalidInput("yardline must be between 1 and 99")
	}
	sims := intOrDefault(rt, "simulations", e.cfg.Simulation.DefaultTrials)

	sim, err := e.registry.Simulator(ctx)
	if err != nil {
		return nil, err
	}
	return sim.SimulateDecision(down, distance, yardline, sims)
}

// Minimum attempts for a player to appear on an efficiency leaderboard.
var rankingMinAttempts = map[string]int{
	"passing":   100,
	"rushing":   50,
	"receiving": 30,
}

func (e *Executor) playerRankings(ctx context.Context, rt route.Route) (interface{}, error) {
	statType := rt.StringParam("stat_type")
	if statType == "" {
		statType = "rushing"
	}
	if _, ok := rankingMinAttempts[statType]; !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown stat type: %s", statType))
	}
	metric := rt.StringParam("metric")
	if metric == "" {
		metric = "epa_per_play"
	}
	count := intOrDefault(rt, "count", 10)
	if count < 1 {
		count = 1
	}
	if count > 50 {
		count = 50
	}
	season := e.season(rt)

	// Traditional counting stats come straight from the season aggregates;
	// efficiency metrics go through the shrinkage model.
	if metric == "yards" || metric == "touchdowns" {
		rows, err := e.reader.CountingLeaders(ctx, ports.CountingStat{
			StatType: statType,
			Metric:   metric,
			Season:   season,
			Limit:    count,
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"stat_type": statType,
			"metric":    metric,
			"season":    season,
			"players":   rows,
		}, nil
	}

	model, err := e.registry.PlayerModel()
	if err != nil {
		return nil, err
	}

	ranked := model.GetTopPlayers(statType, metric, rankingMinAttempts[statType], count)

	// Backfill names for players the training data didn't label.
	var missing []string
	for _, p := range ranked {
		if p.PlayerName == "" {
			missing = append(missing, p.PlayerID)
		}
	}
	if len(missing) > 0 {
		if names, nerr := e.reader.PlayerNames(ctx, missing); nerr == nil {
			for i := range ranked {
				if info, ok := names[ranked[i].PlayerID]; ok && ranked[i].PlayerName == "" {
					ranked[i].PlayerName = info.PlayerName
					ranked[i].Team = info.Team
				}
			}
		}
	}

	return map[string]interface{}{
		"stat_type": statType,
		"metric":    metric,
		"season":    season,
		"players":   ranked,
	}, nil
}

func (e *Executor) playerComparison(ctx context.Context, rt route.Route) (interface{}, error) {
	id1, err := requireString(rt, "player1")
	if err != nil {
		return nil, err
	}
	id2, err := requireString(rt, "player2")
	if err != nil {
		return nil, err
	}

	model, err := e.registry.PlayerModel()
	if err != nil {
		return nil, err
	}

	cmp, err := model.ComparePlayers(id1, id2)
	if err != nil {
		return nil, err
	}

	if cmp.Player1.Name == "" || cmp.Player2.Name == "" {
		if names, nerr := e.reader.PlayerNames(ctx, []string{id1, id2}); nerr == nil {
			if info, ok := names[id1]; ok && cmp.Player1.Name == "" {
				cmp.Player1.Name = info.PlayerName
			}
			if info, ok := names[id2]; ok && cmp.Player2.Name == "" {
				cmp.Player2.Name = info.PlayerName
			}
		}
	}
	return cmp, nil
}

// EPTable builds the expected-points-by-field-position curve. Exposed as a
// structured endpoint only; no conversational phrasing maps to it.
func (e *Executor) EPTable(ctx context.Context, simsPerPosition int) (interface{}, error) {
	if simsPerPosition <= 0 {
		simsPerPosition = e.cfg.Simulation.DefaultTrials
	}
	sim, err := e.registry.Simulator(ctx)
	if err != nil {
		return nil, err
	}
	return sim.BuildEPTable(simsPerPosition)
}

func (e *Executor) driveSimulation(ctx context.Context, rt route.Route) (interface{}, error) {
	yardline := intOrDefault(rt, "yardline", 75)
	if yardline < 1 || yardline > 99 {
		return nil, errors.InvalidInput("yardline must be between 1 and 99")
	}
	sims := intOrDefault(rt, "simulations", e.cfg.Simulation.DefaultTrials)

	sim, err := e.registry.Simulator(ctx)
	if err != nil {
		return nil, err
	}
	return sim.SimulateScenario(yardline, sims)
}

// generalQuery is the pass-through for queries no pipeline claims but that
// still mention concrete entities. A conversational layer above this service
// is expected to ground its answer on the extracted entities.
func (e *Executor) generalQuery(rt route.Route) (interface{}, error) {
	teams := []string{}
	if t := rt.StringParam("team"); t != "" {
		teams = append(teams, t)
	}
	if t := rt.StringParam("team1"); t != "" {
		teams = append(teams, t)
	}
	if t := rt.StringParam("team2"); t != "" {
		teams = append(teams, t)
	}
	return map[string]interface{}{
		"teams_mentioned": teams,
		"needs_llm":       true,
		"note":            "no structured pipeline matched; entities extracted for downstream handling",
	}, nil
}
