package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"playcall/internal/errors"
	"playcall/ports"
)

// PlaysRepositoryImpl implements the aggregate readers over the play-by-play
// store. All queries are read-only; sqlx's pool handles concurrent use.
type PlaysRepositoryImpl struct {
	db *sqlx.DB
}

// NewPlaysRepository creates a PostgreSQL plays repository.
func NewPlaysRepository(db *sqlx.DB) *PlaysRepositoryImpl {
	return &PlaysRepositoryImpl{db: db}
}

func wrapDB(err error, message string) error {
	return errors.WithCode(err, errors.CodeDatabaseError, message)
}

func wrapDBf(err error, format string, args ...interface{}) error {
	return wrapDB(err, fmt.Sprintf(format, args...))
}

// SQL fragments shared across situational queries.
const (
	distanceBucketSQL = `CASE
		WHEN ydstogo <= 3 THEN 'short'
		WHEN ydstogo <= 7 THEN 'medium'
		ELSE 'long'
	END`

	fieldZoneSQL = `CASE
		WHEN yardline_100 <= 10 THEN 'goal_line'
		WHEN yardline_100 <= 20 THEN 'red_zone'
		WHEN yardline_100 <= 40 THEN 'opp_territory'
		WHEN yardline_100 <= 60 THEN 'midfield'
		ELSE 'own_territory'
	END`

	overallSelectSQL = `
		AVG(CASE WHEN pass = 1 THEN 1.0 ELSE 0.0 END) as pass_rate,
		COALESCE(AVG(epa), 0) as epa_per_play,
		AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as success_rate,
		AVG(CASE WHEN shotgun = 1 THEN 1.0 ELSE 0.0 END) as shotgun_rate,
		AVG(CASE WHEN no_huddle = 1 THEN 1.0 ELSE 0.0 END) as no_huddle_rate,
		AVG(CASE WHEN yards_gained >= 20 THEN 1.0 ELSE 0.0 END) as explosive_rate,
		COALESCE(AVG(CASE WHEN pass = 1 THEN epa ELSE NULL END), 0) as pass_epa,
		COALESCE(AVG(CASE WHEN rush = 1 THEN epa ELSE NULL END), 0) as rush_epa,
		COUNT(*) as total_plays`
)

// Teams lists the distinct offensive teams seen in a season.
func (r *PlaysRepositoryImpl) Teams(ctx context.Context, season int) ([]string, error) {
	var teams []string
	err := r.db.SelectContext(ctx, &teams, `
		SELECT DISTINCT posteam FROM plays
		WHERE season = $1 AND posteam IS NOT NULL
		ORDER BY posteam
	`, season)
	if err != nil {
		return nil, wrapDB(err, "failed to list teams")
	}
	return teams, nil
}

// LeagueOverall computes league-wide offensive rates for a season.
func (r *PlaysRepositoryImpl) LeagueOverall(ctx context.Context, season int) (ports.TeamOverallRow, error) {
	var row ports.TeamOverallRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+overallSelectSQL+`
		FROM plays
		WHERE season = $1 AND play_type IN ('pass', 'run')
	`, season)
	if err != nil {
		return row, wrapDB(err, "failed to load league overall stats")
	}
	return row, nil
}

// LeagueSituational computes league-wide (down, distance-bucket) cells.
func (r *PlaysRepositoryImpl) LeagueSituational(ctx context.Context, season int) ([]ports.SituationalRow, error) {
	var rows []ports.SituationalRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			down,
			`+distanceBucketSQL+` as distance_bucket,
			AVG(CASE WHEN pass = 1 THEN 1.0 ELSE 0.0 END) as pass_rate,
			COALESCE(AVG(epa), 0) as epa_per_play,
			AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as success_rate,
			COUNT(*) as sample_size
		FROM plays
		WHERE season = $1
		  AND play_type IN ('pass', 'run')
		  AND down IS NOT NULL
		GROUP BY down, `+distanceBucketSQL+`
	`, season)
	if err != nil {
		return nil, wrapDB(err, "failed to load league situational stats")
	}
	return rows, nil
}

// TeamOverall computes one team's offensive rates.
func (r *PlaysRepositoryImpl) TeamOverall(ctx context.Context, team string, season int) (ports.TeamOverallRow, error) {
	var row ports.TeamOverallRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+overallSelectSQL+`
		FROM plays
		WHERE season = $1 AND posteam = $2 AND play_type IN ('pass', 'run')
	`, season, team)
	if err != nil {
		return row, wrapDBf(err, "failed to load overall stats for %s", team)
	}
	return row, nil
}

// TeamDefense computes one team's defensive rates.
func (r *PlaysRepositoryImpl) TeamDefense(ctx context.Context, team string, season int) (ports.TeamDefenseRow, error) {
	var row ports.TeamDefenseRow
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COALESCE(AVG(epa), 0) as def_epa_per_play,
			AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as def_success_rate,
			COALESCE(AVG(CASE WHEN pass = 1 THEN epa ELSE NULL END), 0) as def_pass_epa,
			COALESCE(AVG(CASE WHEN rush = 1 THEN epa ELSE NULL END), 0) as def_rush_epa,
			COUNT(*) as def_plays
		FROM plays
		WHERE season = $1 AND defteam = $2 AND play_type IN ('pass', 'run')
	`, season, team)
	if err != nil {
		return row, wrapDBf(err, "failed to load defense stats for %s", team)
	}
	return row, nil
}

// TeamSituational computes one team's (down, distance-bucket) cells with at
// least 10 plays.
func (r *PlaysRepositoryImpl) TeamSituational(ctx context.Context, team string, season int) ([]ports.SituationalRow, error) {
	var rows []ports.SituationalRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			down,
			`+distanceBucketSQL+` as distance_bucket,
			AVG(CASE WHEN pass = 1 THEN 1.0 ELSE 0.0 END) as pass_rate,
			COALESCE(AVG(epa), 0) as epa_per_play,
			AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as success_rate,
			COUNT(*) as sample_size
		FROM plays
		WHERE season = $1 AND posteam = $2
		  AND play_type IN ('pass', 'run')
		  AND down IS NOT NULL
		GROUP BY down, `+distanceBucketSQL+`
		HAVING COUNT(*) >= 10
	`, season, team)
	if err != nil {
		return nil, wrapDBf(err, "failed to load situational stats for %s", team)
	}
	return rows, nil
}

// PlayOutcomes loads the bucketed empirical yardage distributions across
// the given seasons.
func (r *PlaysRepositoryImpl) PlayOutcomes(ctx context.Context, seasons []int) ([]ports.OutcomeCell, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			down,
			`+distanceBucketSQL+` as distance_bucket,
			`+fieldZoneSQL+` as field_zone,
			array_agg(yards_gained) as yards,
			AVG(COALESCE(first_down, 0)::float) as first_down_rate,
			AVG(COALESCE(touchdown, 0)::float) as td_rate,
			AVG(LEAST(COALESCE(interception, 0) + COALESCE(fumble, 0), 1)::float) as turnover_rate,
			COUNT(*) as sample_size
		FROM plays
		WHERE season = ANY($1)
		  AND play_type IN ('pass', 'run')
		  AND down IS NOT NULL
		  AND yards_gained IS NOT NULL
		GROUP BY down, `+distanceBucketSQL+`, `+fieldZoneSQL+`
	`, pq.Array(seasons))
	if err != nil {
		return nil, wrapDB(err, "failed to load play outcome distributions")
	}
	defer rows.Close()

	var cells []ports.OutcomeCell
	for rows.Next() {
		var cell ports.OutcomeCell
		var yards pq.Int64Array
		if err := rows.Scan(&cell.Down, &cell.DistanceBucket, &cell.FieldZone,
			&yards, &cell.FirstDownRate, &cell.TDRate, &cell.TurnoverRate, &cell.SampleSize); err != nil {
			return nil, wrapDB(err, "failed to scan outcome cell")
		}
		cell.Yards = make([]int, len(yards))
		for i, y := range yards {
			cell.Yards[i] = int(y)
		}
		cells = append(cells, cell)
	}
	return cells, rows.Err()
}

// FGRates loads historical field-goal make rates keyed by kick distance
// (field position plus 17 for the snap and end zone). Distances with fewer
// than 5 attempts are ignored as noise.
func (r *PlaysRepositoryImpl) FGRates(ctx context.Context, seasons []int) (map[int]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			yardline_100 + 17 as fg_distance,
			AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as success_rate
		FROM plays
		WHERE season = ANY($1)
		  AND play_type = 'field_goal'
		GROUP BY yardline_100
		HAVING COUNT(*) >= 5
	`, pq.Array(seasons))
	if err != nil {
		return nil, wrapDB(err, "failed to load field goal rates")
	}
	defer rows.Close()

	rates := map[int]float64{}
	for rows.Next() {
		var distance int
		var rate float64
		if err := rows.Scan(&distance, &rate); err != nil {
			return nil, wrapDB(err, "failed to scan field goal rate")
		}
		rates[distance] = rate
	}
	return rates, rows.Err()
}

// playerGroupSQL maps a stat type to its grouping column and sample floor.
var playerGroupSQL = map[string]struct {
	playType string
	idCol    string
	minPlays int
}{
	"rushing":   {playType: "run", idCol: "rusher_player_id", minPlays: 5},
	"passing":   {playType: "pass", idCol: "passer_player_id", minPlays: 10},
	"receiving": {playType: "pass", idCol: "receiver_player_id", minPlays: 10},
}

// PlayerGroups aggregates per-player rates for one stat role.
func (r *PlaysRepositoryImpl) PlayerGroups(ctx context.Context, statType string, season int) ([]ports.PlayerGroupRow, error) {
	sel, ok := playerGroupSQL[statType]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown stat type: %s", statType))
	}

	var rows []ports.PlayerGroupRow
	query := fmt.Sprintf(`
		SELECT
			%[1]s as player_id,
			COALESCE(AVG(epa), 0) as raw_epa,
			COALESCE(AVG(yards_gained), 0) as raw_yards,
			AVG(CASE WHEN success = 1 THEN 1.0 ELSE 0.0 END) as raw_success,
			COUNT(*) as attempts
		FROM plays
		WHERE season = $1
		  AND play_type = '%[2]s'
		  AND %[1]s IS NOT NULL
		GROUP BY %[1]s
		HAVING COUNT(*) >= %[3]d
	`, sel.idCol, sel.playType, sel.minPlays)

	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, wrapDBf(err, "failed to load %s player groups", statType)
	}
	return rows, nil
}

// TrainingPlays loads regression training samples across seasons.
func (r *PlaysRepositoryImpl) TrainingPlays(ctx context.Context, seasons []int) ([]ports.TrainingPlay, error) {
	var rows []ports.TrainingPlay
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			down, ydstogo, yardline_100, quarter,
			COALESCE(score_differential, 0) as score_differential,
			COALESCE(shotgun, 0) as shotgun,
			COALESCE(no_huddle, 0) as no_huddle,
			COALESCE(time_remaining_half, 900) as half_seconds_remaining,
			CASE WHEN posteam = home_team THEN 1 ELSE 0 END as is_home,
			epa
		FROM plays
		WHERE season = ANY($1)
		  AND play_type IN ('pass', 'run')
		  AND down IS NOT NULL
		  AND epa IS NOT NULL
	`, pq.Array(seasons))
	if err != nil {
		return nil, wrapDB(err, "failed to load training plays")
	}
	return rows, nil
}

// countingStatSQL maps leaderboard selections to their column and floor.
var countingStatSQL = map[string]map[string]struct {
	orderCol  string
	minFilter string
}{
	"passing": {
		"yards":      {orderCol: "pass_yards", minFilter: "pass_attempts >= 100"},
		"touchdowns": {orderCol: "pass_td", minFilter: "pass_attempts >= 100"},
	},
	"rushing": {
		"yards":      {orderCol: "rush_yards", minFilter: "rush_attempts >= 50"},
		"touchdowns": {orderCol: "rush_td", minFilter: "rush_attempts >= 50"},
	},
	"receiving": {
		"yards":      {orderCol: "rec_yards", minFilter: "targets >= 30"},
		"touchdowns": {orderCol: "rec_td", minFilter: "targets >= 30"},
	},
}

// CountingLeaders ranks players by a traditional counting stat.
func (r *PlaysRepositoryImpl) CountingLeaders(ctx context.Context, sel ports.CountingStat) ([]ports.PlayerSeasonRow, error) {
	byMetric, ok := countingStatSQL[sel.StatType]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown stat type: %s", sel.StatType))
	}
	cols, ok := byMetric[sel.Metric]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown metric: %s", sel.Metric))
	}

	var rows []ports.PlayerSeasonRow
	query := fmt.Sprintf(`
		SELECT player_id, player_name, team, position,
		       COALESCE(%s, 0)::float as stat_value
		FROM player_season_stats
		WHERE season = $1
		  AND %s
		  AND player_name IS NOT NULL
		ORDER BY %s DESC
		LIMIT $2
	`, cols.orderCol, cols.minFilter, cols.orderCol)

	if err := r.db.SelectContext(ctx, &rows, query, sel.Season, sel.Limit); err != nil {
		return nil, wrapDB(err, "failed to load counting-stat leaders")
	}
	return rows, nil
}

// PlayerNames looks up names and teams for a set of player IDs.
func (r *PlaysRepositoryImpl) PlayerNames(ctx context.Context, playerIDs []string) (map[string]ports.PlayerInfo, error) {
	if len(playerIDs) == 0 {
		return map[string]ports.PlayerInfo{}, nil
	}

	var rows []ports.PlayerInfo
	err := r.db.SelectContext(ctx, &rows, `
		SELECT DISTINCT player_id, player_name, position, team
		FROM player_season_stats
		WHERE player_id = ANY($1) AND player_name IS NOT NULL
	`, pq.Array(playerIDs))
	if err != nil {
		return nil, wrapDB(err, "failed to load player names")
	}

	lookup := make(map[string]ports.PlayerInfo, len(rows))
	for _, info := range rows {
		lookup[info.PlayerID] = info
	}
	return lookup, nil
}
