package repository

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baseball-sim/sim-engine/internal/errs"
	"github.com/baseball-sim/sim-engine/internal/models"
)

// uniqueViolation is Postgres' SQLSTATE for a unique-constraint conflict.
const uniqueViolation = "23505"

// Postgres implements Repository against a pgx connection pool, following
// the teacher's use of pgxpool in main.go and the inline SQL previously
// scattered across simulation/helpers.go and simulation/database.go.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a pool sized for workers concurrent trial workers plus
// headroom for control-surface reads (spec §4.1: "max(2×workers, 10)").
func NewPostgres(ctx context.Context, dbURL string, workers int) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, errs.Wrap(errs.BadRequest, err, "parsing database url")
	}

	maxConns := int32(workers * 2)
	if maxConns < 10 {
		maxConns = 10
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, err, "opening database pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.Unavailable, err, "pinging database")
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// Ping reports whether the database is reachable, for the control
// surface's /health endpoint.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return errs.Wrap(errs.Unavailable, err, "database ping failed")
	}
	return nil
}

func (p *Postgres) LoadGameContext(ctx context.Context, gameID string) (*models.GameContext, error) {
	var gc models.GameContext
	var stadiumID string

	row := p.pool.QueryRow(ctx, `
		SELECT g.game_id, g.home_team_id, g.away_team_id, g.stadium_id, ht.name, at.name
		FROM games g
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE g.game_id = $1`, gameID)
	if err := row.Scan(&gc.GameID, &gc.HomeTeamID, &gc.AwayTeamID, &stadiumID, &gc.HomeTeamName, &gc.AwayTeamName); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errs.Newf(errs.NotFound, "game %s not found", gameID)
		}
		return nil, errs.Wrap(errs.Internal, err, "loading game")
	}

	stadium, err := p.loadStadium(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	gc.Stadium = *stadium

	homeRoster, err := p.loadRoster(ctx, gc.HomeTeamID)
	if err != nil {
		return nil, err
	}
	gc.HomeRoster = *homeRoster

	awayRoster, err := p.loadRoster(ctx, gc.AwayTeamID)
	if err != nil {
		return nil, err
	}
	gc.AwayRoster = *awayRoster

	umpire, err := p.loadUmpire(ctx, gameID)
	if err != nil {
		return nil, err
	}
	gc.Umpire = *umpire

	return &gc, nil
}

func (p *Postgres) loadStadium(ctx context.Context, stadiumID string) (*models.Stadium, error) {
	var s models.Stadium
	var dimsJSON, pfJSON []byte
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, team_id, latitude, longitude, altitude, roof_type,
		       surface, dimensions, park_factors
		FROM stadiums WHERE id = $1`, stadiumID)
	err := row.Scan(&s.ID, &s.Name, &s.TeamID, &s.Latitude, &s.Longitude,
		&s.Altitude, &s.RoofType, &s.Surface, &dimsJSON, &pfJSON)
	if err == pgx.ErrNoRows {
		return nil, errs.Newf(errs.NotFound, "stadium %s not found", stadiumID)
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "loading stadium")
	}
	s.Dimensions = models.DefaultDimensions()
	s.ParkFactors = models.DefaultParkFactors()
	if len(dimsJSON) > 0 {
		if err := json.Unmarshal(dimsJSON, &s.Dimensions); err != nil {
			return nil, errs.Wrap(errs.DataCorrupt, err, "decoding stadium dimensions")
		}
	}
	if len(pfJSON) > 0 {
		if err := json.Unmarshal(pfJSON, &s.ParkFactors); err != nil {
			return nil, errs.Wrap(errs.DataCorrupt, err, "decoding park factors")
		}
	}
	return &s, nil
}

func (p *Postgres) loadUmpire(ctx context.Context, gameID string) (*models.Umpire, error) {
	var u models.Umpire
	row := p.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.tendencies
		FROM games g JOIN umpires u ON u.id = g.umpire_id
		WHERE g.game_id = $1`, gameID)
	var tendenciesJSON []byte
	if err := row.Scan(&u.ID, &u.Name, &tendenciesJSON); err != nil {
		if err == pgx.ErrNoRows {
			tendencies := models.DefaultUmpireTendencies()
			return &models.Umpire{ID: "default", Name: "Default Umpire", Tendencies: tendencies}, nil
		}
		return nil, errs.Wrap(errs.Internal, err, "loading umpire")
	}
	u.Tendencies = models.DefaultUmpireTendencies()
	if len(tendenciesJSON) > 0 {
		if err := json.Unmarshal(tendenciesJSON, &u.Tendencies); err != nil {
			return nil, errs.Wrap(errs.DataCorrupt, err, "decoding umpire tendencies")
		}
	}
	return &u, nil
}

func (p *Postgres) loadRoster(ctx context.Context, teamID string) (*models.Roster, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT p.id, p.name, p.position, p.team_id, p.hand, p.throw_hand, p.role,
		       p.batting, p.pitching, p.fielding, p.attributes
		FROM players p WHERE p.team_id = $1 AND p.active = true
		ORDER BY p.position`, teamID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "querying roster players")
	}
	defer rows.Close()

	roster := &models.Roster{TeamID: teamID}
	for rows.Next() {
		var pl models.Player
		var battingJSON, pitchingJSON, fieldingJSON, attrJSON []byte
		if err := rows.Scan(&pl.ID, &pl.Name, &pl.Position, &pl.TeamID, &pl.Hand,
			&pl.ThrowHand, &pl.Role, &battingJSON, &pitchingJSON, &fieldingJSON, &attrJSON); err != nil {
			return nil, errs.Wrap(errs.Internal, err, "scanning roster player")
		}
		pl.Batting = models.DefaultBattingStats()
		pl.Pitching = models.DefaultPitchingStats()
		if len(battingJSON) > 0 {
			if err := json.Unmarshal(battingJSON, &pl.Batting); err == nil {
				pl.Defaulted = false
			}
		} else {
			pl.Defaulted = true
		}
		if len(pitchingJSON) > 0 {
			_ = json.Unmarshal(pitchingJSON, &pl.Pitching)
		}
		if len(fieldingJSON) > 0 {
			_ = json.Unmarshal(fieldingJSON, &pl.Fielding)
		}
		if len(attrJSON) > 0 {
			_ = json.Unmarshal(attrJSON, &pl.Attributes)
		}
		roster.Players = append(roster.Players, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, err, "reading roster rows")
	}

	for _, pl := range roster.Players {
		switch pl.Role {
		case models.RolePitcher:
			roster.Rotation = append(roster.Rotation, pl.ID)
		case models.RoleTwoWay:
			roster.Rotation = append(roster.Rotation, pl.ID)
			roster.Lineup = append(roster.Lineup, pl.ID)
		default:
			if len(roster.Lineup) < 9 {
				roster.Lineup = append(roster.Lineup, pl.ID)
			}
		}
	}
	return roster, nil
}

func (p *Postgres) ListScheduledGames(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT game_id FROM scheduled_games
		WHERE game_date = $1 ORDER BY game_id`, date.Format("2006-01-02"))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "querying scheduled games")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.Wrap(errs.Internal, err, "scanning scheduled game")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateRun inserts a pending run row under the caller-supplied runID.
// Re-using a runID is rejected as errs.Conflict (spec §4.1/§8), leaving
// whatever row already exists untouched.
func (p *Postgres) CreateRun(ctx context.Context, runID, gameID string, cfg models.RunConfig) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "marshaling run config")
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO simulation_runs (id, game_id, status, config, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		runID, gameID, models.RunPending, cfgJSON)
	if err != nil {
		var pgErr *pgconn.PgError
		if goerrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.Newf(errs.Conflict, "run %s already exists", runID)
		}
		return errs.Wrap(errs.Internal, err, "inserting run")
	}
	return nil
}

// UpdateRunStatus transitions a run's status, validating against
// models.RunStatusKind.CanTransitionTo under row-level locking so a
// concurrent transition can't race past the check.
func (p *Postgres) UpdateRunStatus(ctx context.Context, runID string, status models.RunStatusKind, errMsg string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "beginning status transition")
	}
	defer tx.Rollback(ctx)

	var current models.RunStatusKind
	row := tx.QueryRow(ctx, `SELECT status FROM simulation_runs WHERE id = $1 FOR UPDATE`, runID)
	if err := row.Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return errs.Newf(errs.NotFound, "run %s not found", runID)
		}
		return errs.Wrap(errs.Internal, err, "loading run status")
	}
	if !current.CanTransitionTo(status) {
		return errs.Newf(errs.Conflict, "run %s: illegal status transition %s -> %s", runID, current, status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE simulation_runs
		SET status = $2, error_message = NULLIF($3, ''), updated_at = NOW(),
		    started_at = CASE WHEN $2 = 'running' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $2 IN ('completed','error') THEN NOW() ELSE completed_at END
		WHERE id = $1`, runID, string(status), errMsg)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "updating run status")
	}
	return tx.Commit(ctx)
}

func (p *Postgres) UpdateRunProgress(ctx context.Context, runID string, completed, errored int) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE simulation_runs
		SET completed_trials = $2, errored_trials = $3, updated_at = NOW()
		WHERE id = $1`, runID, completed, errored)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "updating run progress")
	}
	return nil
}

// PersistTrialResult upserts on (run_id, trial_number) so retries of the
// same trial number are idempotent, per spec §8.
func (p *Postgres) PersistTrialResult(ctx context.Context, result models.TrialResult) error {
	keyEventsJSON, err := json.Marshal(result.KeyEvents)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "marshaling key events")
	}
	battingJSON, err := json.Marshal(result.BattingLines)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "marshaling batting lines")
	}
	pitchingJSON, err := json.Marshal(result.PitchingLines)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "marshaling pitching lines")
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO trial_results (
			run_id, trial_number, home_score, away_score, winner,
			total_pitches, duration_minutes, key_events, batting_lines,
			pitching_lines, errored, error_message, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
		ON CONFLICT (run_id, trial_number) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			winner = EXCLUDED.winner,
			total_pitches = EXCLUDED.total_pitches,
			duration_minutes = EXCLUDED.duration_minutes,
			key_events = EXCLUDED.key_events,
			batting_lines = EXCLUDED.batting_lines,
			pitching_lines = EXCLUDED.pitching_lines,
			errored = EXCLUDED.errored,
			error_message = EXCLUDED.error_message`,
		result.RunID, result.TrialNumber, result.HomeScore, result.AwayScore,
		result.Winner, result.TotalPitches, result.DurationMins, keyEventsJSON,
		battingJSON, pitchingJSON, result.Errored, result.ErrorMessage,
	)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "persisting trial result")
	}
	return nil
}

func (p *Postgres) PersistAggregate(ctx context.Context, agg models.Aggregate) error {
	homeDistJSON, _ := json.Marshal(agg.HomeScoreDistribution)
	awayDistJSON, _ := json.Marshal(agg.AwayScoreDistribution)
	eventsJSON, _ := json.Marshal(agg.HighLeverageEvents)
	statsJSON, _ := json.Marshal(agg.Statistics)
	contextJSON, err := json.Marshal(agg.Context)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "marshaling run context")
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO run_aggregates (
			run_id, total_trials, errored_trials, home_wins, away_wins, ties,
			home_win_probability, away_win_probability, tie_probability,
			expected_home_score, expected_away_score, home_score_distribution,
			away_score_distribution, average_duration_minutes, average_pitches,
			high_leverage_events, statistics, context, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			total_trials = EXCLUDED.total_trials,
			errored_trials = EXCLUDED.errored_trials,
			home_wins = EXCLUDED.home_wins,
			away_wins = EXCLUDED.away_wins,
			ties = EXCLUDED.ties,
			home_win_probability = EXCLUDED.home_win_probability,
			away_win_probability = EXCLUDED.away_win_probability,
			tie_probability = EXCLUDED.tie_probability,
			expected_home_score = EXCLUDED.expected_home_score,
			expected_away_score = EXCLUDED.expected_away_score,
			home_score_distribution = EXCLUDED.home_score_distribution,
			away_score_distribution = EXCLUDED.away_score_distribution,
			average_duration_minutes = EXCLUDED.average_duration_minutes,
			average_pitches = EXCLUDED.average_pitches,
			high_leverage_events = EXCLUDED.high_leverage_events,
			statistics = EXCLUDED.statistics,
			context = EXCLUDED.context`,
		agg.RunID, agg.TotalTrials, agg.ErroredTrials, agg.HomeWins, agg.AwayWins, agg.Ties,
		agg.HomeWinProbability, agg.AwayWinProbability, agg.TieProbability,
		agg.ExpectedHomeScore, agg.ExpectedAwayScore, homeDistJSON, awayDistJSON,
		agg.AverageDurationMins, agg.AveragePitches, eventsJSON, statsJSON, contextJSON,
	)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "persisting aggregate")
	}
	return nil
}

func (p *Postgres) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	var run models.Run
	var cfgJSON []byte
	var errMsg *string
	row := p.pool.QueryRow(ctx, `
		SELECT id, game_id, status, config, completed_trials, errored_trials,
		       error_message, created_at, started_at, completed_at
		FROM simulation_runs WHERE id = $1`, runID)
	err := row.Scan(&run.RunID, &run.GameID, &run.Status, &cfgJSON,
		&run.CompletedTrials, &run.ErroredTrials, &errMsg, &run.CreatedAt,
		&run.StartedAt, &run.CompletedAt)
	if err == pgx.ErrNoRows {
		return nil, errs.Newf(errs.NotFound, "run %s not found", runID)
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "loading run")
	}
	if errMsg != nil {
		run.ErrorMessage = *errMsg
	}
	if len(cfgJSON) > 0 {
		if err := json.Unmarshal(cfgJSON, &run.Config); err != nil {
			return nil, errs.Wrap(errs.DataCorrupt, err, "decoding run config")
		}
	}
	return &run, nil
}

func (p *Postgres) GetAggregate(ctx context.Context, runID string) (*models.Aggregate, error) {
	var agg models.Aggregate
	var homeDistJSON, awayDistJSON, eventsJSON, statsJSON, contextJSON []byte
	row := p.pool.QueryRow(ctx, `
		SELECT run_id, total_trials, errored_trials, home_wins, away_wins, ties,
		       home_win_probability, away_win_probability, tie_probability,
		       expected_home_score, expected_away_score, home_score_distribution,
		       away_score_distribution, average_duration_minutes, average_pitches,
		       high_leverage_events, statistics, context, created_at
		FROM run_aggregates WHERE run_id = $1`, runID)
	err := row.Scan(&agg.RunID, &agg.TotalTrials, &agg.ErroredTrials, &agg.HomeWins,
		&agg.AwayWins, &agg.Ties, &agg.HomeWinProbability, &agg.AwayWinProbability,
		&agg.TieProbability, &agg.ExpectedHomeScore, &agg.ExpectedAwayScore,
		&homeDistJSON, &awayDistJSON, &agg.AverageDurationMins, &agg.AveragePitches,
		&eventsJSON, &statsJSON, &contextJSON, &agg.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, errs.Newf(errs.NotFound, "aggregate for run %s not found", runID)
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "loading aggregate")
	}
	_ = json.Unmarshal(homeDistJSON, &agg.HomeScoreDistribution)
	_ = json.Unmarshal(awayDistJSON, &agg.AwayScoreDistribution)
	_ = json.Unmarshal(eventsJSON, &agg.HighLeverageEvents)
	_ = json.Unmarshal(statsJSON, &agg.Statistics)
	if len(contextJSON) > 0 {
		_ = json.Unmarshal(contextJSON, &agg.Context)
	}
	return &agg, nil
}
