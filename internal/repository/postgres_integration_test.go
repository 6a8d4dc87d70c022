//go:build integration

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baseball-sim/sim-engine/internal/errs"
	"github.com/baseball-sim/sim-engine/internal/models"
)

// startPostgres spins up a real Postgres container and applies the
// migrations under /migrations, mirroring the container setup in the
// teacher sibling's testutils package.
func startPostgres(t *testing.T) (*Postgres, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("sim_engine_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	applyMigrations(t, connStr)

	repo, err := NewPostgres(ctx, connStr, 4)
	require.NoError(t, err)

	return repo, func() {
		repo.Close()
		_ = container.Terminate(ctx)
	}
}

func applyMigrations(t *testing.T, connStr string) {
	t.Helper()
	root, err := projectRoot()
	require.NoError(t, err)

	m, err := newMigrator(connStr, filepath.Join(root, "migrations"))
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Up())
}

func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for range 10 {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		dir = filepath.Dir(dir)
	}
	return "", err
}

func TestPostgres_CreateRunAndPersistTrialIdempotent(t *testing.T) {
	repo, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	seedGame(t, repo, "game-1")

	runID := uuid.New().String()
	require.NoError(t, repo.CreateRun(ctx, runID, "game-1", models.DefaultRunConfig()))

	run, err := repo.GetRun(ctx, runID)
	require.NoError(t, err)
	require.Equal(t, models.RunPending, run.Status)

	require.NoError(t, repo.UpdateRunStatus(ctx, runID, models.RunRunning, ""))

	trial := models.TrialResult{
		RunID: runID, TrialNumber: 1, HomeScore: 4, AwayScore: 2, Winner: "home",
		TotalPitches: 140, DurationMins: 185, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.PersistTrialResult(ctx, trial))
	// Re-persisting the same (runID, trialNumber) must be idempotent.
	trial.HomeScore = 9
	require.NoError(t, repo.PersistTrialResult(ctx, trial))

	var homeScore int
	row := repo.pool.QueryRow(ctx, `SELECT home_score FROM trial_results WHERE run_id=$1 AND trial_number=$2`, runID, 1)
	require.NoError(t, row.Scan(&homeScore))
	require.Equal(t, 9, homeScore)

	var count int
	row = repo.pool.QueryRow(ctx, `SELECT count(*) FROM trial_results WHERE run_id=$1`, runID)
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 1, count)
}

func TestPostgres_CreateRunRejectsDuplicateRunID(t *testing.T) {
	repo, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	seedGame(t, repo, "game-1")

	runID := uuid.New().String()
	require.NoError(t, repo.CreateRun(ctx, runID, "game-1", models.DefaultRunConfig()))

	err := repo.CreateRun(ctx, runID, "game-1", models.DefaultRunConfig())
	require.Error(t, err)
	require.Equal(t, errs.Conflict, errs.KindOf(err))

	run, err := repo.GetRun(ctx, runID)
	require.NoError(t, err)
	require.Equal(t, models.RunPending, run.Status)
}

func TestPostgres_UpdateRunStatusRejectsIllegalTransition(t *testing.T) {
	repo, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	seedGame(t, repo, "game-1")

	runID := uuid.New().String()
	require.NoError(t, repo.CreateRun(ctx, runID, "game-1", models.DefaultRunConfig()))

	err := repo.UpdateRunStatus(ctx, runID, models.RunCompleted, "")
	require.Error(t, err)
	require.Equal(t, errs.Conflict, errs.KindOf(err))

	run, err := repo.GetRun(ctx, runID)
	require.NoError(t, err)
	require.Equal(t, models.RunPending, run.Status)
}

func seedGame(t *testing.T, repo *Postgres, gameID string) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.pool.Exec(ctx, `
		INSERT INTO teams (id, name) VALUES ('home', 'Home Team'), ('away', 'Away Team')`)
	require.NoError(t, err)
	_, err = repo.pool.Exec(ctx, `
		INSERT INTO stadiums (id, name, team_id, latitude, longitude, altitude, roof_type, surface)
		VALUES ('stadium-1', 'Test Park', 'home', 40.0, -74.0, 10, 'open', 'grass')`)
	require.NoError(t, err)
	_, err = repo.pool.Exec(ctx, `
		INSERT INTO games (game_id, home_team_id, away_team_id, stadium_id, game_date)
		VALUES ($1, 'home', 'away', 'stadium-1', NOW())`, gameID)
	require.NoError(t, err)
}
