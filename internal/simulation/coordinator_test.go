package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-engine/internal/models"
)

// fakeRepository is an in-memory Repository used to exercise the
// Coordinator without a database.
type fakeRepository struct {
	mu         sync.Mutex
	gameCtx    *models.GameContext
	run        models.Run
	trials     map[int]models.TrialResult
	aggregate  *models.Aggregate
	persistErr error
}

func newFakeRepository(gc *models.GameContext) *fakeRepository {
	return &fakeRepository{gameCtx: gc, trials: make(map[int]models.TrialResult), run: models.Run{Status: models.RunPending}}
}

func (f *fakeRepository) LoadGameContext(ctx context.Context, gameID string) (*models.GameContext, error) {
	return f.gameCtx, nil
}

func (f *fakeRepository) ListScheduledGames(ctx context.Context, date time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeRepository) CreateRun(ctx context.Context, runID, gameID string, cfg models.RunConfig) error {
	return nil
}

func (f *fakeRepository) UpdateRunStatus(ctx context.Context, runID string, status models.RunStatusKind, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.run.Status = status
	f.run.ErrorMessage = errMsg
	return nil
}

func (f *fakeRepository) UpdateRunProgress(ctx context.Context, runID string, completed, errored int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.run.CompletedTrials = completed
	f.run.ErroredTrials = errored
	return nil
}

func (f *fakeRepository) PersistTrialResult(ctx context.Context, result models.TrialResult) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trials[result.TrialNumber] = result
	return nil
}

func (f *fakeRepository) PersistAggregate(ctx context.Context, agg models.Aggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aggregate = &agg
	return nil
}

func (f *fakeRepository) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run := f.run
	return &run, nil
}

func (f *fakeRepository) GetAggregate(ctx context.Context, runID string) (*models.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aggregate, nil
}

func (f *fakeRepository) Close() {}

func TestCoordinatorStartCompletesRun(t *testing.T) {
	gc := testGameContext()
	repo := newFakeRepository(gc)
	coord := NewCoordinator(repo, nil, nil)

	cfg := models.DefaultRunConfig()
	cfg.TrialCount = 20
	cfg.Seed = 42

	err := coord.Start(context.Background(), "run-1", "game-1", cfg, 4)
	require.NoError(t, err)

	assert.Equal(t, models.RunCompleted, repo.run.Status)
	assert.Len(t, repo.trials, 20)
	require.NotNil(t, repo.aggregate)
	assert.Equal(t, 20, repo.aggregate.TotalTrials)
}

func TestCoordinatorGetStatusPrefersInMemorySnapshot(t *testing.T) {
	gc := testGameContext()
	repo := newFakeRepository(gc)
	coord := NewCoordinator(repo, nil, nil)

	cfg := models.DefaultRunConfig()
	cfg.TrialCount = 10
	cfg.Seed = 7

	require.NoError(t, coord.Start(context.Background(), "run-1", "game-1", cfg, 2))

	run, err := coord.GetStatus(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunCompleted, run.Status)
	assert.Equal(t, 10, run.CompletedTrials)

	// A run the Coordinator never drove falls back to the Repository.
	repo.run = models.Run{RunID: "run-2", Status: models.RunPending}
	fallback, err := coord.GetStatus(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, models.RunPending, fallback.Status)
}

func TestCoordinatorGetResultReturnsEnrichedAggregate(t *testing.T) {
	gc := testGameContext()
	repo := newFakeRepository(gc)
	coord := NewCoordinator(repo, nil, nil)

	cfg := models.DefaultRunConfig()
	cfg.TrialCount = 5
	cfg.Seed = 3

	require.NoError(t, coord.Start(context.Background(), "run-1", "game-1", cfg, 2))

	agg, err := coord.GetResult(context.Background(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, agg.Context)
	assert.Equal(t, gc.HomeTeamName, agg.Context.HomeTeam)
	assert.Equal(t, gc.AwayTeamName, agg.Context.AwayTeam)
}

func TestCoordinatorStartFailsOnInvalidRoster(t *testing.T) {
	gc := testGameContext()
	gc.HomeRoster.Lineup = gc.HomeRoster.Lineup[:8] // invalid: only 8 batters
	repo := newFakeRepository(gc)
	coord := NewCoordinator(repo, nil, nil)

	cfg := models.DefaultRunConfig()
	cfg.TrialCount = 5

	err := coord.Start(context.Background(), "run-1", "game-1", cfg, 2)
	require.Error(t, err)
	assert.Equal(t, models.RunError, repo.run.Status)
}
