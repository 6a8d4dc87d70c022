// Package repository implements the persistence contract the Run
// Coordinator and Control Surface use to load game data and durably
// record simulation progress, following the per-entity repository
// convention in the wider example pack rather than the teacher's inline
// ad hoc SQL.
package repository

import (
	"context"
	"time"

	"github.com/baseball-sim/sim-engine/internal/models"
)

// Repository is the full persistence contract (spec §4.1). A Postgres
// implementation backs it in production; tests may provide an in-memory
// fake satisfying the same interface.
type Repository interface {
	// LoadGameContext assembles everything a trial needs to simulate one
	// game: both rosters, the stadium, the umpire, and weather coordinates.
	LoadGameContext(ctx context.Context, gameID string) (*models.GameContext, error)

	// ListScheduledGames returns the game IDs scheduled for the given date,
	// used by POST /simulate/daily.
	ListScheduledGames(ctx context.Context, date time.Time) ([]string, error)

	// CreateRun inserts a new run row in RunPending status under the given
	// runID, which the caller mints. Fails errs.Conflict if runID already
	// exists, leaving the existing row untouched.
	CreateRun(ctx context.Context, runID, gameID string, cfg models.RunConfig) error

	// UpdateRunStatus transitions a run's status, validating the transition
	// against models.RunStatusKind.CanTransitionTo.
	UpdateRunStatus(ctx context.Context, runID string, status models.RunStatusKind, errMsg string) error

	// UpdateRunProgress records how many trials have completed/errored so
	// far, without changing status.
	UpdateRunProgress(ctx context.Context, runID string, completed, errored int) error

	// PersistTrialResult durably records one trial. Persisting the same
	// (runID, trialNumber) twice must be idempotent (spec §8).
	PersistTrialResult(ctx context.Context, result models.TrialResult) error

	// PersistAggregate stores the final merged aggregate for a run.
	PersistAggregate(ctx context.Context, agg models.Aggregate) error

	// GetRun returns the run row, errs.NotFound if it doesn't exist.
	GetRun(ctx context.Context, runID string) (*models.Run, error)

	// GetAggregate returns a run's persisted aggregate, errs.NotFound if the
	// run hasn't completed (or errored) yet.
	GetAggregate(ctx context.Context, runID string) (*models.Aggregate, error)

	// Close releases the underlying connection pool.
	Close()
}
