package simulation

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/baseball-sim/sim-engine/internal/errs"
	"github.com/baseball-sim/sim-engine/internal/models"
	"github.com/baseball-sim/sim-engine/internal/repository"
	"github.com/baseball-sim/sim-engine/internal/weather"
)

// Coordinator owns the lifetime of one simulation run: it loads the game
// context once, fans trials out across a bounded worker pool, and folds
// results into a running Aggregate as they complete. It also keeps the
// process-wide in-memory runID → Run map that status/result reads
// consult before falling back to the Repository (spec §5/§9).
type Coordinator struct {
	repo    repository.Repository
	weather *weather.Service
	log     *charmlog.Logger

	mu       sync.RWMutex
	statuses map[string]*models.Run
}

// NewCoordinator wires a Coordinator to its repository and weather
// service.
func NewCoordinator(repo repository.Repository, ws *weather.Service, logger *charmlog.Logger) *Coordinator {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Coordinator{
		repo: repo, weather: ws, log: logger.With("component", "coordinator"),
		statuses: make(map[string]*models.Run),
	}
}

// setStatus mutates (creating if absent) runID's in-memory progress
// snapshot under the map's write lock.
func (c *Coordinator) setStatus(runID string, mutate func(run *models.Run)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	run, ok := c.statuses[runID]
	if !ok {
		run = &models.Run{RunID: runID}
		c.statuses[runID] = run
	}
	mutate(run)
}

// GetStatus returns a snapshot of runID's progress from the in-memory
// map if the Coordinator has driven it since process startup, falling
// back to the Repository for runs from before a restart.
func (c *Coordinator) GetStatus(ctx context.Context, runID string) (*models.Run, error) {
	c.mu.RLock()
	run, ok := c.statuses[runID]
	if ok {
		snapshot := *run
		c.mu.RUnlock()
		return &snapshot, nil
	}
	c.mu.RUnlock()
	return c.repo.GetRun(ctx, runID)
}

// GetResult returns a completed run's persisted Aggregate, already
// enriched with game context (team names, weather, park factors, umpire)
// at persist time in Start.
func (c *Coordinator) GetResult(ctx context.Context, runID string) (*models.Aggregate, error) {
	return c.repo.GetAggregate(ctx, runID)
}

// Start loads the game context, then runs cfg.TrialCount trials across a
// bounded worker pool sized to workers, persisting each trial and the
// final aggregate. It blocks until the run finishes or ctx is canceled.
func (c *Coordinator) Start(ctx context.Context, runID, gameID string, cfg models.RunConfig, workers int) error {
	if err := c.repo.UpdateRunStatus(ctx, runID, models.RunRunning, ""); err != nil {
		return errs.Wrap(errs.Internal, err, "marking run as running")
	}
	startedAt := time.Now()
	c.setStatus(runID, func(run *models.Run) {
		run.GameID = gameID
		run.Config = cfg
		run.Status = models.RunRunning
		run.StartedAt = &startedAt
		run.CreatedAt = startedAt
	})

	gc, err := c.loadContext(ctx, gameID)
	if err != nil {
		c.fail(ctx, runID, err)
		return err
	}

	if err := gc.HomeRoster.Validate(); err != nil {
		err = errs.Wrap(errs.DataCorrupt, err, "home roster invalid")
		c.fail(ctx, runID, err)
		return err
	}
	if err := gc.AwayRoster.Validate(); err != nil {
		err = errs.Wrap(errs.DataCorrupt, err, "away roster invalid")
		c.fail(ctx, runID, err)
		return err
	}

	if workers <= 0 {
		workers = 8
	}
	antsPool, err := ants.NewPool(workers, ants.WithPreAlloc(false))
	if err != nil {
		err = errs.Wrap(errs.Internal, err, "creating worker pool")
		c.fail(ctx, runID, err)
		return err
	}
	defer antsPool.Release()

	driver := NewDriver(cfg.TrialCapInnings)
	results := make(chan models.TrialResult, workers*4)
	var completed, errored int64
	var wg sync.WaitGroup

	// Submission runs beside the collector loop below: the results channel
	// holds only workers*4 entries, so submitting every trial before
	// draining it would stall once workers block on a full channel.
	go func() {
		for i := 1; i <= cfg.TrialCount; i++ {
			wg.Add(1)
			trialNumber := i
			seed := cfg.Seed + uint64(trialNumber)
			submitErr := antsPool.Submit(func() {
				defer wg.Done()
				result := c.runTrial(driver, gc, runID, trialNumber, seed)
				if result.Errored {
					atomic.AddInt64(&errored, 1)
				}
				atomic.AddInt64(&completed, 1)
				results <- result
			})
			if submitErr != nil {
				wg.Done()
				atomic.AddInt64(&errored, 1)
				atomic.AddInt64(&completed, 1)
				results <- models.TrialResult{RunID: runID, TrialNumber: trialNumber, Errored: true, ErrorMessage: submitErr.Error()}
			}
		}
		wg.Wait()
		close(results)
	}()

	collected := make([]models.TrialResult, 0, cfg.TrialCount)
	progressTick := time.NewTicker(2 * time.Second)
	defer progressTick.Stop()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				agg := BuildAggregate(runID, collected, gc)
				if err := c.repo.PersistAggregate(ctx, agg); err != nil {
					c.log.Warn("persist aggregate failed", "run_id", runID, "error", err)
				}
				if err := c.repo.UpdateRunProgress(ctx, runID, int(completed), int(errored)); err != nil {
					c.log.Warn("final progress update failed", "run_id", runID, "error", err)
				}
				c.setStatus(runID, func(run *models.Run) {
					run.CompletedTrials = int(completed)
					run.ErroredTrials = int(errored)
				})
				return c.finish(ctx, runID, cfg, int(completed), int(errored))
			}
			collected = append(collected, result)
			if cfg.PersistTrials {
				if err := c.repo.PersistTrialResult(ctx, result); err != nil {
					c.log.Warn("persist trial failed", "run_id", runID, "trial", result.TrialNumber, "error", err)
				}
			}
		case <-progressTick.C:
			completedNow, erroredNow := int(atomic.LoadInt64(&completed)), int(atomic.LoadInt64(&errored))
			if err := c.repo.UpdateRunProgress(ctx, runID, completedNow, erroredNow); err != nil {
				c.log.Warn("progress update failed", "run_id", runID, "error", err)
			}
			c.setStatus(runID, func(run *models.Run) {
				run.CompletedTrials = completedNow
				run.ErroredTrials = erroredNow
			})
		case <-ctx.Done():
			return errs.Wrap(errs.Unavailable, ctx.Err(), "run canceled")
		}
	}
}

func (c *Coordinator) finish(ctx context.Context, runID string, cfg models.RunConfig, completed, errored int) error {
	completedAt := time.Now()
	if cfg.TrialCount > 0 && float64(errored)/float64(cfg.TrialCount) > cfg.ErrorRateTolerance {
		msg := "error rate exceeded tolerance"
		if err := c.repo.UpdateRunStatus(ctx, runID, models.RunError, msg); err != nil {
			return errs.Wrap(errs.Internal, err, "marking run as errored")
		}
		c.setStatus(runID, func(run *models.Run) {
			run.Status = models.RunError
			run.ErrorMessage = msg
			run.CompletedAt = &completedAt
			run.CompletedTrials = completed
			run.ErroredTrials = errored
		})
		return errs.Newf(errs.Internal, "run %s: %s (%d/%d trials errored)", runID, msg, errored, cfg.TrialCount)
	}
	if err := c.repo.UpdateRunStatus(ctx, runID, models.RunCompleted, ""); err != nil {
		return errs.Wrap(errs.Internal, err, "marking run as completed")
	}
	c.setStatus(runID, func(run *models.Run) {
		run.Status = models.RunCompleted
		run.CompletedAt = &completedAt
		run.CompletedTrials = completed
		run.ErroredTrials = errored
	})
	c.log.Info("run completed", "run_id", runID, "completed", completed, "errored", errored)
	return nil
}

func (c *Coordinator) fail(ctx context.Context, runID string, cause error) {
	c.log.Error("run failed", "run_id", runID, "error", cause)
	if err := c.repo.UpdateRunStatus(ctx, runID, models.RunError, cause.Error()); err != nil {
		c.log.Warn("failed to record run failure", "run_id", runID, "error", err)
	}
	completedAt := time.Now()
	c.setStatus(runID, func(run *models.Run) {
		run.Status = models.RunError
		run.ErrorMessage = cause.Error()
		run.CompletedAt = &completedAt
	})
}

// runTrial drives one trial, recovering a panic into an errored result so
// one bad trial never takes down the run.
func (c *Coordinator) runTrial(driver *Driver, gc *models.GameContext, runID string, trialNumber int, seed uint64) (result models.TrialResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.TrialResult{
				RunID: runID, TrialNumber: trialNumber,
				Errored: true, ErrorMessage: "panic in trial driver", CreatedAt: time.Now(),
			}
		}
	}()
	rng := rand.New(rand.NewSource(int64(seed)))
	return driver.Run(gc, runID, trialNumber, rng)
}

// loadContext fetches the game's roster/stadium/umpire data, then the
// game-time weather through a conc/pool task once the stadium is known; the
// two steps run one after the other. A weather fetch failure never fails
// the run: the weather service answers domes with controlled conditions and
// falls back to default weather on its own.
func (c *Coordinator) loadContext(ctx context.Context, gameID string) (*models.GameContext, error) {
	gc, err := c.repo.LoadGameContext(ctx, gameID)
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, err, "loading game context")
	}

	if c.weather == nil {
		return gc, nil
	}

	p := pool.New().WithErrors()
	var mu sync.Mutex
	p.Go(func() error {
		w, werr := c.weather.GetWeatherForGame(ctx, gc.Stadium, time.Now())
		if werr != nil {
			return nil // fall through to default weather already set by the service
		}
		mu.Lock()
		gc.Weather = w
		mu.Unlock()
		return nil
	})
	_ = p.Wait()

	return gc, nil
}
