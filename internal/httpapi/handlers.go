package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/baseball-sim/sim-engine/internal/errs"
	"github.com/baseball-sim/sim-engine/internal/models"
)

// simulateRequest is the body of POST /simulate.
type simulateRequest struct {
	GameID         string           `json:"game_id" validate:"required"`
	SimulationRuns int              `json:"simulation_runs"`
	Config         *runConfigInput  `json:"config"`
}

type runConfigInput struct {
	TrialCapInnings    *int     `json:"trial_cap_innings"`
	ErrorRateTolerance *float64 `json:"error_rate_tolerance"`
	PersistTrials      *bool    `json:"persist_trials"`
	Seed               *uint64  `json:"seed"`
}

func (in *simulateRequest) toRunConfig() models.RunConfig {
	cfg := models.DefaultRunConfig()
	cfg.TrialCount = in.SimulationRuns
	if cfg.TrialCount <= 0 {
		cfg.TrialCount = 1000
	}
	if in.Config == nil {
		return cfg
	}
	if in.Config.TrialCapInnings != nil {
		cfg.TrialCapInnings = *in.Config.TrialCapInnings
	}
	if in.Config.ErrorRateTolerance != nil {
		cfg.ErrorRateTolerance = *in.Config.ErrorRateTolerance
	}
	if in.Config.PersistTrials != nil {
		cfg.PersistTrials = *in.Config.PersistTrials
	}
	if in.Config.Seed != nil {
		cfg.Seed = *in.Config.Seed
	}
	return cfg
}

type simulateResponse struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	cfg := req.toRunConfig()
	ctx := r.Context()

	if _, err := s.repo.LoadGameContext(ctx, req.GameID); err != nil {
		if errs.Is(err, errs.NotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		s.writeRepoError(w, err)
		return
	}

	runID := uuid.New().String()
	if err := s.repo.CreateRun(ctx, runID, req.GameID, cfg); err != nil {
		s.writeRepoError(w, err)
		return
	}

	s.startRun(runID, req.GameID, cfg)

	writeJSON(w, http.StatusOK, simulateResponse{RunID: runID, Status: "started", CreatedAt: time.Now()})
}

// startRun kicks off the Coordinator in the background; the HTTP request
// returns immediately once the Run row exists.
func (s *Server) startRun(runID, gameID string, cfg models.RunConfig) {
	go func() {
		s.metrics.active.Inc()
		defer s.metrics.active.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := s.coord.Start(ctx, runID, gameID, cfg, s.workers); err != nil {
			s.log.Error("run failed", "run_id", runID, "error", err)
		}
	}()
}

type statusResponse struct {
	RunID         string     `json:"run_id"`
	GameID        string     `json:"game_id"`
	Status        string     `json:"status"`
	TotalRuns     int        `json:"total_runs"`
	CompletedRuns int        `json:"completed_runs"`
	Progress      float64    `json:"progress"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.coord.GetStatus(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	progress := 0.0
	if run.Config.TrialCount > 0 {
		progress = float64(run.CompletedTrials) / float64(run.Config.TrialCount)
	}

	writeJSON(w, http.StatusOK, statusResponse{
		RunID: run.RunID, GameID: run.GameID, Status: string(run.Status),
		TotalRuns: run.Config.TrialCount, CompletedRuns: run.CompletedTrials,
		Progress: progress, CreatedAt: run.CreatedAt, CompletedAt: run.CompletedAt,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.coord.GetStatus(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	switch run.Status {
	case models.RunPending, models.RunRunning:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": string(run.Status)})
		return
	case models.RunError:
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": string(run.Status), "error": run.ErrorMessage})
		return
	}

	agg, err := s.coord.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "run completed but aggregate is missing")
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

type dailyRequest struct {
	Date           string          `json:"date"`
	SimulationRuns int             `json:"simulation_runs"`
	Config         *runConfigInput `json:"config"`
}

type dailySimulationEntry struct {
	GameID string `json:"game_id"`
	RunID  string `json:"run_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type dailyResponse struct {
	Date        string                 `json:"date"`
	GamesCount  int                    `json:"games_count"`
	Simulations []dailySimulationEntry `json:"simulations"`
}

func (s *Server) handleSimulateDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	ctx := r.Context()
	gameIDs, err := s.repo.ListScheduledGames(ctx, date)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	simReq := simulateRequest{SimulationRuns: req.SimulationRuns, Config: req.Config}
	entries := make([]dailySimulationEntry, 0, len(gameIDs))

	for _, gameID := range gameIDs {
		cfg := simReq.toRunConfig()
		runID := uuid.New().String()
		if err := s.repo.CreateRun(ctx, runID, gameID, cfg); err != nil {
			entries = append(entries, dailySimulationEntry{GameID: gameID, Status: "error", Error: err.Error()})
			continue
		}
		s.startRun(runID, gameID, cfg)
		entries = append(entries, dailySimulationEntry{GameID: gameID, RunID: runID, Status: "started"})
	}

	writeJSON(w, http.StatusOK, dailyResponse{Date: date.Format("2006-01-02"), GamesCount: len(gameIDs), Simulations: entries})
}

// pinger is implemented by repository backends that can report liveness.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if p, ok := s.repo.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			body["status"] = "degraded"
			body["repository"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	writeJSON(w, http.StatusOK, body)
}

