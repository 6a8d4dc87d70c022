package models

import "time"

// RunStatusKind is the lifecycle state of a simulation run (spec §3/§7).
type RunStatusKind string

const (
	RunPending   RunStatusKind = "pending"
	RunRunning   RunStatusKind = "running"
	RunCompleted RunStatusKind = "completed"
	RunError     RunStatusKind = "error"
)

// legalTransitions enumerates the only status changes a Run may undergo.
var legalTransitions = map[RunStatusKind][]RunStatusKind{
	RunPending:   {RunRunning, RunError},
	RunRunning:   {RunCompleted, RunError},
	RunCompleted: {},
	RunError:     {},
}

// CanTransitionTo reports whether moving from s to next is a legal status
// transition. Terminal states (completed, error) never transition further.
func (s RunStatusKind) CanTransitionTo(next RunStatusKind) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RunConfig captures the knobs a caller may set when starting a run,
// separate from the run's identity/status fields.
type RunConfig struct {
	TrialCount         int     `json:"trial_count"`
	Seed               uint64  `json:"seed"`
	TrialCapInnings    int     `json:"trial_cap_innings"`
	ErrorRateTolerance float64 `json:"error_rate_tolerance"`
	PersistTrials      bool    `json:"persist_trials"`
}

// DefaultRunConfig returns the configuration used when a caller does not
// specify the optional tuning fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		TrialCapInnings:    30,
		ErrorRateTolerance: 0.10,
		PersistTrials:      true,
	}
}

// Run is the durable record of one simulation request: which game, how
// many trials, and its current lifecycle status.
type Run struct {
	RunID           string        `json:"run_id"`
	GameID          string        `json:"game_id"`
	Status          RunStatusKind `json:"status"`
	Config          RunConfig     `json:"config"`
	CompletedTrials int           `json:"completed_trials"`
	ErroredTrials   int           `json:"errored_trials"`
	ErrorMessage    string        `json:"error_message,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// TrialResult is the outcome of one simulated game within a run.
type TrialResult struct {
	RunID         string                        `json:"run_id"`
	TrialNumber   int                           `json:"trial_number"`
	HomeScore     int                           `json:"home_score"`
	AwayScore     int                           `json:"away_score"`
	Winner        string                        `json:"winner"` // "home", "away", "tie"
	TotalPitches  int                           `json:"total_pitches"`
	DurationMins  int                           `json:"duration_minutes"`
	KeyEvents     []GameEvent                   `json:"key_events"`
	BattingLines  map[string]*PlayerGameBatting  `json:"batting_lines,omitempty"`
	PitchingLines map[string]*PlayerGamePitching `json:"pitching_lines,omitempty"`
	Errored       bool                          `json:"errored"`
	ErrorMessage  string                        `json:"error_message,omitempty"`
	CreatedAt     time.Time                     `json:"created_at"`
}

// RunContext is the game-level detail a completed run's Aggregate is
// enriched with: the teams involved, the weather the trials ran under,
// the stadium's park factors, and the plate umpire.
type RunContext struct {
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	Weather     Weather     `json:"weather"`
	ParkFactors ParkFactors `json:"park_factors"`
	Umpire      Umpire      `json:"umpire"`
}

// Aggregate is the combined result of every trial in a run, commutatively
// and associatively merged (spec §5/§8: order of trial completion must not
// affect the final aggregate).
type Aggregate struct {
	RunID                 string             `json:"run_id"`
	TotalTrials           int                `json:"total_trials"`
	ErroredTrials         int                `json:"errored_trials"`
	HomeWins              int                `json:"home_wins"`
	AwayWins              int                `json:"away_wins"`
	Ties                  int                `json:"ties"`
	HomeWinProbability    float64            `json:"home_win_probability"`
	AwayWinProbability    float64            `json:"away_win_probability"`
	TieProbability        float64            `json:"tie_probability"`
	ExpectedHomeScore     float64            `json:"expected_home_score"`
	ExpectedAwayScore     float64            `json:"expected_away_score"`
	HomeScoreDistribution map[int]int        `json:"home_score_distribution"`
	AwayScoreDistribution map[int]int        `json:"away_score_distribution"`
	AverageDurationMins   float64            `json:"average_duration_minutes"`
	AveragePitches        float64            `json:"average_pitches"`
	HighLeverageEvents    []GameEvent        `json:"high_leverage_events"`
	Statistics            map[string]float64 `json:"statistics"`
	Context               *RunContext        `json:"context,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}
