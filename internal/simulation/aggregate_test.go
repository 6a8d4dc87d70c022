package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-engine/internal/models"
)

func TestBuildAggregateEmptyTrials(t *testing.T) {
	agg := BuildAggregate("run-1", nil, nil)
	assert.Equal(t, "run-1", agg.RunID)
	assert.Equal(t, 0, agg.TotalTrials)
	assert.Equal(t, 0.0, agg.HomeWinProbability)
}

func TestBuildAggregateAllErrored(t *testing.T) {
	trials := []models.TrialResult{
		{RunID: "run-1", TrialNumber: 1, Errored: true},
		{RunID: "run-1", TrialNumber: 2, Errored: true},
	}
	agg := BuildAggregate("run-1", trials, nil)
	assert.Equal(t, 2, agg.TotalTrials)
	assert.Equal(t, 2, agg.ErroredTrials)
	assert.Equal(t, 0.0, agg.HomeWinProbability)
}

func TestBuildAggregateWinProbabilities(t *testing.T) {
	trials := []models.TrialResult{
		{HomeScore: 5, AwayScore: 2, Winner: "home"},
		{HomeScore: 3, AwayScore: 4, Winner: "away"},
		{HomeScore: 1, AwayScore: 1, Winner: "tie"},
		{HomeScore: 6, AwayScore: 0, Winner: "home"},
	}
	agg := BuildAggregate("run-1", trials, nil)

	assert.Equal(t, 4, agg.TotalTrials)
	assert.Equal(t, 0, agg.ErroredTrials)
	assert.Equal(t, 2, agg.HomeWins)
	assert.Equal(t, 1, agg.AwayWins)
	assert.Equal(t, 1, agg.Ties)
	assert.InDelta(t, 0.5, agg.HomeWinProbability, 0.0001)
	assert.InDelta(t, 3.75, agg.ExpectedHomeScore, 0.0001)
	assert.InDelta(t, 25.0, agg.Statistics["shutout_percentage"], 0.0001) // only the 6-0 game
}

func TestBuildAggregateExcludesErroredFromStatistics(t *testing.T) {
	trials := []models.TrialResult{
		{HomeScore: 4, AwayScore: 3, Winner: "home"},
		{Errored: true},
	}
	agg := BuildAggregate("run-1", trials, nil)
	assert.Equal(t, 2, agg.TotalTrials)
	assert.Equal(t, 1, agg.ErroredTrials)
	assert.Equal(t, 1, agg.HomeWins)
	assert.InDelta(t, 1.0, agg.HomeWinProbability, 0.0001)
}

func TestBuildAggregateEnrichesContextFromGameContext(t *testing.T) {
	gc := &models.GameContext{
		HomeTeamName: "Home Team", AwayTeamName: "Away Team",
		Stadium: models.Stadium{ParkFactors: models.DefaultParkFactors()},
		Umpire:  models.Umpire{ID: "ump-1", Name: "Ump One"},
		Weather: models.Weather{Temperature: 72, WindDir: "calm"},
	}
	agg := BuildAggregate("run-1", nil, gc)
	require.NotNil(t, agg.Context)
	assert.Equal(t, "Home Team", agg.Context.HomeTeam)
	assert.Equal(t, "Away Team", agg.Context.AwayTeam)
	assert.Equal(t, "ump-1", agg.Context.Umpire.ID)
	assert.Equal(t, 72, agg.Context.Weather.Temperature)
}

func TestTopLeverageEventsOrdersDescending(t *testing.T) {
	events := []models.GameEvent{
		{Type: "single", Leverage: 1.2},
		{Type: "home_run", Leverage: 3.4},
		{Type: "double", Leverage: 2.1},
	}
	top := topLeverageEvents(events, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "home_run", top[0].Type)
	assert.Equal(t, "double", top[1].Type)
}
