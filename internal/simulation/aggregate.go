package simulation

import (
	"sort"

	"github.com/baseball-sim/sim-engine/internal/models"
)

// BuildAggregate folds a run's trial results into a single Aggregate:
// win counts, score distributions, and derived statistics. Safe to call
// with zero valid trials (an all-errored run) — returns an Aggregate with
// only the trial counts (and context) filled in and zero probabilities and
// means, rather than dividing by zero. When gc is non-nil, the
// aggregate is enriched with the game's context (team names, weather,
// park factors, umpire) so GetResult never needs to rejoin it later.
func BuildAggregate(runID string, trials []models.TrialResult, gc *models.GameContext) models.Aggregate {
	agg := models.Aggregate{
		RunID:                 runID,
		HomeScoreDistribution: make(map[int]int),
		AwayScoreDistribution: make(map[int]int),
		Statistics:            make(map[string]float64),
	}
	if gc != nil {
		agg.Context = &models.RunContext{
			HomeTeam:    gc.HomeTeamName,
			AwayTeam:    gc.AwayTeamName,
			Weather:     gc.Weather,
			ParkFactors: gc.Stadium.ParkFactors,
			Umpire:      gc.Umpire,
		}
	}

	valid := make([]models.TrialResult, 0, len(trials))
	for _, t := range trials {
		agg.TotalTrials++
		if t.Errored {
			agg.ErroredTrials++
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return agg
	}

	var totalHome, totalAway, totalDuration, totalPitches float64
	var highLeverage []models.GameEvent

	for _, t := range valid {
		switch t.Winner {
		case "home":
			agg.HomeWins++
		case "away":
			agg.AwayWins++
		case "tie":
			agg.Ties++
		}

		agg.HomeScoreDistribution[t.HomeScore]++
		agg.AwayScoreDistribution[t.AwayScore]++

		totalHome += float64(t.HomeScore)
		totalAway += float64(t.AwayScore)
		totalDuration += float64(t.DurationMins)
		totalPitches += float64(t.TotalPitches)

		for _, event := range t.KeyEvents {
			if event.Leverage > 2.0 {
				highLeverage = append(highLeverage, event)
			}
		}
	}

	n := float64(len(valid))
	agg.HomeWinProbability = float64(agg.HomeWins) / n
	agg.AwayWinProbability = float64(agg.AwayWins) / n
	agg.TieProbability = float64(agg.Ties) / n
	agg.ExpectedHomeScore = totalHome / n
	agg.ExpectedAwayScore = totalAway / n
	agg.AverageDurationMins = totalDuration / n
	agg.AveragePitches = totalPitches / n

	agg.Statistics["total_runs_average"] = agg.ExpectedHomeScore + agg.ExpectedAwayScore
	agg.Statistics["score_variance"] = scoreVariance(valid, agg.ExpectedHomeScore, agg.ExpectedAwayScore)
	agg.Statistics["blowout_percentage"] = marginPercentage(valid, func(margin int) bool { return margin >= 7 })
	agg.Statistics["one_run_game_percentage"] = marginPercentage(valid, func(margin int) bool { return margin == 1 })
	agg.Statistics["shutout_percentage"] = percentageWhere(valid, func(t models.TrialResult) bool {
		return t.HomeScore == 0 || t.AwayScore == 0
	})
	agg.Statistics["high_scoring_percentage"] = percentageWhere(valid, func(t models.TrialResult) bool {
		return t.HomeScore+t.AwayScore >= 12
	})

	agg.HighLeverageEvents = topLeverageEvents(highLeverage, 50)
	return agg
}

func scoreVariance(trials []models.TrialResult, expectedHome, expectedAway float64) float64 {
	expectedTotal := expectedHome + expectedAway
	var sumSquaredDiffs float64
	for _, t := range trials {
		diff := float64(t.HomeScore+t.AwayScore) - expectedTotal
		sumSquaredDiffs += diff * diff
	}
	return sumSquaredDiffs / float64(len(trials))
}

func marginPercentage(trials []models.TrialResult, match func(margin int) bool) float64 {
	count := 0
	for _, t := range trials {
		margin := t.HomeScore - t.AwayScore
		if margin < 0 {
			margin = -margin
		}
		if match(margin) {
			count++
		}
	}
	return float64(count) / float64(len(trials)) * 100.0
}

func percentageWhere(trials []models.TrialResult, match func(models.TrialResult) bool) float64 {
	count := 0
	for _, t := range trials {
		if match(t) {
			count++
		}
	}
	return float64(count) / float64(len(trials)) * 100.0
}

// topLeverageEvents returns the limit highest-leverage events, highest first.
func topLeverageEvents(events []models.GameEvent, limit int) []models.GameEvent {
	sort.Slice(events, func(i, j int) bool { return events[i].Leverage > events[j].Leverage })
	if len(events) > limit {
		return events[:limit]
	}
	return events
}
