package simulation

import (
	"math/rand"
	"time"

	"github.com/baseball-sim/sim-engine/internal/models"
)

// Driver runs one full game from first pitch to final out, given a seeded
// RNG so the same (gameContext, seed) pair always reproduces the same
// trial (spec §8 replay determinism).
type Driver struct {
	cap int // trial cap in innings; extra-inning games stop here regardless of score
}

// NewDriver returns a Driver bounded by capInnings.
func NewDriver(capInnings int) *Driver {
	if capInnings <= 0 {
		capInnings = 30
	}
	return &Driver{cap: capInnings}
}

// Run simulates one game and returns its TrialResult. trialNumber is
// stamped onto the result for persistence idempotence.
func (d *Driver) Run(gc *models.GameContext, runID string, trialNumber int, rng *rand.Rand) models.TrialResult {
	gameState := models.NewGameState(gc.GameID, runID)
	gameState.Weather = gc.Weather

	homeLineup := lineupPlayers(&gc.HomeRoster)
	awayLineup := lineupPlayers(&gc.AwayRoster)
	homePitcher := gc.HomeRoster.StartingPitcher()
	awayPitcher := gc.AwayRoster.StartingPitcher()

	battingLines := make(map[string]*models.PlayerGameBatting)
	pitchingLines := make(map[string]*models.PlayerGamePitching)
	for _, p := range homeLineup {
		battingLines[p.ID] = &models.PlayerGameBatting{PlayerID: p.ID}
	}
	for _, p := range awayLineup {
		battingLines[p.ID] = &models.PlayerGameBatting{PlayerID: p.ID}
	}
	pitchingLines[homePitcher.ID] = &models.PlayerGamePitching{PlayerID: homePitcher.ID}
	pitchingLines[awayPitcher.ID] = &models.PlayerGamePitching{PlayerID: awayPitcher.ID}

	var events []models.GameEvent
	pitchCount := 0
	homeIdx, awayIdx := 0, 0

	for !gameState.IsGameOver() && gameState.Inning <= d.cap {
		var batter *models.Player
		var pitcher *models.Player
		var idx *int
		var lineup []*models.Player

		if gameState.InningHalf == "top" {
			lineup, idx, pitcher = awayLineup, &awayIdx, homePitcher
		} else {
			lineup, idx, pitcher = homeLineup, &homeIdx, awayPitcher
		}
		batter = lineup[*idx]

		gameState.CurrentAB = models.AtBat{
			BatterID: batter.ID, BatterName: batter.Name,
			PitcherID: pitcher.ID, PitcherName: pitcher.Name,
			BatterHand: batter.Hand, PitcherHand: pitcher.ThrowHand,
			Leverage: gameState.CalculateLeverage(),
		}

		mods := d.buildModifiers(gc, batter, pitcher)
		result := SampleAtBat(batter, pitcher, mods, rng)
		pitches := 3 + rng.Intn(6)
		pitchCount += pitches

		runs, outs := applyAtBatResult(gameState, result, rng)

		recordBatting(battingLines[batter.ID], result, runs)
		recordPitching(pitchingLines[pitcher.ID], result, runs, outs, pitches)

		event := models.GameEvent{
			Type: result.Type, Inning: gameState.Inning, InningHalf: gameState.InningHalf,
			BatterID: batter.ID, PitcherID: pitcher.ID, Result: result.Type,
			Runs: runs, Outs: outs, Leverage: gameState.CurrentAB.Leverage,
			Timestamp: time.Now(),
		}
		if event.Leverage > 1.5 && (runs > 0 || result.Type == "home_run") {
			events = append(events, event)
		}

		gameState.Outs += outs
		gameState.AddRuns(runs)
		*idx = (*idx + 1) % len(lineup)

		if gameState.IsInningOver() {
			if gameState.IsGameOver() {
				break
			}
			gameState.AdvanceInning()
		}
		gameState.Count = models.Count{}
	}

	winner := "tie"
	switch {
	case gameState.HomeScore > gameState.AwayScore:
		winner = "home"
	case gameState.AwayScore > gameState.HomeScore:
		winner = "away"
	}

	duration := 150 + rng.Intn(60)
	if gameState.Inning > 9 {
		duration += (gameState.Inning - 9) * 20
	}

	return models.TrialResult{
		RunID: runID, TrialNumber: trialNumber,
		HomeScore: gameState.HomeScore, AwayScore: gameState.AwayScore, Winner: winner,
		TotalPitches: pitchCount, DurationMins: duration, KeyEvents: events,
		BattingLines: battingLines, PitchingLines: pitchingLines, CreatedAt: time.Now(),
	}
}

func (d *Driver) buildModifiers(gc *models.GameContext, batter, pitcher *models.Player) Modifiers {
	return Modifiers{
		Park:    ParkModifiers(gc.Stadium.ParkFactors, batter.Hand, gc.Stadium.Altitude),
		Weather: WeatherModifier(gc.Weather),
		Umpire:  UmpireModifiers(gc.Umpire.Tendencies),
		Platoon: PlatoonModifier(batter.Hand, pitcher.ThrowHand),
	}
}

func lineupPlayers(r *models.Roster) []*models.Player {
	players := make([]*models.Player, 0, len(r.Lineup))
	for _, id := range r.Lineup {
		if p := r.PlayerByID(id); p != nil {
			players = append(players, p)
		}
	}
	return players
}

// applyAtBatResult advances baserunners per the spec's base-advancement
// table and returns runs scored and outs recorded. All randomness comes
// from the trial's seeded rng, never the package-level source, so a
// replay with the same seed reproduces the same baserunning.
func applyAtBatResult(gs *models.GameState, result models.AtBatResult, rng *rand.Rand) (runs, outs int) {
	switch result.Type {
	case "single":
		return processSingle(gs, rng)
	case "double":
		return processDouble(gs, rng)
	case "triple":
		return processTriple(gs)
	case "home_run":
		return processHomeRun(gs)
	case "walk", "hit_by_pitch":
		return processWalk(gs)
	default:
		return 0, 1
	}
}

func newRunnerAtFirst(gs *models.GameState) *models.BaseRunner {
	return &models.BaseRunner{PlayerID: gs.CurrentAB.BatterID, Name: gs.CurrentAB.BatterName, Speed: 50.0}
}

// processSingle: third always scores; second scores 85% of the time
// (else advances to third); first advances to third 15% of the time
// (else second). These probabilities match the spec's base-advancement
// table exactly.
func processSingle(gs *models.GameState, rng *rand.Rand) (runs, outs int) {
	if gs.Bases.Third != nil {
		runs++
		gs.Bases.Third = nil
	}
	if gs.Bases.Second != nil {
		if rng.Float64() < 0.85 {
			runs++
			gs.Bases.Second = nil
		} else {
			gs.Bases.Third = gs.Bases.Second
			gs.Bases.Second = nil
		}
	}
	if gs.Bases.First != nil {
		if rng.Float64() < 0.15 {
			gs.Bases.Third = gs.Bases.First
		} else {
			gs.Bases.Second = gs.Bases.First
		}
		gs.Bases.First = nil
	}
	gs.Bases.First = newRunnerAtFirst(gs)
	return runs, 0
}

// processDouble: third and second always score; first scores 75% of the
// time (else holds at third).
func processDouble(gs *models.GameState, rng *rand.Rand) (runs, outs int) {
	if gs.Bases.Third != nil {
		runs++
		gs.Bases.Third = nil
	}
	if gs.Bases.Second != nil {
		runs++
		gs.Bases.Second = nil
	}
	if gs.Bases.First != nil {
		if rng.Float64() < 0.75 {
			runs++
		} else {
			gs.Bases.Third = gs.Bases.First
		}
		gs.Bases.First = nil
	}
	gs.Bases.Second = newRunnerAtFirst(gs)
	return runs, 0
}

func processTriple(gs *models.GameState) (runs, outs int) {
	if gs.Bases.Third != nil {
		runs++
		gs.Bases.Third = nil
	}
	if gs.Bases.Second != nil {
		runs++
		gs.Bases.Second = nil
	}
	if gs.Bases.First != nil {
		runs++
		gs.Bases.First = nil
	}
	gs.Bases.Third = newRunnerAtFirst(gs)
	return runs, 0
}

func processHomeRun(gs *models.GameState) (runs, outs int) {
	runs = 1
	if gs.Bases.Third != nil {
		runs++
		gs.Bases.Third = nil
	}
	if gs.Bases.Second != nil {
		runs++
		gs.Bases.Second = nil
	}
	if gs.Bases.First != nil {
		runs++
		gs.Bases.First = nil
	}
	return runs, 0
}

func processWalk(gs *models.GameState) (runs, outs int) {
	switch {
	case gs.Bases.First != nil && gs.Bases.Second != nil && gs.Bases.Third != nil:
		runs++
		gs.Bases.Third = gs.Bases.Second
		gs.Bases.Second = gs.Bases.First
	case gs.Bases.First != nil && gs.Bases.Second != nil:
		gs.Bases.Third = gs.Bases.Second
		gs.Bases.Second = gs.Bases.First
	case gs.Bases.First != nil:
		gs.Bases.Second = gs.Bases.First
	}
	gs.Bases.First = newRunnerAtFirst(gs)
	return runs, 0
}

func recordBatting(line *models.PlayerGameBatting, result models.AtBatResult, runs int) {
	if line == nil {
		return
	}
	line.PA++
	switch result.Type {
	case "single":
		line.AB++
		line.H++
		line.RBI += runs
	case "double":
		line.AB++
		line.H++
		line.Doubles++
		line.RBI += runs
	case "triple":
		line.AB++
		line.H++
		line.Triples++
		line.RBI += runs
	case "home_run":
		line.AB++
		line.H++
		line.HR++
		line.RBI += runs
		line.Runs++
	case "walk":
		line.BB++
	case "hit_by_pitch":
		line.HBP++
	case "strikeout":
		line.AB++
		line.SO++
	default:
		line.AB++
	}
}

func recordPitching(line *models.PlayerGamePitching, result models.AtBatResult, runs, outs, pitches int) {
	if line == nil {
		return
	}
	line.PitchesThrown += pitches
	line.OutsRecorded += outs
	line.R += runs
	line.ER += runs
	switch result.Type {
	case "single", "double", "triple", "home_run":
		line.H++
		if result.Type == "home_run" {
			line.HR++
		}
	case "walk", "hit_by_pitch":
		line.BB++
	case "strikeout":
		line.SO++
	}
}
