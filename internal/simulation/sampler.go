package simulation

import (
	"math/rand"

	"github.com/baseball-sim/sim-engine/internal/models"
)

// outcomeOrder fixes the order outcomes are accumulated in for the
// cumulative draw, so the same seed always produces the same outcome.
var outcomeOrder = []string{
	"strikeout", "walk", "hit_by_pitch", "single", "double", "triple", "home_run", "out",
}

func rateByOutcome(r models.PAOutcomeRates) map[string]float64 {
	return map[string]float64{
		"strikeout":    r.Strikeout,
		"walk":         r.Walk,
		"hit_by_pitch": r.HitByPitch,
		"single":       r.Single,
		"double":       r.Double,
		"triple":       r.Triple,
		"home_run":     r.HomeRun,
		"out":          r.InPlayOut,
	}
}

// Modifiers are the multiplicative adjustments applied to the blended
// base rate before renormalization (spec §4.4).
type Modifiers struct {
	Park     map[string]float64
	Weather  float64 // applied to extra-base-hit outcomes only
	Umpire   map[string]float64
	Platoon  float64 // applied to the four hit outcomes (single through home run)
}

// SampleAtBat implements the log-odds-ratio / odds-ratio blend: for each
// outcome o, blend = battterRate(o) * pitcherRate(o) / leagueRate(o), then
// apply park/weather/umpire/platoon multiplicative modifiers, renormalize
// to sum to 1, and draw a single outcome from rng against the cumulative
// breakpoints. Two calls with an identically-seeded rng and identical
// inputs always produce the same outcome — rng must never be a
// package-level source, it is supplied by the caller per trial.
func SampleAtBat(batter, pitcher *models.Player, mods Modifiers, rng *rand.Rand) models.AtBatResult {
	batterRates := rateByOutcome(batter.Batting.PAOutcomeRates())
	pitcherRates := rateByOutcome(pitcher.Pitching.PAOutcomeRatesAllowed())
	leagueRates := rateByOutcome(models.LeagueAverageRates)

	blended := make(map[string]float64, len(outcomeOrder))
	for _, o := range outcomeOrder {
		lg := leagueRates[o]
		if lg <= 0 {
			lg = 0.001
		}
		blended[o] = (batterRates[o] * pitcherRates[o]) / lg
	}

	applyModifiers(blended, mods)

	total := 0.0
	for _, o := range outcomeOrder {
		total += blended[o]
	}
	if total <= 0 {
		total = 1.0
	}

	draw := rng.Float64()
	cumulative := 0.0
	chosen := "out"
	for _, o := range outcomeOrder {
		cumulative += blended[o] / total
		if draw <= cumulative {
			chosen = o
			break
		}
	}

	return toAtBatResult(chosen)
}

func applyModifiers(blended map[string]float64, mods Modifiers) {
	for o, mult := range mods.Park {
		if v, ok := blended[o]; ok {
			blended[o] = v * mult
		}
	}

	switch {
	case mods.Weather != 0:
		for _, o := range []string{"double", "triple", "home_run"} {
			blended[o] *= mods.Weather
		}
	}

	for o, mult := range mods.Umpire {
		if v, ok := blended[o]; ok {
			blended[o] = v * mult
		}
	}

	if mods.Platoon != 0 {
		for _, o := range []string{"single", "double", "triple", "home_run"} {
			blended[o] *= mods.Platoon
		}
	}
}

func toAtBatResult(outcome string) models.AtBatResult {
	switch outcome {
	case "single":
		return models.AtBatResult{Type: "single", Bases: 1, IsHit: true}
	case "double":
		return models.AtBatResult{Type: "double", Bases: 2, IsHit: true}
	case "triple":
		return models.AtBatResult{Type: "triple", Bases: 3, IsHit: true}
	case "home_run":
		return models.AtBatResult{Type: "home_run", Bases: 4, IsHit: true}
	case "walk":
		return models.AtBatResult{Type: "walk"}
	case "hit_by_pitch":
		return models.AtBatResult{Type: "hit_by_pitch"}
	case "strikeout":
		return models.AtBatResult{Type: "strikeout", IsOut: true, Outs: 1}
	default:
		return models.AtBatResult{Type: "out", IsOut: true, Outs: 1}
	}
}

// ParkModifiers derives per-outcome multipliers from a stadium's park
// factors, following the teacher's ParkFactors.GetParkFactorMultiplier
// outcome-key convention.
func ParkModifiers(pf models.ParkFactors, batterHand string, altitude int) map[string]float64 {
	altitudeEffect := models.GetAltitudeEffect(altitude)
	return map[string]float64{
		"single":   pf.GetParkFactorMultiplier("single", batterHand),
		"double":   pf.GetParkFactorMultiplier("double", batterHand),
		"triple":   pf.GetParkFactorMultiplier("triple", batterHand),
		"home_run": pf.GetParkFactorMultiplier("home_run", batterHand) * altitudeEffect,
		"walk":     pf.GetParkFactorMultiplier("walk", batterHand),
	}
}

// WeatherModifier converts ambient conditions into a single extra-base-hit
// multiplier: warmer/thinner air and an out-blowing wind both carry the
// ball further, following the teacher's weather-to-offense relationship.
func WeatherModifier(w models.Weather) float64 {
	mult := 1.0
	if w.Temperature > 75 {
		mult += float64(w.Temperature-75) * 0.002
	} else if w.Temperature < 50 {
		mult -= float64(50-w.Temperature) * 0.002
	}
	switch w.WindDir {
	case "out":
		mult += float64(w.WindSpeed) * 0.004
	case "in":
		mult -= float64(w.WindSpeed) * 0.004
	}
	if mult < 0.8 {
		mult = 0.8
	}
	if mult > 1.25 {
		mult = 1.25
	}
	return mult
}

// UmpireModifiers converts an umpire's tendencies into strikeout/walk
// multipliers.
func UmpireModifiers(ut models.UmpireTendencies) map[string]float64 {
	return map[string]float64{
		"strikeout": 1.0 + ut.GetStrikeoutAdjustment()/100.0,
		"walk":      1.0 + ut.GetWalkAdjustment()/100.0,
	}
}

// PlatoonModifier returns the multiplier for same- vs opposite-handed
// matchups: batters generally perform better against opposite-handed
// pitching.
func PlatoonModifier(batterHand, pitcherHand string) float64 {
	if batterHand == "S" {
		return 1.05
	}
	if batterHand != pitcherHand {
		return 1.05
	}
	return 0.95
}
