package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-engine/internal/models"
)

func testBatter() *models.Player {
	return &models.Player{ID: "b1", Hand: "R", Batting: models.DefaultBattingStats()}
}

func testPitcher() *models.Player {
	return &models.Player{ID: "p1", Hand: "R", Pitching: models.DefaultPitchingStats()}
}

func TestSampleAtBatIsDeterministic(t *testing.T) {
	batter := testBatter()
	pitcher := testPitcher()
	mods := Modifiers{}

	rng1 := rand.New(rand.NewSource(42))
	rng2 := rand.New(rand.NewSource(42))

	var results1, results2 []string
	for i := 0; i < 200; i++ {
		results1 = append(results1, SampleAtBat(batter, pitcher, mods, rng1).Type)
		results2 = append(results2, SampleAtBat(batter, pitcher, mods, rng2).Type)
	}

	assert.Equal(t, results1, results2)
}

func TestSampleAtBatDifferentSeedsDiverge(t *testing.T) {
	batter := testBatter()
	pitcher := testPitcher()
	mods := Modifiers{}

	rng1 := rand.New(rand.NewSource(1))
	rng2 := rand.New(rand.NewSource(2))

	var results1, results2 []string
	for i := 0; i < 500; i++ {
		results1 = append(results1, SampleAtBat(batter, pitcher, mods, rng1).Type)
		results2 = append(results2, SampleAtBat(batter, pitcher, mods, rng2).Type)
	}

	assert.NotEqual(t, results1, results2)
}

func TestSampleAtBatProducesValidOutcomeTypes(t *testing.T) {
	batter := testBatter()
	pitcher := testPitcher()
	rng := rand.New(rand.NewSource(7))
	valid := map[string]bool{
		"single": true, "double": true, "triple": true, "home_run": true,
		"walk": true, "hit_by_pitch": true, "strikeout": true, "out": true,
	}

	for i := 0; i < 1000; i++ {
		result := SampleAtBat(batter, pitcher, Modifiers{}, rng)
		require.True(t, valid[result.Type], "unexpected outcome type %q", result.Type)
	}
}

func TestParkModifiersAppliesAltitudeToHomeRun(t *testing.T) {
	pf := models.DefaultParkFactors()
	sea := ParkModifiers(pf, "R", 0)
	high := ParkModifiers(pf, "R", 5280)
	assert.Greater(t, high["home_run"], sea["home_run"])
}

func TestWeatherModifierBounds(t *testing.T) {
	hot := WeatherModifier(models.Weather{Temperature: 110, WindSpeed: 30, WindDir: "out"})
	cold := WeatherModifier(models.Weather{Temperature: 20, WindSpeed: 30, WindDir: "in"})
	assert.LessOrEqual(t, hot, 1.25)
	assert.GreaterOrEqual(t, cold, 0.8)
	assert.Greater(t, hot, cold)
}

func TestPlatoonModifierFavorsOppositeHand(t *testing.T) {
	assert.Greater(t, PlatoonModifier("L", "R"), PlatoonModifier("R", "R"))
}
