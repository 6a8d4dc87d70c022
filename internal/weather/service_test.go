package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-engine/internal/models"
)

func TestNewService(t *testing.T) {
	svc := NewService("test_key_123", nil)
	assert.Equal(t, "test_key_123", svc.apiKey)
	require.NotNil(t, svc.cache)
	require.NotNil(t, svc.httpClient)
}

func TestStadiumIsDome(t *testing.T) {
	tests := []struct {
		roofType string
		expected bool
	}{
		{"dome", true},
		{"indoor", true},
		{"fixed", true},
		{"retractable", false},
		{"open", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.roofType, func(t *testing.T) {
			s := models.Stadium{RoofType: tt.roofType}
			assert.Equal(t, tt.expected, s.IsDome())
		})
	}
}

func TestGetControlledConditions(t *testing.T) {
	svc := NewService("test_key", nil)
	weather := svc.getControlledConditions()
	assert.Equal(t, 72, weather.Temperature)
	assert.Equal(t, 0, weather.WindSpeed)
	assert.Equal(t, "calm", weather.WindDir)
}

func TestDegreesToDirection(t *testing.T) {
	tests := []struct {
		degrees  int
		expected string
	}{
		{0, "out"},
		{350, "out"},
		{-10, "out"},
		{60, "right"},
		{150, "in"},
		{240, "left"},
		{300, "out"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, degreesToDirection(tt.degrees))
	}
}

func TestCacheRoundTrip(t *testing.T) {
	svc := NewService("test_key", nil)
	stadium := models.Stadium{ID: "park-1"}
	gameTime := time.Date(2026, 7, 30, 19, 0, 0, 0, time.UTC)
	key := svc.getCacheKey(stadium, gameTime)

	_, ok := svc.getCachedForecast(key)
	assert.False(t, ok)

	want := models.Weather{Temperature: 68, WindSpeed: 5, WindDir: "out", Humidity: 60, Pressure: 29.8}
	svc.cacheForecast(key, want)

	got, ok := svc.getCachedForecast(key)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCleanExpiredCache(t *testing.T) {
	svc := NewService("test_key", nil)
	svc.cache.data["stale"] = &cachedForecast{
		weather:   models.Weather{Temperature: 70},
		expiresAt: time.Now().Add(-time.Minute),
	}
	svc.cache.data["fresh"] = &cachedForecast{
		weather:   models.Weather{Temperature: 75},
		expiresAt: time.Now().Add(time.Hour),
	}

	svc.CleanExpiredCache()

	assert.Equal(t, 1, svc.cacheSize())
	_, ok := svc.cache.data["fresh"]
	assert.True(t, ok)
}

func TestGetDefaultWeatherAppliesAltitude(t *testing.T) {
	svc := NewService("", nil)
	sea := svc.getDefaultWeather(models.Stadium{Altitude: 0})
	high := svc.getDefaultWeather(models.Stadium{Altitude: 5280})
	assert.Greater(t, sea.Pressure, high.Pressure)
}
