// Package weather fetches and caches game-time forecasts for the At-Bat
// Sampler's weather modifier.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/baseball-sim/sim-engine/internal/models"
)

const (
	openWeatherAPIURL = "https://api.openweathermap.org/data/2.5/forecast"
	cacheDuration     = 30 * time.Minute
	requestTimeout    = 10 * time.Second
	sweepInterval     = 15 * time.Minute
)

// Service handles weather data fetching and caching. The cache is a
// single process-wide table protected by a read-write mutex, per the
// concurrency model's shared-resource policy — deliberately not Redis,
// since nothing outside this process needs the forecast.
type Service struct {
	apiKey     string
	httpClient *http.Client
	cache      *forecastCache
	log        *charmlog.Logger
}

type forecastCache struct {
	mu   sync.RWMutex
	data map[string]*cachedForecast
}

type cachedForecast struct {
	weather   models.Weather
	expiresAt time.Time
}

// OpenWeatherResponse is the subset of OpenWeatherMap's 5-day/3-hour
// forecast response this service reads.
type OpenWeatherResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Pressure float64 `json:"pressure"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
}

// NewService creates a weather service. apiKey may be empty — calls then
// always fall through to getDefaultWeather.
func NewService(apiKey string, logger *charmlog.Logger) *Service {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Service{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      &forecastCache{data: make(map[string]*cachedForecast)},
		log:        logger.With("component", "weather"),
	}
}

// GetWeatherForGame resolves the forecast for a game at gameTime, in the
// decision order the spec requires: dome short-circuit, cache, coordinate
// validation, live fetch, then fallback defaults.
func (s *Service) GetWeatherForGame(ctx context.Context, stadium models.Stadium, gameTime time.Time) (models.Weather, error) {
	if stadium.IsDome() {
		s.log.Debug("dome stadium, using controlled conditions", "stadium", stadium.Name)
		return s.getControlledConditions(), nil
	}

	cacheKey := s.getCacheKey(stadium, gameTime)
	if cached, ok := s.getCachedForecast(cacheKey); ok {
		s.log.Debug("weather cache hit", "stadium", stadium.Name)
		return cached, nil
	}

	if stadium.Latitude == 0 && stadium.Longitude == 0 {
		s.log.Warn("no coordinates for stadium, using default weather", "stadium", stadium.Name)
		return s.getDefaultWeather(stadium), nil
	}

	weather, err := s.fetchForecast(ctx, stadium, gameTime)
	if err != nil {
		s.log.Warn("weather fetch failed, using default", "stadium", stadium.Name, "error", err)
		return s.getDefaultWeather(stadium), nil
	}

	s.cacheForecast(cacheKey, weather)
	return weather, nil
}

func (s *Service) getControlledConditions() models.Weather {
	return models.Weather{Temperature: 72, WindSpeed: 0, WindDir: "calm", Humidity: 50, Pressure: 29.92}
}

func (s *Service) getDefaultWeather(stadium models.Stadium) models.Weather {
	month := time.Now().Month()
	temp := 72
	switch {
	case month >= 4 && month <= 9:
		temp = 75
	default:
		temp = 55
	}

	pressure := 29.92
	if stadium.Altitude > 0 {
		pressure -= float64(stadium.Altitude) / 1000.0
	}

	return models.Weather{Temperature: temp, WindSpeed: 8, WindDir: "varies", Humidity: 55, Pressure: pressure}
}

func (s *Service) fetchForecast(ctx context.Context, stadium models.Stadium, gameTime time.Time) (models.Weather, error) {
	if s.apiKey == "" {
		return models.Weather{}, fmt.Errorf("weather API key not configured")
	}

	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%.4f", stadium.Latitude))
	params.Add("lon", fmt.Sprintf("%.4f", stadium.Longitude))
	params.Add("appid", s.apiKey)
	params.Add("units", "imperial")
	params.Add("cnt", "40")

	apiURL := fmt.Sprintf("%s?%s", openWeatherAPIURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return models.Weather{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Weather{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.Weather{}, fmt.Errorf("forecast API returned %d: %s", resp.StatusCode, string(body))
	}

	var weatherResp OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&weatherResp); err != nil {
		return models.Weather{}, fmt.Errorf("decoding forecast response: %w", err)
	}

	return s.findClosestForecast(weatherResp, gameTime, stadium)
}

func (s *Service) findClosestForecast(resp OpenWeatherResponse, gameTime time.Time, stadium models.Stadium) (models.Weather, error) {
	if len(resp.List) == 0 {
		return models.Weather{}, fmt.Errorf("no forecast entries returned")
	}

	var closest *forecastEntry
	minDiff := time.Duration(1<<63 - 1)
	for i := range resp.List {
		entry := &resp.List[i]
		diff := gameTime.Sub(time.Unix(entry.Dt, 0))
		if diff < 0 {
			diff = -diff
		}
		if diff < minDiff {
			minDiff = diff
			closest = entry
		}
	}
	if closest == nil {
		return models.Weather{}, fmt.Errorf("no suitable forecast entry found")
	}

	weather := models.Weather{
		Temperature: int(closest.Main.Temp),
		WindSpeed:   int(closest.Wind.Speed),
		WindDir:     degreesToDirection(closest.Wind.Deg),
		Humidity:    closest.Main.Humidity,
		Pressure:    closest.Main.Pressure,
	}
	if stadium.Altitude > 0 {
		weather.Pressure -= float64(stadium.Altitude) / 1000.0
	}
	return weather, nil
}

// degreesToDirection buckets a wind-direction angle into the baseball-
// relevant categories: "out" (helps hitters), "in" (hurts hitters), or a
// cross wind toward one foul line.
func degreesToDirection(degrees int) string {
	degrees = ((degrees % 360) + 360) % 360

	switch {
	case degrees >= 338 || degrees < 23:
		return "out"
	case degrees >= 23 && degrees < 113:
		return "right"
	case degrees >= 113 && degrees < 203:
		return "in"
	case degrees >= 203 && degrees < 293:
		return "left"
	case degrees >= 293 && degrees < 338:
		return "out"
	default:
		return "varies"
	}
}

func (s *Service) getCacheKey(stadium models.Stadium, gameTime time.Time) string {
	rounded := gameTime.Round(time.Hour)
	return fmt.Sprintf("%s_%s", stadium.ID, rounded.Format("2006-01-02T15"))
}

func (s *Service) getCachedForecast(key string) (models.Weather, bool) {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	cached, ok := s.cache.data[key]
	if !ok || time.Now().After(cached.expiresAt) {
		return models.Weather{}, false
	}
	return cached.weather, true
}

func (s *Service) cacheForecast(key string, weather models.Weather) {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data[key] = &cachedForecast{weather: weather, expiresAt: time.Now().Add(cacheDuration)}
}

// CleanExpiredCache removes expired cache entries. Called by the
// background sweeper, and directly by tests.
func (s *Service) CleanExpiredCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()

	now := time.Now()
	for key, cached := range s.cache.data {
		if now.After(cached.expiresAt) {
			delete(s.cache.data, key)
		}
	}
}

// StartCacheCleanup runs CleanExpiredCache on a fixed interval until ctx
// is canceled.
func (s *Service) StartCacheCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanExpiredCache()
				s.log.Debug("weather cache swept", "entries_remaining", s.cacheSize())
			}
		}
	}()
}

func (s *Service) cacheSize() int {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()
	return len(s.cache.data)
}

// CacheStats reports cache occupancy.
func (s *Service) CacheStats() map[string]interface{} {
	return map[string]interface{}{"entries": s.cacheSize()}
}
