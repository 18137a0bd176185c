package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/cache"
)

// Provider fetches a raw weather report for a point.
type Provider interface {
	// Fetch retrieves current conditions plus the hourly and daily outlook.
	Fetch(ctx context.Context, lat, lon float64) (*Report, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache weather reports (default: 10 minutes).
	// Weather changes slower than satellite readings, so a longer cache
	// is acceptable.
	CacheTTL time.Duration

	// CacheMaxEntries bounds the report cache (default: 1000).
	CacheMaxEntries int
}

// Service provides derived weather reports with caching. Upstream failures
// degrade to a neutral fallback report rather than an error, so downstream
// scoring always has something to work with.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cache    *cache.LocationCache[*Report]
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("component", "weather").Logger(),
		cache: cache.New[*Report](cache.Config{
			TTL:        ttl,
			MaxEntries: cfg.CacheMaxEntries,
		}),
	}
}

// GetReport returns the full weather report for a location, enriched with
// rain analysis, umbrella and clothing advice, and the current moon phase.
func (s *Service) GetReport(ctx context.Context, lat, lon float64) (*Report, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	key := cache.Key(lat, lon, map[string]string{"product": "weather"})
	report, err := cache.Through(ctx, s.cache, key, func(ctx context.Context) (*Report, error) {
		raw, err := s.provider.Fetch(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		s.enrich(raw)
		return raw, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("weather fetch failed, serving fallback report")
		// Fallbacks are never cached so the next request retries upstream.
		return fallbackReport(lat, lon), nil
	}
	return report, nil
}

// enrich fills in the derived sections of a raw provider report.
func (s *Service) enrich(report *Report) {
	report.Rain = AnalyzeRain(report.Hourly)
	report.Umbrella = AdviseUmbrella(report.Rain.MaxProbability)
	report.Clothing = AdviseClothing(report.Current.FeelsLike, report.Current.WindSpeed, report.Current.WeatherCode)
	report.Moon = CurrentMoonPhase(time.Now().UTC())
}

// fallbackReport builds a neutral placeholder used when the upstream API
// is unreachable.
func fallbackReport(lat, lon float64) *Report {
	now := time.Now().UTC()
	report := &Report{
		Lat: lat,
		Lon: lon,
		Current: Current{
			Temperature: 20,
			FeelsLike:   20,
			Humidity:    50,
			WeatherCode: 0,
			Description: DescribeWeatherCode(0),
		},
		Rain:      RainAnalysis{Message: "Weather data temporarily unavailable."},
		Umbrella:  AdviseUmbrella(0),
		Clothing:  AdviseClothing(20, 0, 0),
		Moon:      CurrentMoonPhase(now),
		Fallback:  true,
		FetchedAt: now,
	}
	return report
}

// CurrentConditions is a convenience accessor used by composite scoring. It
// returns the current block and whether it came from real data.
func (s *Service) CurrentConditions(ctx context.Context, lat, lon float64) (Current, bool, error) {
	report, err := s.GetReport(ctx, lat, lon)
	if err != nil {
		return Current{}, false, err
	}
	return report.Current, !report.Fallback, nil
}

// CacheStats exposes report cache statistics.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops all cached reports and returns how many were removed.
func (s *Service) ClearCache() int {
	return s.cache.Clear()
}
