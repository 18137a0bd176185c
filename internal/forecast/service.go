package forecast

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/cache"
)

// Forecaster loads observation series from a provider and serves cached
// 24-hour projections.
type Forecaster struct {
	provider Provider
	cache    *cache.LocationCache[*Result]
	logger   zerolog.Logger
}

// ForecasterConfig holds configuration for creating a Forecaster.
type ForecasterConfig struct {
	Provider Provider
	Cache    *cache.LocationCache[*Result]
	Logger   zerolog.Logger
}

// NewForecaster creates a Forecaster. A cache must be supplied by the caller
// so its lifecycle and stats stay owned by the composition root.
func NewForecaster(cfg ForecasterConfig) *Forecaster {
	return &Forecaster{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		logger:   cfg.Logger.With().Str("component", "forecaster").Logger(),
	}
}

// Forecast24h returns the 24-hour projection for a location, computing and
// caching it on first request. ErrInsufficientData propagates uncached so a
// location gains a forecast as soon as enough observations arrive.
func (f *Forecaster) Forecast24h(ctx context.Context, lat, lon float64) (*Result, error) {
	key := cache.Key(lat, lon, map[string]string{"product": "forecast24h"})

	return cache.Through(ctx, f.cache, key, func(ctx context.Context) (*Result, error) {
		series, err := f.Series(ctx, lat, lon)
		if err != nil {
			return nil, err
		}

		result, err := Predict(series)
		if err != nil {
			f.logger.Debug().
				Float64("lat", lat).
				Float64("lon", lon).
				Int("observations", len(series)).
				Msg("series does not support a forecast")
			return nil, err
		}

		f.logger.Info().
			Float64("lat", lat).
			Float64("lon", lon).
			Int("predicted_aqi", result.PredictedAQI).
			Str("confidence", string(result.Confidence)).
			Float64("r_squared", result.RSquared).
			Msg("forecast computed")

		return result, nil
	})
}

// Series returns all available observations for a location, wrapping
// provider failures in ErrProviderUnavailable.
func (f *Forecaster) Series(ctx context.Context, lat, lon float64) ([]Observation, error) {
	series, err := f.provider.Observations(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return series, nil
}

// CacheStats exposes the forecast cache statistics.
func (f *Forecaster) CacheStats() cache.Stats {
	return f.cache.Stats()
}

// ClearCache drops all cached forecasts and returns the number removed.
func (f *Forecaster) ClearCache() int {
	return f.cache.Clear()
}
