// Package ground aggregates street-level air quality measurements from
// nearby monitoring stations into per-pollutant averages.
package ground

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Provider fetches raw station measurements around a point.
type Provider interface {
	Name() string
	FetchMeasurements(ctx context.Context, lat, lon, radiusKm float64) ([]Measurement, error)
}

// ServiceConfig holds configuration for creating a Service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger
}

// Service turns raw station measurements into an aggregated Snapshot.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a ground data service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("component", "ground").Logger(),
	}
}

// GetSnapshot fetches and aggregates measurements within radiusKm of the
// point. Returns (nil, nil) when no stations reported anything; the absence
// of ground truth is an expected condition, not an error.
func (s *Service) GetSnapshot(ctx context.Context, lat, lon, radiusKm float64) (*Snapshot, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	measurements, err := s.provider.FetchMeasurements(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(measurements) == 0 {
		s.logger.Debug().
			Float64("lat", lat).
			Float64("lon", lon).
			Float64("radius_km", radiusKm).
			Msg("no ground stations in range")
		return nil, nil
	}

	type accumulator struct {
		sum     float64
		count   int
		unit    string
		display string
	}
	acc := make(map[string]*accumulator)

	for _, m := range measurements {
		name := normalizeParameter(m.Parameter)
		if name == "" {
			continue
		}
		a, ok := acc[name]
		if !ok {
			a = &accumulator{unit: m.Unit, display: name}
			acc[name] = a
		}
		a.sum += m.Value
		a.count++
	}

	if len(acc) == 0 {
		return nil, nil
	}

	pollutants := make(map[string]PollutantAverage, len(acc))
	for name, a := range acc {
		pollutants[name] = PollutantAverage{
			Parameter: a.display,
			Value:     round2(a.sum / float64(a.count)),
			Unit:      a.unit,
			Samples:   a.count,
			Source:    s.provider.Name(),
		}
	}

	return &Snapshot{
		Lat:        lat,
		Lon:        lon,
		RadiusKm:   radiusKm,
		Pollutants: pollutants,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
