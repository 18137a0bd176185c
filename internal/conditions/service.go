package conditions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/aqi"
	"github.com/clearskies/clearskies/internal/cache"
	"github.com/clearskies/clearskies/internal/forecast"
	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/tempo"
	"github.com/clearskies/clearskies/internal/weather"
)

// SatelliteSource supplies column density readings.
type SatelliteSource interface {
	Latest(ctx context.Context, lat, lon float64) (*tempo.Reading, error)
	Observations(ctx context.Context, lat, lon float64) ([]forecast.Observation, error)
}

// GroundSource supplies aggregated station measurements.
type GroundSource interface {
	GetSnapshot(ctx context.Context, lat, lon, radiusKm float64) (*ground.Snapshot, error)
}

// WeatherSource supplies weather reports.
type WeatherSource interface {
	GetReport(ctx context.Context, lat, lon float64) (*weather.Report, error)
}

// ServiceConfig holds configuration for the conditions service.
type ServiceConfig struct {
	Satellite SatelliteSource
	Ground    GroundSource
	Weather   WeatherSource
	Logger    zerolog.Logger

	// CacheTTL is how long snapshots stay fresh (default: 30 minutes).
	CacheTTL time.Duration

	// CacheMaxEntries bounds the snapshot cache (default: 1000).
	CacheMaxEntries int
}

// Service assembles unified condition views. Ground and weather are
// best-effort: their absence degrades the snapshot, not the request.
// Satellite data is mandatory since the AQI derives from it.
type Service struct {
	satellite SatelliteSource
	ground    GroundSource
	weather   WeatherSource
	logger    zerolog.Logger
	cache     *cache.LocationCache[*Snapshot]
}

// NewService creates a conditions service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		satellite: cfg.Satellite,
		ground:    cfg.Ground,
		weather:   cfg.Weather,
		logger:    cfg.Logger.With().Str("component", "conditions").Logger(),
		cache: cache.New[*Snapshot](cache.Config{
			TTL:        ttl,
			MaxEntries: cfg.CacheMaxEntries,
		}),
	}
}

// Current returns the unified snapshot for a point. Returns
// ErrNoSatelliteData when no usable satellite reading covers the location.
func (s *Service) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	key := cache.Key(lat, lon, map[string]string{"product": "conditions"})
	return cache.Through(ctx, s.cache, key, func(ctx context.Context) (*Snapshot, error) {
		return s.assemble(ctx, lat, lon)
	})
}

func (s *Service) assemble(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	reading, err := s.satellite.Latest(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, tempo.ErrNoData) {
			return nil, fmt.Errorf("%w: %v", ErrNoSatelliteData, err)
		}
		return nil, fmt.Errorf("satellite lookup: %w", err)
	}

	index := aqi.FromNO2Column(reading.Value)
	snapshot := &Snapshot{
		Lat:           lat,
		Lon:           lon,
		AQI:           index.AQI,
		Category:      index.Category,
		NO2PPB:        index.PPB,
		ColumnDensity: reading.Value,
		ObservedAt:    reading.ObservedAt,
		Advisory:      index.Advisory,
		Sources:       SourceStatus{Satellite: true},
		FetchedAt:     time.Now().UTC(),
	}

	if s.ground != nil {
		groundSnap, err := s.ground.GetSnapshot(ctx, lat, lon, ground.DefaultRadiusKm)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("ground data unavailable for snapshot")
		case groundSnap != nil:
			snapshot.Ground = groundSnap
			snapshot.Sources.Ground = true
		}
	}

	windKmh := 0.0
	windKnown := false
	if s.weather != nil {
		report, err := s.weather.GetReport(ctx, lat, lon)
		if err != nil {
			s.logger.Warn().Err(err).Msg("weather unavailable for snapshot")
		} else if !report.Fallback {
			current := report.Current
			snapshot.Weather = &current
			snapshot.Sources.Weather = true
			windKmh = current.WindSpeed
			windKnown = true
		}
	}

	snapshot.Risk = aqi.ClassifyRisk(snapshot.AQI, windKmh, windKnown)
	return snapshot, nil
}

// Evaluate checks current conditions against an AQI threshold. A threshold
// of zero or below uses DefaultAlertThreshold.
func (s *Service) Evaluate(ctx context.Context, lat, lon float64, threshold int) (*Alert, error) {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}

	snapshot, err := s.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	alert := &Alert{
		AQI:         snapshot.AQI,
		Threshold:   threshold,
		EvaluatedAt: time.Now().UTC(),
	}
	if snapshot.AQI <= threshold {
		return alert, nil
	}

	alert.Active = true
	if snapshot.AQI > 150 {
		alert.Severity = "high"
	} else {
		alert.Severity = "moderate"
	}
	if snapshot.AQI > 120 {
		alert.ForecastTrend = "deteriorating"
	} else {
		alert.ForecastTrend = "elevated"
	}

	alert.Cause = fmt.Sprintf("NO2 levels have pushed the air quality index to %d", snapshot.AQI)
	if snapshot.Sources.Weather && snapshot.Weather.WindSpeed < 5 {
		alert.Cause += ", with stagnant wind conditions trapping pollutants"
	}

	alert.Actions = aqi.AlertActions(snapshot.AQI)
	return alert, nil
}

// History converts recent satellite observations at a point into an AQI
// series, oldest first. days of zero or below uses DefaultHistoryDays.
func (s *Service) History(ctx context.Context, lat, lon float64, days int) (*History, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	observations, err := s.satellite.Observations(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("satellite observations: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	points := make([]HistoryPoint, 0, len(observations))
	for _, obs := range observations {
		if obs.Timestamp.Before(cutoff) {
			continue
		}
		index := aqi.FromNO2Column(obs.NO2)
		points = append(points, HistoryPoint{
			ObservedAt: obs.Timestamp,
			NO2PPB:     index.PPB,
			AQI:        index.AQI,
			Category:   index.Category,
		})
	}
	if len(points) == 0 {
		return nil, ErrNoSatelliteData
	}

	return &History{Lat: lat, Lon: lon, Days: days, Points: points}, nil
}

// Compare weighs the satellite NO2 estimate against the ground station
// average at the same point.
func (s *Service) Compare(ctx context.Context, lat, lon float64) (*Comparison, error) {
	snapshot, err := s.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	groundNO2, ok := snapshot.Ground.NO2()
	if !ok {
		return nil, ErrNoGroundData
	}
	if groundNO2.Value == 0 {
		return nil, ErrNoGroundData
	}

	deviation := math.Abs(snapshot.NO2PPB-groundNO2.Value) / groundNO2.Value * 100
	deviation = math.Round(deviation*10) / 10

	return &Comparison{
		Lat:          lat,
		Lon:          lon,
		SatellitePPB: snapshot.NO2PPB,
		GroundPPB:    groundNO2.Value,
		DeviationPct: deviation,
		Correlation:  correlationFor(deviation),
		ComparedAt:   time.Now().UTC(),
	}, nil
}

// CacheStats exposes snapshot cache statistics.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops all cached snapshots and returns how many were removed.
func (s *Service) ClearCache() int {
	return s.cache.Clear()
}
