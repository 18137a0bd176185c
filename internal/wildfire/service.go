package wildfire

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/geo"
)

// Provider fetches raw fire detections around a point.
type Provider interface {
	Name() string
	FetchDetections(ctx context.Context, lat, lon, radiusKm float64, dayRange int) ([]Detection, error)
}

// ServiceConfig holds configuration for the wildfire service.
type ServiceConfig struct {
	// Provider is the fire detection source. When nil the service always
	// serves sample data, which keeps the feature demoable without an
	// upstream API key.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service turns raw detections into a distance-sorted fire report.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a wildfire service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("component", "wildfire").Logger(),
	}
}

// GetReport returns the fires within radiusKm of the point, nearest first.
// Upstream failures degrade to sample data rather than an error.
func (s *Service) GetReport(ctx context.Context, lat, lon, radiusKm float64) (*Report, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	report := &Report{
		Lat:       lat,
		Lon:       lon,
		RadiusKm:  radiusKm,
		FetchedAt: time.Now().UTC(),
	}

	if s.provider == nil {
		report.Fires = sampleFires(lat, lon, radiusKm)
		report.Count = len(report.Fires)
		report.Source = "sample"
		return report, nil
	}

	detections, err := s.provider.FetchDetections(ctx, lat, lon, radiusKm, DefaultDayRange)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("fire detection fetch failed, serving sample data")
		report.Fires = sampleFires(lat, lon, radiusKm)
		report.Count = len(report.Fires)
		report.Source = "sample"
		return report, nil
	}

	fires := make([]Fire, 0, len(detections))
	for _, d := range detections {
		dist := geo.DistanceKm(lat, lon, d.Lat, d.Lon)
		if dist > radiusKm {
			continue
		}
		fires = append(fires, Fire{
			Lat:        d.Lat,
			Lon:        d.Lon,
			Brightness: d.Brightness,
			Confidence: d.Confidence,
			DistanceKm: math.Round(dist*10) / 10,
			Severity:   ClassifySeverity(d.Brightness, d.Confidence),
			Satellite:  d.Satellite,
			DetectedAt: d.DetectedAt,
		})
	}
	sort.Slice(fires, func(i, j int) bool { return fires[i].DistanceKm < fires[j].DistanceKm })

	report.Fires = fires
	report.Count = len(fires)
	report.Source = s.provider.Name()
	return report, nil
}

// californiaBox bounds the region the sample data represents.
var californiaBox = struct{ latMin, latMax, lonMin, lonMax float64 }{32, 42, -124, -114}

// sampleFires returns fixed detections for points in the sample region and
// nothing elsewhere.
func sampleFires(lat, lon, radiusKm float64) []Fire {
	inBox := lat >= californiaBox.latMin && lat <= californiaBox.latMax &&
		lon >= californiaBox.lonMin && lon <= californiaBox.lonMax
	if !inBox {
		return []Fire{}
	}

	fires := []Fire{
		{
			Lat:        lat + 0.45,
			Lon:        lon + 0.25,
			Brightness: 365.2,
			Confidence: 85,
			DistanceKm: 55.3,
			Severity:   ClassifySeverity(365.2, 85),
			Satellite:  "N",
		},
		{
			Lat:        lat - 0.6,
			Lon:        lon - 0.35,
			Brightness: 342.8,
			Confidence: 65,
			DistanceKm: 78.6,
			Severity:   ClassifySeverity(342.8, 65),
			Satellite:  "N",
		},
	}

	within := fires[:0]
	for _, f := range fires {
		if f.DistanceKm <= radiusKm {
			within = append(within, f)
		}
	}
	return within
}
