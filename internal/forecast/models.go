package forecast

import (
	"context"
	"errors"
	"time"
)

// Forecast errors.
var (
	// ErrInsufficientData is returned when the observation series is too
	// short or too degenerate to support a projection. This is an expected
	// condition, not a failure.
	ErrInsufficientData = errors.New("insufficient observations for forecast")

	// ErrProviderUnavailable is returned when the observation source could
	// not be reached.
	ErrProviderUnavailable = errors.New("observation provider unavailable")
)

// MinObservations is the smallest series that supports a regression.
const MinObservations = 3

// Horizon is how far ahead of the last observation the model projects.
const Horizon = 24 * time.Hour

// Observation is a single NO2 reading at a point in time.
type Observation struct {
	// Timestamp is when the reading was taken, embedded in the granule
	// itself rather than inferred from file order.
	Timestamp time.Time

	// NO2 vertical column density in molecules/cm^2.
	NO2 float64
}

// Provider supplies historical observations for a location. Implementations
// do not need to return the series in any particular order; the forecaster
// sorts by timestamp itself.
type Provider interface {
	Observations(ctx context.Context, lat, lon float64) ([]Observation, error)
}

// Confidence grades how well the fitted trend explains the series.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // R^2 > 0.7
	ConfidenceMedium Confidence = "medium" // R^2 > 0.4
	ConfidenceLow    Confidence = "low"
)

// Result is a 24-hour projection with its quality metadata.
type Result struct {
	// PredictedNO2 is the projected column density in molecules/cm^2,
	// clamped to plausible bounds.
	PredictedNO2 float64 `json:"predicted_no2"`

	// PredictedAQI and its derived texts.
	PredictedAQI int    `json:"predicted_aqi"`
	Category     string `json:"category"`
	Advice       string `json:"advice"`

	// PredictionTime is 24 hours after the newest observation.
	PredictionTime time.Time `json:"prediction_time"`

	Confidence Confidence `json:"confidence"`
	RSquared   float64    `json:"r_squared"`
	DataPoints int        `json:"data_points"`
}
