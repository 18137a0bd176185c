package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/forecast"
)

func obsAt(base time.Time, hours float64, no2 float64) forecast.Observation {
	return forecast.Observation{
		Timestamp: base.Add(time.Duration(hours * float64(time.Hour))),
		NO2:       no2,
	}
}

func TestPredict_InsufficientData(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	_, err := forecast.Predict(nil)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)

	_, err = forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 1, 1.1e15),
	})
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestPredict_DegenerateSeries(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	// Three observations at the same instant have no trend.
	_, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 0, 1.2e15),
		obsAt(base, 0, 1.4e15),
	})
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestPredict_LinearTrend(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	// Daily observations climbing 0.2e15 per day project to 1.6e15 a day
	// after the last reading.
	result, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 24, 1.2e15),
		obsAt(base, 48, 1.4e15),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.6e15, result.PredictedNO2, 1e12)
	assert.Equal(t, forecast.ConfidenceHigh, result.Confidence)
	assert.InDelta(t, 1.0, result.RSquared, 0.001)
	assert.Equal(t, 3, result.DataPoints)
	assert.Equal(t, base.Add(72*time.Hour), result.PredictionTime)

	// 1.6e15 molecules/cm^2 is ~32 ppb, well inside the Good range.
	assert.Equal(t, 30, result.PredictedAQI)
	assert.Equal(t, "Good", result.Category)
	assert.NotEmpty(t, result.Advice)
}

func TestPredict_SortsByTimestamp(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	ordered, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 24, 1.2e15),
		obsAt(base, 48, 1.4e15),
	})
	require.NoError(t, err)

	shuffled, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 48, 1.4e15),
		obsAt(base, 0, 1.0e15),
		obsAt(base, 24, 1.2e15),
	})
	require.NoError(t, err)

	assert.Equal(t, ordered, shuffled, "provider order must not matter")
}

func TestPredict_ClampsRunawayTrend(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	// Steep rise within minutes extrapolates absurdly over 24h; the
	// projection is capped at 20% above the observed maximum.
	result, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 0.1, 2.0e15),
		obsAt(base, 0.2, 3.0e15),
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.0e15*1.2, result.PredictedNO2, 1e12)
}

func TestPredict_FloorsNegativeAtMean(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	// A falling trend would go negative within 24h; the projection falls
	// back to the series mean instead.
	result, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 3.0e15),
		obsAt(base, 1, 2.0e15),
		obsAt(base, 2, 1.0e15),
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0e15, result.PredictedNO2, 1e12)
}

func TestPredict_ConstantSeriesLowConfidence(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	result, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 1, 1.0e15),
		obsAt(base, 2, 1.0e15),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0e15, result.PredictedNO2, 1e12)
	assert.Equal(t, forecast.ConfidenceLow, result.Confidence)
	assert.Equal(t, 0.0, result.RSquared)
}

func TestPredict_NoisySeriesLowersConfidence(t *testing.T) {
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	result, err := forecast.Predict([]forecast.Observation{
		obsAt(base, 0, 1.0e15),
		obsAt(base, 1, 3.0e15),
		obsAt(base, 2, 0.5e15),
		obsAt(base, 3, 2.5e15),
		obsAt(base, 4, 0.8e15),
	})
	require.NoError(t, err)

	assert.NotEqual(t, forecast.ConfidenceHigh, result.Confidence)
	assert.Less(t, result.RSquared, 0.7)
}
