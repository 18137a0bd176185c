// Package forecast projects NO2 time series 24 hours ahead with a linear
// trend model. Polynomial fits extrapolate wildly on short series; a linear
// fit is conservative and stable, which matters more than capturing every
// diurnal wiggle.
package forecast

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/clearskies/clearskies/internal/aqi"
)

// Predict fits an ordinary least squares trend to the series and evaluates
// it 24 hours past the newest observation. The series is sorted by timestamp
// before fitting. Returns ErrInsufficientData when fewer than
// MinObservations points are available or the fit is degenerate (all
// observations at the same instant).
func Predict(series []Observation) (*Result, error) {
	if len(series) < MinObservations {
		return nil, ErrInsufficientData
	}

	sorted := make([]Observation, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	t0 := sorted[0].Timestamp
	hours := make([]float64, len(sorted))
	values := make([]float64, len(sorted))
	for i, obs := range sorted {
		hours[i] = obs.Timestamp.Sub(t0).Hours()
		values[i] = obs.NO2
	}

	// A series observed at a single instant has no trend to fit.
	if hours[len(hours)-1] == 0 {
		return nil, ErrInsufficientData
	}

	alpha, beta := stat.LinearRegression(hours, values, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, ErrInsufficientData
	}

	futureHours := hours[len(hours)-1] + Horizon.Hours()
	predicted := alpha + beta*futureHours

	// Constrain the projection to plausible bounds: runaway trends are
	// capped just above the observed maximum, and a negative projection
	// falls back to the series mean.
	maxObserved := values[0]
	for _, v := range values[1:] {
		if v > maxObserved {
			maxObserved = v
		}
	}
	if predicted > maxObserved*10 {
		predicted = maxObserved * 1.2
	} else if predicted < 0 {
		predicted = stat.Mean(values, nil)
	}

	estimates := make([]float64, len(hours))
	for i, h := range hours {
		estimates[i] = alpha + beta*h
	}
	rSquared := stat.RSquaredFrom(estimates, values, nil)
	if math.IsNaN(rSquared) || math.IsInf(rSquared, 0) {
		// Constant series: the fit explains nothing beyond the mean.
		rSquared = 0
	}

	index := aqi.FromNO2Column(predicted)

	return &Result{
		PredictedNO2:   predicted,
		PredictedAQI:   index.AQI,
		Category:       index.Category,
		Advice:         aqi.ForecastAdvice(index.AQI),
		PredictionTime: sorted[len(sorted)-1].Timestamp.Add(Horizon),
		Confidence:     confidenceFor(rSquared),
		RSquared:       math.Round(rSquared*1000) / 1000,
		DataPoints:     len(sorted),
	}, nil
}

func confidenceFor(rSquared float64) Confidence {
	switch {
	case rSquared > 0.7:
		return ConfidenceHigh
	case rSquared > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
