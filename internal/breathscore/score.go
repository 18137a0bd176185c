// Package breathscore computes a 0-100 breathability score from the AQI,
// ground pollutant levels, nearby wildfire activity, and weather. Higher is
// better. The score drives mask guidance and activity recommendations.
package breathscore

import (
	"fmt"
	"math"
)

// maxPollutantPenalty caps how much ground pollutants can subtract.
const maxPollutantPenalty = 40.0

// Input carries everything the score considers. Optional signals are
// pointers; nil means the signal was unavailable and is skipped.
type Input struct {
	// AQI is the air quality index, the dominant term.
	AQI int

	// Pollutants maps normalized parameter names (PM25, PM10, NO2, O3,
	// CO, SO2) to measured values in their conventional units.
	Pollutants map[string]float64

	// NearestFireKm is the distance to the closest active fire detection.
	NearestFireKm *float64

	// HumidityPct is the current relative humidity.
	HumidityPct *float64

	// TemperatureC is the current temperature.
	TemperatureC *float64
}

// Score is the computed breathability result with its component terms.
type Score struct {
	Score            int      `json:"score"`
	Category         string   `json:"category"`
	Base             float64  `json:"base"`
	PollutantPenalty float64  `json:"pollutant_penalty"`
	WildfirePenalty  float64  `json:"wildfire_penalty"`
	WeatherModifier  float64  `json:"weather_modifier"`
	Mask             string   `json:"mask_recommendation"`
	RiskFactors      []string `json:"risk_factors"`
	AgeGuidance      string   `json:"age_guidance"`
	OutdoorActivity  string   `json:"outdoor_activity"`
}

// Compute evaluates the breathability score for the given conditions.
func Compute(in Input) Score {
	base := baseFromAQI(in.AQI)

	var risks []string
	pollutantPenalty, pollutantRisks := pollutantPenalties(in.Pollutants)
	risks = append(risks, pollutantRisks...)

	wildfirePenalty := 0.0
	if in.NearestFireKm != nil {
		wildfirePenalty = wildfirePenaltyFor(*in.NearestFireKm)
		if wildfirePenalty > 0 {
			risks = append(risks, fmt.Sprintf("wildfire smoke risk, active fire %.0f km away", *in.NearestFireKm))
		}
	}

	modifier := weatherModifier(in.HumidityPct, in.TemperatureC)

	raw := base - pollutantPenalty - wildfirePenalty + modifier
	final := int(math.Round(math.Min(100, math.Max(0, raw))))

	return Score{
		Score:            final,
		Category:         categoryFor(final),
		Base:             round1(base),
		PollutantPenalty: round1(pollutantPenalty),
		WildfirePenalty:  round1(wildfirePenalty),
		WeatherModifier:  round1(modifier),
		Mask:             maskFor(final),
		RiskFactors:      risks,
		AgeGuidance:      ageGuidanceFor(final),
		OutdoorActivity:  outdoorActivityFor(final),
	}
}

// baseFromAQI maps the AQI onto a 0-100 starting score. Each AQI category
// spans a fixed slice of the scale so the score degrades smoothly.
func baseFromAQI(aqi int) float64 {
	a := float64(aqi)
	switch {
	case aqi <= 50:
		return 100 - (a/50)*15
	case aqi <= 100:
		return 85 - ((a-50)/50)*15
	case aqi <= 150:
		return 70 - ((a-100)/50)*20
	case aqi <= 200:
		return 50 - ((a-150)/50)*20
	case aqi <= 300:
		return 30 - ((a-200)/100)*20
	default:
		return math.Max(0, 10-((a-300)/200)*10)
	}
}

// pollutantThreshold describes one penalty rule: above High the steep rate
// applies, above Low the mild one.
type pollutantThreshold struct {
	high, highRate float64
	low, lowRate   float64
	label          string
}

var pollutantThresholds = map[string]pollutantThreshold{
	"PM25": {35.4, 0.3, 12, 0.1, "fine particulates (PM2.5)"},
	"PM10": {154, 0.2, 54, 0.05, "coarse particulates (PM10)"},
	"NO2":  {100, 0.15, 53, 0.05, "nitrogen dioxide"},
	"O3":   {70, 0.2, 70, 0.2, "ozone"},
	"CO":   {9, 2.0, 4.4, 0.5, "carbon monoxide"},
	"SO2":  {75, 0.25, 75, 0.25, "sulfur dioxide"},
}

func pollutantPenalties(pollutants map[string]float64) (float64, []string) {
	total := 0.0
	var risks []string
	for _, name := range []string{"PM25", "PM10", "NO2", "O3", "CO", "SO2"} {
		value, ok := pollutants[name]
		if !ok {
			continue
		}
		t := pollutantThresholds[name]
		switch {
		case value > t.high:
			total += (value - t.high) * t.highRate
			risks = append(risks, "elevated "+t.label)
		case value > t.low:
			total += (value - t.low) * t.lowRate
		}
	}
	if total > maxPollutantPenalty {
		total = maxPollutantPenalty
	}
	return total, risks
}

func wildfirePenaltyFor(distanceKm float64) float64 {
	switch {
	case distanceKm < 10:
		return 30
	case distanceKm < 25:
		return 20
	case distanceKm < 50:
		return 12
	case distanceKm < 100:
		return 5
	default:
		return 0
	}
}

// weatherModifier nudges the score for comfort extremes. Moderate humidity
// helps; very dry, very humid, or temperature extremes hurt.
func weatherModifier(humidityPct, temperatureC *float64) float64 {
	modifier := 0.0
	if humidityPct != nil {
		h := *humidityPct
		switch {
		case h >= 30 && h <= 60:
			modifier += 2
		case h < 20 || h > 80:
			modifier -= 3
		}
	}
	if temperatureC != nil {
		t := *temperatureC
		if t < 0 || t > 35 {
			modifier -= 2
		}
	}
	return modifier
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
