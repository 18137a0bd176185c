package weather

import (
	"fmt"
	"math"
	"time"
)

const (
	// rainThresholdPct is the probability at which rain counts as likely.
	rainThresholdPct = 40.0

	// windbreakerWindKmh is the wind speed that earns a windbreaker.
	windbreakerWindKmh = 32.0

	// synodicMonthDays is the mean length of a lunar month.
	synodicMonthDays = 29.53058867
)

// referenceNewMoon is a known new moon used as the lunar cycle epoch.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// AnalyzeRain inspects up to the first 24 hourly points and reports whether
// rain is likely, when the chance peaks, and how heavy it looks.
func AnalyzeRain(hourly []HourlyPoint) RainAnalysis {
	window := hourly
	if len(window) > 24 {
		window = window[:24]
	}
	if len(window) == 0 {
		return RainAnalysis{Message: "No forecast data available."}
	}

	maxProb := 0.0
	peakIdx := 0
	for i, h := range window {
		if h.PrecipProbability > maxProb {
			maxProb = h.PrecipProbability
			peakIdx = i
		}
	}

	analysis := RainAnalysis{
		WillRain:       maxProb >= rainThresholdPct,
		MaxProbability: maxProb,
	}

	if !analysis.WillRain {
		analysis.Message = "No significant rain expected in the next 24 hours."
		return analysis
	}

	analysis.PeakTime = window[peakIdx].Time
	switch {
	case maxProb >= 70:
		analysis.Message = fmt.Sprintf("Heavy rain likely, peaking around %s.", analysis.PeakTime.Format("15:04"))
	case maxProb >= 50:
		analysis.Message = fmt.Sprintf("Moderate rain expected, peaking around %s.", analysis.PeakTime.Format("15:04"))
	default:
		analysis.Message = fmt.Sprintf("Light rain possible around %s.", analysis.PeakTime.Format("15:04"))
	}
	return analysis
}

// AdviseUmbrella turns a rain probability into carry-an-umbrella guidance.
func AdviseUmbrella(maxProbabilityPct float64) UmbrellaAdvice {
	switch {
	case maxProbabilityPct >= 70:
		return UmbrellaAdvice{
			Needed:         true,
			Urgency:        "high",
			Recommendation: "Bring an umbrella, rain is very likely.",
		}
	case maxProbabilityPct >= 50:
		return UmbrellaAdvice{
			Needed:         true,
			Urgency:        "medium",
			Recommendation: "An umbrella is a good idea today.",
		}
	case maxProbabilityPct >= 30:
		return UmbrellaAdvice{
			Needed:         false,
			Urgency:        "low",
			Recommendation: "An umbrella is optional, slight chance of rain.",
		}
	default:
		return UmbrellaAdvice{
			Needed:         false,
			Urgency:        "none",
			Recommendation: "No umbrella needed.",
		}
	}
}

// AdviseClothing suggests clothing from feels-like temperature, wind speed
// and the active weather code.
func AdviseClothing(feelsLikeC, windSpeedKmh float64, weatherCode int) ClothingAdvice {
	var advice ClothingAdvice

	switch {
	case feelsLikeC >= 27:
		advice.Summary = "Hot"
		advice.Items = []string{"light breathable clothing", "sunscreen", "hat"}
	case feelsLikeC >= 20:
		advice.Summary = "Warm"
		advice.Items = []string{"t-shirt", "light pants or shorts"}
	case feelsLikeC >= 13:
		advice.Summary = "Mild"
		advice.Items = []string{"long sleeves", "light jacket"}
	case feelsLikeC >= 4:
		advice.Summary = "Cool"
		advice.Items = []string{"warm jacket", "layers"}
	default:
		advice.Summary = "Cold"
		advice.Items = []string{"heavy coat", "gloves", "warm hat"}
	}

	if windSpeedKmh >= windbreakerWindKmh {
		advice.Items = append(advice.Items, "windbreaker")
	}
	if IsRainyCode(weatherCode) {
		advice.Items = append(advice.Items, "waterproof layer")
	}
	return advice
}

// CurrentMoonPhase computes the lunar phase at the given instant using the
// mean synodic month.
func CurrentMoonPhase(at time.Time) MoonPhase {
	days := at.Sub(referenceNewMoon).Hours() / 24
	pos := days / synodicMonthDays
	pos -= math.Floor(pos)
	age := pos * synodicMonthDays

	var phase string
	switch {
	case pos < 0.0625 || pos >= 0.9375:
		phase = "New Moon"
	case pos < 0.1875:
		phase = "Waxing Crescent"
	case pos < 0.3125:
		phase = "First Quarter"
	case pos < 0.4375:
		phase = "Waxing Gibbous"
	case pos < 0.5625:
		phase = "Full Moon"
	case pos < 0.6875:
		phase = "Waning Gibbous"
	case pos < 0.8125:
		phase = "Last Quarter"
	default:
		phase = "Waning Crescent"
	}

	illumination := 50 * (1 - math.Cos(2*math.Pi*pos))

	return MoonPhase{
		Phase:        phase,
		Illumination: math.Round(illumination*10) / 10,
		AgeDays:      math.Round(age*10) / 10,
	}
}
