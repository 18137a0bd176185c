// Package aqi converts NO2 measurements into the EPA Air Quality Index and
// derives the health guidance shipped with API responses.
package aqi

import "math"

// PPBFromColumn converts a tropospheric NO2 vertical column density in
// molecules/cm^2 to an approximate surface concentration in parts per
// billion. Empirically 1e15 molecules/cm^2 corresponds to roughly 20 ppb;
// a proper conversion needs atmospheric modelling, this gives a useful
// estimate.
func PPBFromColumn(column float64) float64 {
	return column / 1e15 * 20
}

// breakpoint is one row of the EPA NO2 AQI table (ppb to index).
type breakpoint struct {
	concLow, concHigh float64
	aqiLow, aqiHigh   float64
}

var no2Breakpoints = []breakpoint{
	{0, 53, 0, 50},
	{54, 100, 51, 100},
	{101, 360, 101, 150},
	{361, 649, 151, 200},
	{650, 1249, 201, 300},
	{1250, 2049, 301, 500},
}

// Result is a computed index with its category and advisory text.
type Result struct {
	AQI      int     `json:"aqi"`
	Category string  `json:"category"`
	PPB      float64 `json:"pollutant_ppb"`
	Advisory string  `json:"advisory"`
}

// FromNO2Column computes the AQI for a satellite NO2 column reading.
func FromNO2Column(column float64) Result {
	return FromNO2PPB(PPBFromColumn(column))
}

// FromNO2PPB computes the AQI for an NO2 surface concentration in ppb using
// linear interpolation within the matching EPA breakpoint range. Readings
// above the top of the table report the maximum index of 500.
func FromNO2PPB(ppb float64) Result {
	rounded := math.Round(ppb*100) / 100

	for _, bp := range no2Breakpoints {
		if ppb >= bp.concLow && ppb <= bp.concHigh {
			idx := int((bp.aqiHigh-bp.aqiLow)/(bp.concHigh-bp.concLow)*(ppb-bp.concLow) + bp.aqiLow)
			return Result{
				AQI:      idx,
				Category: Category(idx),
				PPB:      rounded,
				Advisory: Advisory(idx),
			}
		}
	}

	return Result{
		AQI:      500,
		Category: "Hazardous",
		PPB:      rounded,
		Advisory: Advisory(500),
	}
}

// Category maps an index value to the EPA category name.
func Category(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// Advisory returns the health advisory for a current observation.
func Advisory(aqi int) string {
	switch {
	case aqi <= 50:
		return "Air quality excellent, ideal conditions for outdoor activity"
	case aqi <= 100:
		return "Air quality acceptable, outdoor activity safe for everyone"
	case aqi <= 150:
		return "Air quality moderate, sensitive groups should limit prolonged outdoor exertion"
	case aqi <= 200:
		return "Air quality unhealthy, everyone should reduce prolonged outdoor exertion"
	case aqi <= 300:
		return "Air quality very unhealthy, avoid outdoor activity"
	default:
		return "Health alert: everyone may experience serious health effects, remain indoors"
	}
}

// ForecastAdvice phrases the advisory forward-looking, for predicted values.
func ForecastAdvice(aqi int) string {
	switch {
	case aqi <= 50:
		return "Excellent air quality expected, ideal conditions for outdoor activities tomorrow."
	case aqi <= 100:
		return "Moderate air quality expected, outdoor activities safe for everyone tomorrow."
	case aqi <= 150:
		return "Limit prolonged outdoor exposure during afternoon hours, sensitive groups should plan ahead."
	case aqi <= 200:
		return "Reduce outdoor activities tomorrow, everyone should limit prolonged exertion."
	case aqi <= 300:
		return "Avoid outdoor activities tomorrow, stay indoors when possible."
	default:
		return "Health alert: remain indoors tomorrow, air quality extremely dangerous."
	}
}

// SensitiveGroupAdvice returns guidance targeted at sensitive groups.
func SensitiveGroupAdvice(aqi int) string {
	switch {
	case aqi <= 50:
		return "Safe for all sensitive groups"
	case aqi <= 100:
		return "Unusually sensitive individuals should consider reducing prolonged outdoor exertion"
	case aqi <= 150:
		return "Children, elderly, and people with respiratory conditions should limit outdoor activities"
	case aqi <= 200:
		return "Sensitive groups should avoid all outdoor activities"
	default:
		return "Sensitive groups must remain indoors with air filtration"
	}
}

// ActivityRecommendation returns an outdoor activity recommendation for the
// predicted index.
func ActivityRecommendation(aqi int) string {
	switch {
	case aqi <= 50:
		return "Perfect for all outdoor activities"
	case aqi <= 100:
		return "Good for outdoor activities, normal schedule recommended"
	case aqi <= 150:
		return "Consider rescheduling intensive outdoor exercise to morning hours"
	case aqi <= 200:
		return "Move outdoor activities indoors if possible"
	default:
		return "Cancel all outdoor activities, remain indoors"
	}
}

// AlertActions returns the actionable steps attached to an active alert.
// The list grows as the index crosses the 100, 150, and 200 thresholds.
func AlertActions(aqi int) []string {
	var actions []string

	if aqi > 100 {
		actions = append(actions,
			"Check AQI before going outside",
			"Keep windows closed during peak pollution hours",
		)
	}
	if aqi > 150 {
		actions = append(actions,
			"Wear an N95 mask outdoors",
			"Avoid outdoor exercise",
			"Use air purifiers indoors",
		)
	}
	if aqi > 200 {
		actions = append(actions,
			"Stay indoors as much as possible",
			"Seek medical attention if experiencing symptoms",
		)
	}

	return actions
}
