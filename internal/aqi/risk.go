package aqi

// RiskLevel classifies the overall risk of an air quality outlook.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskSevere   RiskLevel = "severe"
)

// Wind below this speed is treated as stagnant air that lets pollutants
// accumulate instead of dispersing.
const calmWindKmh = 5.0

// ClassifyRisk maps an index to a risk level, escalating one step when the
// wind is calm enough for pollutants to linger. windKnown is false when no
// weather data was available; without it the base classification stands.
func ClassifyRisk(aqi int, windSpeedKmh float64, windKnown bool) RiskLevel {
	var base RiskLevel
	switch {
	case aqi <= 50:
		base = RiskMinimal
	case aqi <= 100:
		base = RiskLow
	case aqi <= 150:
		base = RiskModerate
	case aqi <= 200:
		base = RiskHigh
	default:
		base = RiskSevere
	}

	if windKnown && windSpeedKmh < calmWindKmh {
		switch base {
		case RiskLow:
			base = RiskModerate
		case RiskModerate:
			base = RiskHigh
		}
	}

	return base
}
