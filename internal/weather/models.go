// Package weather provides meteorological context for air quality
// assessments: current conditions, a short hourly and daily outlook, and
// derived guidance such as rain likelihood and clothing suggestions.
package weather

import (
	"errors"
	"time"
)

// Weather service errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Current holds the latest observed conditions at a point.
type Current struct {
	Temperature   float64 `json:"temperature_c"`
	FeelsLike     float64 `json:"feels_like_c"`
	Humidity      float64 `json:"humidity_pct"`
	Precipitation float64 `json:"precipitation_mm"`
	WeatherCode   int     `json:"weather_code"`
	Description   string  `json:"description"`
	WindSpeed     float64 `json:"wind_speed_kmh"`
	WindDirection float64 `json:"wind_direction_deg"`
	WindGust      float64 `json:"wind_gust_kmh"`
}

// HourlyPoint is one hour of the forecast.
type HourlyPoint struct {
	Time              time.Time `json:"time"`
	Temperature       float64   `json:"temperature_c"`
	PrecipProbability float64   `json:"precip_probability_pct"`
	Precipitation     float64   `json:"precipitation_mm"`
	WeatherCode       int       `json:"weather_code"`
	WindSpeed         float64   `json:"wind_speed_kmh"`
}

// DailyPoint is one day of the forecast.
type DailyPoint struct {
	Date                 time.Time `json:"date"`
	WeatherCode          int       `json:"weather_code"`
	Description          string    `json:"description"`
	TempMax              float64   `json:"temp_max_c"`
	TempMin              float64   `json:"temp_min_c"`
	PrecipProbabilityMax float64   `json:"precip_probability_max_pct"`
	Sunrise              time.Time `json:"sunrise"`
	Sunset               time.Time `json:"sunset"`
}

// RainAnalysis summarizes rain likelihood over the next 24 hours.
type RainAnalysis struct {
	WillRain       bool      `json:"will_rain"`
	MaxProbability float64   `json:"max_probability_pct"`
	PeakTime       time.Time `json:"peak_time,omitempty"`
	Message        string    `json:"message"`
}

// UmbrellaAdvice says whether to carry an umbrella.
type UmbrellaAdvice struct {
	Needed         bool   `json:"needed"`
	Urgency        string `json:"urgency"`
	Recommendation string `json:"recommendation"`
}

// ClothingAdvice suggests what to wear given temperature, wind and rain.
type ClothingAdvice struct {
	Summary string   `json:"summary"`
	Items   []string `json:"items"`
}

// MoonPhase describes the lunar phase for a given instant.
type MoonPhase struct {
	Phase        string  `json:"phase"`
	Illumination float64 `json:"illumination_pct"`
	AgeDays      float64 `json:"age_days"`
}

// Report is the complete weather picture the service assembles for a point.
// When Fallback is true the upstream API was unreachable and the values are
// neutral placeholders rather than observations.
type Report struct {
	Lat       float64        `json:"lat"`
	Lon       float64        `json:"lon"`
	Current   Current        `json:"current"`
	Hourly    []HourlyPoint  `json:"hourly,omitempty"`
	Daily     []DailyPoint   `json:"daily,omitempty"`
	Rain      RainAnalysis   `json:"rain"`
	Umbrella  UmbrellaAdvice `json:"umbrella"`
	Clothing  ClothingAdvice `json:"clothing"`
	Moon      MoonPhase      `json:"moon"`
	Fallback  bool           `json:"fallback"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// DescribeWeatherCode maps a WMO weather interpretation code to text.
func DescribeWeatherCode(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45:
		return "Foggy"
	case 48:
		return "Depositing rime fog"
	case 51:
		return "Light drizzle"
	case 53:
		return "Moderate drizzle"
	case 55:
		return "Dense drizzle"
	case 61:
		return "Slight rain"
	case 63:
		return "Moderate rain"
	case 65:
		return "Heavy rain"
	case 71:
		return "Slight snow"
	case 73:
		return "Moderate snow"
	case 75:
		return "Heavy snow"
	case 77:
		return "Snow grains"
	case 80:
		return "Slight rain showers"
	case 81:
		return "Moderate rain showers"
	case 82:
		return "Violent rain showers"
	case 85:
		return "Slight snow showers"
	case 86:
		return "Heavy snow showers"
	case 95:
		return "Thunderstorm"
	case 96:
		return "Thunderstorm with slight hail"
	case 99:
		return "Thunderstorm with heavy hail"
	default:
		return "Unknown"
	}
}

// rainyCodes are the WMO codes that mean active rain or drizzle.
var rainyCodes = map[int]bool{
	51: true, 53: true, 55: true,
	61: true, 63: true, 65: true,
	80: true, 81: true, 82: true,
}

// IsRainyCode reports whether a WMO code describes rain or drizzle.
func IsRainyCode(code int) bool {
	return rainyCodes[code]
}
