// Package conditions fuses the satellite column data, ground station
// measurements and weather into the unified views the API serves: current
// conditions, alerts, history and the satellite/ground comparison.
package conditions

import (
	"errors"
	"time"

	"github.com/clearskies/clearskies/internal/aqi"
	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/weather"
)

// Conditions errors.
var (
	ErrNoSatelliteData = errors.New("no satellite data for location")
	ErrNoGroundData    = errors.New("no ground station data for location")
)

// DefaultAlertThreshold is the AQI above which an alert activates.
const DefaultAlertThreshold = 100

// DefaultHistoryDays is how far back the history endpoint looks.
const DefaultHistoryDays = 7

// SourceStatus records which upstream sources contributed to a snapshot.
type SourceStatus struct {
	Satellite bool `json:"satellite"`
	Ground    bool `json:"ground"`
	Weather   bool `json:"weather"`
}

// Snapshot is the unified current-conditions view for a point.
type Snapshot struct {
	Lat           float64          `json:"lat"`
	Lon           float64          `json:"lon"`
	AQI           int              `json:"aqi"`
	Category      string           `json:"category"`
	NO2PPB        float64          `json:"no2_ppb"`
	ColumnDensity float64          `json:"column_density"`
	ObservedAt    time.Time        `json:"observed_at"`
	Risk          aqi.RiskLevel    `json:"risk"`
	Advisory      string           `json:"advisory"`
	Ground        *ground.Snapshot `json:"ground,omitempty"`
	Weather       *weather.Current `json:"weather,omitempty"`
	Sources       SourceStatus     `json:"sources"`
	FetchedAt     time.Time        `json:"fetched_at"`
}

// Alert is the result of evaluating current conditions against a threshold.
type Alert struct {
	Active        bool      `json:"alert_active"`
	AQI           int       `json:"aqi"`
	Threshold     int       `json:"threshold"`
	Severity      string    `json:"severity,omitempty"`
	ForecastTrend string    `json:"forecast_trend,omitempty"`
	Cause         string    `json:"cause,omitempty"`
	Actions       []string  `json:"recommended_actions,omitempty"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

// HistoryPoint is one satellite observation converted to an AQI.
type HistoryPoint struct {
	ObservedAt time.Time `json:"observed_at"`
	NO2PPB     float64   `json:"no2_ppb"`
	AQI        int       `json:"aqi"`
	Category   string    `json:"category"`
}

// History is a series of past observations at a point.
type History struct {
	Lat    float64        `json:"lat"`
	Lon    float64        `json:"lon"`
	Days   int            `json:"days"`
	Points []HistoryPoint `json:"points"`
}

// Comparison weighs the satellite column estimate against ground truth.
type Comparison struct {
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	SatellitePPB float64   `json:"satellite_no2_ppb"`
	GroundPPB    float64   `json:"ground_no2_ppb"`
	DeviationPct float64   `json:"deviation_pct"`
	Correlation  string    `json:"correlation"`
	ComparedAt   time.Time `json:"compared_at"`
}

// correlationFor buckets a deviation percentage.
func correlationFor(deviationPct float64) string {
	switch {
	case deviationPct < 20:
		return "good"
	case deviationPct < 40:
		return "moderate"
	default:
		return "poor"
	}
}
