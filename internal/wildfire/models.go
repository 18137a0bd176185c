// Package wildfire tracks active fire detections near a point. Smoke from
// nearby fires is a major short-term air quality driver, so detections feed
// the composite breathability score.
package wildfire

import (
	"errors"
	"time"
)

// Wildfire service errors.
var (
	ErrProviderUnavailable = errors.New("wildfire provider unavailable")
)

// DefaultRadiusKm is the default fire search radius.
const DefaultRadiusKm = 100.0

// DefaultDayRange is how many days of detections to request.
const DefaultDayRange = 2

// Severity buckets for a fire detection.
const (
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityExtreme  = "extreme"
)

// Detection is a raw satellite fire detection as reported upstream.
type Detection struct {
	Lat        float64
	Lon        float64
	Brightness float64
	Confidence float64
	Satellite  string
	DetectedAt time.Time
}

// Fire is a detection enriched with distance and severity relative to the
// queried point.
type Fire struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Brightness float64   `json:"brightness_k"`
	Confidence float64   `json:"confidence_pct"`
	DistanceKm float64   `json:"distance_km"`
	Severity   string    `json:"severity"`
	Satellite  string    `json:"satellite,omitempty"`
	DetectedAt time.Time `json:"detected_at,omitempty"`
}

// Report lists the fires near a point, nearest first.
type Report struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	RadiusKm  float64   `json:"radius_km"`
	Count     int       `json:"count"`
	Fires     []Fire    `json:"fires"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NearestKm returns the distance to the closest fire, or false when the
// report has none.
func (r *Report) NearestKm() (float64, bool) {
	if r == nil || len(r.Fires) == 0 {
		return 0, false
	}
	return r.Fires[0].DistanceKm, true
}

// ClassifySeverity buckets a detection by brightness temperature (kelvin)
// and detection confidence (percent).
func ClassifySeverity(brightnessK, confidencePct float64) string {
	switch {
	case brightnessK >= 380 && confidencePct >= 80:
		return SeverityExtreme
	case brightnessK >= 360 || confidencePct >= 70:
		return SeverityHigh
	case brightnessK >= 340 || confidencePct >= 50:
		return SeverityModerate
	default:
		return SeverityLow
	}
}
