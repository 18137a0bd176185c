// Package geocode resolves between place names and coordinates. Forward
// search is backed by the Open-Meteo geocoding API and reverse lookup by
// Nominatim. Both clients are small enough to live alongside the service.
package geocode

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Geocoding errors.
var (
	ErrNotFound            = errors.New("location not found")
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Place is a forward geocoding search result.
type Place struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1,omitempty"`
	Population  int64   `json:"population,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
	FeatureCode string  `json:"feature_code,omitempty"`
}

// Address is a reverse geocoding result.
type Address struct {
	DisplayName   string    `json:"display_name"`
	Neighbourhood string    `json:"neighbourhood,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	Country       string    `json:"country,omitempty"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	PrecisionM    int       `json:"precision_m"`
	TimezoneEst   string    `json:"timezone_estimate"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// precisionMeters estimates horizontal coordinate precision at a latitude.
// A degree of longitude shrinks with cos(lat).
func precisionMeters(lat float64) int {
	p := int(111320 * math.Cos(lat*math.Pi/180) / 1e6 * 10)
	if p < 1 {
		p = 1
	}
	return p
}

// timezoneEstimate gives a rough UTC offset from longitude alone. Fifteen
// degrees of longitude correspond to one hour.
func timezoneEstimate(lon float64) string {
	offset := int(lon / 15)
	if offset >= 0 {
		return fmt.Sprintf("UTC+%d", offset)
	}
	return fmt.Sprintf("UTC-%d", -offset)
}
