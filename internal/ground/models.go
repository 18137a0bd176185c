package ground

import (
	"errors"
	"strings"
	"time"
)

// Ground sensor errors.
var (
	ErrProviderUnavailable = errors.New("ground sensor provider unavailable")
)

// DefaultRadiusKm is the default station search radius.
const DefaultRadiusKm = 25.0

// Measurement is a single reading reported by a ground station.
type Measurement struct {
	StationID string
	Parameter string
	Value     float64
	Unit      string
}

// PollutantAverage aggregates readings of one pollutant across nearby
// stations.
type PollutantAverage struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Samples   int     `json:"samples"`
	Source    string  `json:"source"`
}

// Snapshot is the aggregated ground truth around a location.
type Snapshot struct {
	Lat        float64                     `json:"lat"`
	Lon        float64                     `json:"lon"`
	RadiusKm   float64                     `json:"radius_km"`
	Pollutants map[string]PollutantAverage `json:"pollutants"`
	FetchedAt  time.Time                   `json:"fetched_at"`
}

// NO2 returns the ground NO2 average, if any station reported one.
func (s *Snapshot) NO2() (PollutantAverage, bool) {
	if s == nil {
		return PollutantAverage{}, false
	}
	avg, ok := s.Pollutants["NO2"]
	return avg, ok
}

// ParameterNames lists the pollutants present in the snapshot.
func (s *Snapshot) ParameterNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Pollutants))
	for name := range s.Pollutants {
		names = append(names, name)
	}
	return names
}

// normalizeParameter canonicalizes station parameter names: upper case with
// separator dots removed, so "pm2.5" and "PM25" both key as "PM25".
func normalizeParameter(parameter string) string {
	return strings.ReplaceAll(strings.ToUpper(parameter), ".", "")
}
