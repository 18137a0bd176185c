// Package fetch populates a granule data directory, either by syncing
// pre-converted granules from a mirror or by generating sample grids for
// local development.
package fetch

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Coverage bounds and grid resolution of generated sample granules. The
// coarse grid keeps files small while still giving every metro area its
// own cells.
const (
	sampleMinLat = 17.0
	sampleMaxLat = 64.0
	sampleMinLon = -140.0
	sampleMaxLon = -50.0
	sampleStep   = 0.5
)

const granuleTimeLayout = "20060102T150405Z"

// SampleConfig controls sample granule generation.
type SampleConfig struct {
	// Count is how many granules to generate.
	Count int

	// Spacing is the time between consecutive observations.
	Spacing time.Duration

	// End is the observation time of the newest granule.
	End time.Time
}

// plume is an emission hotspot around a metro area.
type plume struct {
	lat, lon float64
	strength float64 // peak column density above background
	radius   float64 // falloff scale in degrees
}

// samplePlumes places hotspots over the largest metro areas in coverage.
var samplePlumes = []plume{
	{lat: 40.7128, lon: -74.0060, strength: 6.0e15, radius: 1.2},  // New York
	{lat: 34.0522, lon: -118.2437, strength: 5.5e15, radius: 1.0}, // Los Angeles
	{lat: 41.8781, lon: -87.6298, strength: 4.5e15, radius: 1.0},  // Chicago
	{lat: 29.7604, lon: -95.3698, strength: 4.0e15, radius: 0.9},  // Houston
	{lat: 19.4326, lon: -99.1332, strength: 5.0e15, radius: 1.0},  // Mexico City
	{lat: 43.6532, lon: -79.3832, strength: 3.5e15, radius: 0.8},  // Toronto
}

const sampleBackground = 8.0e14

// sampleGranule mirrors the on-disk granule layout the store reads.
type sampleGranule struct {
	Product string       `json:"product"`
	Unit    string       `json:"unit"`
	Lat     []float64    `json:"lat"`
	Lon     []float64    `json:"lon"`
	Values  [][]*float64 `json:"values"`
}

// GenerateSamples writes Count sample granules into dir and returns how
// many files were written. Values are deterministic: a smooth background
// with metro-area plumes modulated by a diurnal cycle, so repeated runs
// produce identical data.
func GenerateSamples(dir string, cfg SampleConfig) (int, error) {
	if cfg.Count <= 0 {
		cfg.Count = 8
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = time.Hour
	}
	if cfg.End.IsZero() {
		cfg.End = time.Now().UTC()
	}

	lats := axis(sampleMinLat, sampleMaxLat, sampleStep)
	lons := axis(sampleMinLon, sampleMaxLon, sampleStep)

	written := 0
	for i := cfg.Count - 1; i >= 0; i-- {
		observedAt := cfg.End.Add(-time.Duration(i) * cfg.Spacing)

		g := sampleGranule{
			Product: "NO2",
			Unit:    "molecules/cm^2",
			Lat:     lats,
			Lon:     lons,
			Values:  grid(lats, lons, observedAt),
		}

		name := fmt.Sprintf("TEMPO_NO2_L3_%s.json", observedAt.UTC().Format(granuleTimeLayout))
		data, err := json.Marshal(g)
		if err != nil {
			return written, fmt.Errorf("marshal granule: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return written, fmt.Errorf("write granule %s: %w", name, err)
		}
		written++
	}
	return written, nil
}

func axis(min, max, step float64) []float64 {
	var out []float64
	for v := min; v <= max+1e-9; v += step {
		out = append(out, math.Round(v*100)/100)
	}
	return out
}

// grid evaluates the column density at every cell. The diurnal factor
// peaks in the local afternoon, roughly when NO2 columns are highest.
func grid(lats, lons []float64, at time.Time) [][]*float64 {
	values := make([][]*float64, len(lats))
	hourOfDay := float64(at.Hour()) + float64(at.Minute())/60

	for i, lat := range lats {
		row := make([]*float64, len(lons))
		for j, lon := range lons {
			localHour := math.Mod(hourOfDay+lon/15+24, 24)
			diurnal := 0.75 + 0.25*math.Sin((localHour-8)/24*2*math.Pi)

			v := sampleBackground
			for _, p := range samplePlumes {
				dLat := lat - p.lat
				dLon := lon - p.lon
				d2 := dLat*dLat + dLon*dLon
				v += p.strength * math.Exp(-d2/(2*p.radius*p.radius))
			}
			v *= diurnal

			value := v
			row[j] = &value
		}
		values[i] = row
	}
	return values
}
