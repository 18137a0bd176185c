// Package tempo reads TEMPO satellite granules from a local data directory
// and serves NO2 readings for arbitrary coordinates. Granules are gridded
// JSON files produced by the fetch-tempo tool; each file covers one
// observation time, with the time encoded in the filename.
package tempo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/forecast"
)

// Store errors.
var (
	// ErrNoData is returned when the data directory holds no usable
	// granules, or none cover the requested location.
	ErrNoData = errors.New("no satellite data available")
)

const (
	granulePrefix = "TEMPO_NO2_L3_"
	granuleSuffix = ".json"

	// Timestamp token inside granule filenames, e.g.
	// TEMPO_NO2_L3_20240901T113800Z.json
	granuleTimeLayout = "20060102T150405Z"
)

// Reading is a single satellite NO2 value at the grid cell nearest to a
// query point.
type Reading struct {
	// Pollutant identifies the measured species.
	Pollutant string

	// Value is the vertical column density.
	Value float64

	// Unit of the value, normally molecules/cm^2.
	Unit string

	// NearestLat and NearestLon are the grid cell actually sampled.
	NearestLat float64
	NearestLon float64

	// ObservedAt is the granule observation time.
	ObservedAt time.Time
}

// granule is the on-disk JSON layout of one observation grid.
type granule struct {
	Product string       `json:"product"`
	Unit    string       `json:"unit"`
	Lat     []float64    `json:"lat"`
	Lon     []float64    `json:"lon"`
	Values  [][]*float64 `json:"values"` // [lat][lon], null for missing cells
}

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	// DataDir is the directory containing granule files.
	DataDir string

	Logger zerolog.Logger
}

// Store reads granules on demand. It keeps no state beyond its directory;
// new files dropped by the fetch tool are picked up on the next query.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a granule store for the given directory.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		dir:    cfg.DataDir,
		logger: cfg.Logger.With().Str("component", "tempo").Logger(),
	}
}

// Observations implements forecast.Provider. It extracts the nearest-cell
// NO2 value from every usable granule. Unreadable or malformed files are
// skipped rather than aborting the series; chronology comes from the
// filename timestamps, never file modification times.
func (s *Store) Observations(ctx context.Context, lat, lon float64) ([]forecast.Observation, error) {
	files, err := s.granuleFiles()
	if err != nil {
		return nil, err
	}

	observations := make([]forecast.Observation, 0, len(files))
	for _, gf := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		reading, err := s.readGranule(gf, lat, lon)
		if err != nil {
			s.logger.Debug().Err(err).Str("file", gf.name).Msg("skipping granule")
			continue
		}
		observations = append(observations, forecast.Observation{
			Timestamp: reading.ObservedAt,
			NO2:       reading.Value,
		})
	}

	return observations, nil
}

// Latest returns the reading from the newest granule that covers the
// location. Returns ErrNoData when no granule yields a value.
func (s *Store) Latest(ctx context.Context, lat, lon float64) (*Reading, error) {
	files, err := s.granuleFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoData
	}

	// Newest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].observedAt.After(files[j].observedAt)
	})

	for _, gf := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		reading, err := s.readGranule(gf, lat, lon)
		if err != nil {
			s.logger.Debug().Err(err).Str("file", gf.name).Msg("skipping granule")
			continue
		}
		return reading, nil
	}

	return nil, ErrNoData
}

// GranuleCount reports how many granule files are currently on disk. Used
// by readiness checks.
func (s *Store) GranuleCount() int {
	files, err := s.granuleFiles()
	if err != nil {
		return 0
	}
	return len(files)
}

type granuleFile struct {
	path       string
	name       string
	observedAt time.Time
}

func (s *Store) granuleFiles() ([]granuleFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	files := make([]granuleFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, granulePrefix) || !strings.HasSuffix(name, granuleSuffix) {
			continue
		}

		observedAt, err := parseGranuleTime(name)
		if err != nil {
			s.logger.Debug().Str("file", name).Msg("granule filename has no parseable timestamp")
			continue
		}

		files = append(files, granuleFile{
			path:       filepath.Join(s.dir, name),
			name:       name,
			observedAt: observedAt,
		})
	}

	return files, nil
}

func parseGranuleTime(name string) (time.Time, error) {
	token := strings.TrimSuffix(strings.TrimPrefix(name, granulePrefix), granuleSuffix)
	// Trailing segment markers like _S002 may follow the timestamp.
	if i := strings.IndexByte(token, '_'); i >= 0 {
		token = token[:i]
	}
	return time.Parse(granuleTimeLayout, token)
}

func (s *Store) readGranule(gf granuleFile, lat, lon float64) (*Reading, error) {
	data, err := os.ReadFile(gf.path)
	if err != nil {
		return nil, err
	}

	var g granule
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", gf.name, err)
	}
	if len(g.Lat) == 0 || len(g.Lon) == 0 || len(g.Values) != len(g.Lat) {
		return nil, fmt.Errorf("granule %s has inconsistent grid", gf.name)
	}

	queryLon := normalizeLongitude(lon)
	// Grids published on a 0-360 axis need the query shifted to match.
	if maxLon(g.Lon) > 180 && queryLon < 0 {
		queryLon += 360
	}

	latIdx := nearestIndex(g.Lat, lat)
	lonIdx := nearestIndex(g.Lon, queryLon)

	if lonIdx >= len(g.Values[latIdx]) {
		return nil, fmt.Errorf("granule %s has inconsistent grid", gf.name)
	}
	cell := g.Values[latIdx][lonIdx]
	if cell == nil || math.IsNaN(*cell) {
		return nil, fmt.Errorf("granule %s has no value at nearest cell", gf.name)
	}

	unit := g.Unit
	if unit == "" {
		unit = "molecules/cm^2"
	}
	product := g.Product
	if product == "" {
		product = "NO2 troposphere"
	}

	return &Reading{
		Pollutant:  product,
		Value:      *cell,
		Unit:       unit,
		NearestLat: g.Lat[latIdx],
		NearestLon: normalizeLongitude(g.Lon[lonIdx]),
		ObservedAt: gf.observedAt,
	}, nil
}

func nearestIndex(axis []float64, target float64) int {
	best := 0
	bestDist := math.Abs(axis[0] - target)
	for i, v := range axis[1:] {
		if d := math.Abs(v - target); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

func normalizeLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func maxLon(axis []float64) float64 {
	max := axis[0]
	for _, v := range axis[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
