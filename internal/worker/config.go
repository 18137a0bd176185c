// Package worker provides background cache warming for ClearSkies.
package worker

import (
	"time"
)

// RefreshTarget represents a geographic region to keep warm.
type RefreshTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Points are the lat/lon coordinates to refresh.
	// Typically the centers of major metro areas.
	Points []Point

	// Priority determines refresh order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// RefreshConfig holds configuration for the cache warming job.
type RefreshConfig struct {
	// Targets are the geographic regions to refresh.
	// If empty, uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Interval between refresh runs when running as a loop.
	// Default: 15 minutes
	Interval time.Duration

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration

	// RefreshConditions enables conditions snapshot refresh.
	// Default: true
	RefreshConditions bool

	// RefreshWeather enables weather refresh.
	// Default: true
	RefreshWeather bool

	// RefreshForecast enables forecast refresh.
	// Default: true
	RefreshForecast bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:           DefaultRefreshTargets(),
		Concurrency:       3,
		Interval:          15 * time.Minute,
		Timeout:           30 * time.Second,
		RefreshConditions: true,
		RefreshWeather:    true,
		RefreshForecast:   true,
	}
}

// DefaultRefreshTargets returns the default refresh targets: the largest
// metro areas inside the satellite coverage footprint.
func DefaultRefreshTargets() []RefreshTarget {
	return []RefreshTarget{
		{
			Name:     "New York",
			Priority: 1,
			Points: []Point{
				{Lat: 40.7128, Lon: -74.0060}, // Lower Manhattan
				{Lat: 40.7831, Lon: -73.9712}, // Upper Manhattan
				{Lat: 40.6782, Lon: -73.9442}, // Brooklyn
			},
		},
		{
			Name:     "Los Angeles",
			Priority: 1,
			Points: []Point{
				{Lat: 34.0522, Lon: -118.2437}, // Downtown LA
				{Lat: 34.0195, Lon: -118.4912}, // Santa Monica
			},
		},
		{
			Name:     "Chicago",
			Priority: 1,
			Points: []Point{
				{Lat: 41.8781, Lon: -87.6298}, // The Loop
			},
		},
		{
			Name:     "Houston",
			Priority: 2,
			Points: []Point{
				{Lat: 29.7604, Lon: -95.3698},
			},
		},
		{
			Name:     "Phoenix",
			Priority: 2,
			Points: []Point{
				{Lat: 33.4484, Lon: -112.0740},
			},
		},
		{
			Name:     "Toronto",
			Priority: 3,
			Points: []Point{
				{Lat: 43.6532, Lon: -79.3832},
			},
		},
		{
			Name:     "Mexico City",
			Priority: 3,
			Points: []Point{
				{Lat: 19.4326, Lon: -99.1332},
			},
		},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c RefreshConfig) AllPoints() []Point {
	var points []Point
	for _, target := range c.Targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the total number of points to refresh.
func (c RefreshConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
