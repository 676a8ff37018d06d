// Package worker keeps the weather cache warm for the ambulance depots the
// service is usually asked about.
package worker

import (
	"cmp"
	"slices"
	"time"
)

// RefreshTarget is a group of depots sharing a refresh priority.
type RefreshTarget struct {
	Name string

	// Points are the depot coordinates to refresh.
	Points []Point

	// Priority determines refresh order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// RefreshConfig holds configuration for the cache-warming job.
type RefreshConfig struct {
	// Targets are the depot groups to refresh.
	// If empty, uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of concurrent fetches.
	// Default: 3
	Concurrency int

	// Timeout bounds each fetch.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:     DefaultRefreshTargets(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultRefreshTargets returns the regional ambulance posts of the Randstad,
// grouped by safety region.
func DefaultRefreshTargets() []RefreshTarget {
	return []RefreshTarget{
		{
			Name:     "Amsterdam-Amstelland",
			Priority: 1,
			Points: []Point{
				{Lat: 52.3600, Lon: 4.9120}, // Weesperplein
				{Lat: 52.3380, Lon: 4.8560}, // Amstelveenseweg
				{Lat: 52.3140, Lon: 4.9500}, // Bijlmer
				{Lat: 52.3900, Lon: 4.9230}, // Noord
			},
		},
		{
			Name:     "Rotterdam-Rijnmond",
			Priority: 1,
			Points: []Point{
				{Lat: 51.9225, Lon: 4.4700}, // Centrum
				{Lat: 51.8950, Lon: 4.5020}, // Zuid
				{Lat: 51.9110, Lon: 4.3960}, // Schiedam
			},
		},
		{
			Name:     "Haaglanden",
			Priority: 1,
			Points: []Point{
				{Lat: 52.0760, Lon: 4.3110}, // Centrum
				{Lat: 52.0500, Lon: 4.2700}, // Escamp
				{Lat: 52.0116, Lon: 4.3571}, // Delft
			},
		},
		{
			Name:     "Utrecht",
			Priority: 1,
			Points: []Point{
				{Lat: 52.0870, Lon: 5.1150}, // Centrum
				{Lat: 52.0880, Lon: 5.1790}, // Uithof
			},
		},
		{
			Name:     "Kennemerland",
			Priority: 2,
			Points: []Point{
				{Lat: 52.3874, Lon: 4.6462}, // Haarlem
				{Lat: 52.3105, Lon: 4.7683}, // Schiphol
			},
		},
		{
			Name:     "Hollands Midden",
			Priority: 3,
			Points: []Point{
				{Lat: 52.1664, Lon: 4.4819}, // Leiden
				{Lat: 52.0110, Lon: 4.7100}, // Gouda
			},
		},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c RefreshConfig) AllPoints() []Point {
	targets := slices.Clone(c.Targets)
	slices.SortStableFunc(targets, func(a, b RefreshTarget) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	var points []Point
	for _, target := range targets {
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

// FirstPoint returns the first configured point, used by health checks.
func (c RefreshConfig) FirstPoint() (Point, bool) {
	for _, target := range c.Targets {
		if len(target.Points) > 0 {
			return target.Points[0], true
		}
	}
	return Point{}, false
}
