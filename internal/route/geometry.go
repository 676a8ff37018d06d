// Package route estimates straight-line route distance and travel time for an
// emergency vehicle under weather and hazard slowdowns. It does no road-network
// pathfinding.
package route

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// KmToMiles converts kilometres to statute miles.
const KmToMiles = 0.621371

// ErrTooFewWaypoints is returned when a route has fewer than two points.
var ErrTooFewWaypoints = errors.New("at least 2 waypoints required")

// Waypoint is a WGS84 coordinate in degrees.
type Waypoint struct {
	Lat float64
	Lon float64
}

// Segment is one leg between consecutive waypoints.
type Segment struct {
	From       Waypoint
	To         Waypoint
	DistanceKm float64
}

// DistanceMiles returns the leg length in miles.
func (s Segment) DistanceMiles() float64 {
	return s.DistanceKm * KmToMiles
}

// DistanceResult is the per-leg and total great-circle distance of a route.
type DistanceResult struct {
	Segments []Segment
	TotalKm  float64
}

// TotalMiles returns the total length in miles.
func (d DistanceResult) TotalMiles() float64 {
	return d.TotalKm * KmToMiles
}

// WaypointCount returns the number of points the route visits.
func (d DistanceResult) WaypointCount() int {
	if len(d.Segments) == 0 {
		return 0
	}
	return len(d.Segments) + 1
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b Waypoint) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon) - radians(a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Distance sums Haversine legs over consecutive waypoints.
func Distance(waypoints []Waypoint) (DistanceResult, error) {
	if len(waypoints) < 2 {
		return DistanceResult{}, ErrTooFewWaypoints
	}

	res := DistanceResult{Segments: make([]Segment, 0, len(waypoints)-1)}
	for i := 1; i < len(waypoints); i++ {
		d := Haversine(waypoints[i-1], waypoints[i])
		res.Segments = append(res.Segments, Segment{
			From:       waypoints[i-1],
			To:         waypoints[i],
			DistanceKm: d,
		})
		res.TotalKm += d
	}
	return res, nil
}
