// Package polyline encodes coordinate paths in the Encoded Polyline Algorithm
// Format at 1e5 precision, the form map clients draw directly.
package polyline

import (
	"errors"
	"math"
)

// ErrMalformed is returned when an encoded string ends mid-value.
var ErrMalformed = errors.New("polyline: malformed input")

const precision = 1e5

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Encode encodes points into a polyline string. An empty path encodes to "".
func Encode(points []Point) string {
	buf := make([]byte, 0, len(points)*8)
	var prevLat, prevLon int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lon := int64(math.Round(p.Lon * precision))
		buf = appendValue(buf, lat-prevLat)
		buf = appendValue(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

func appendValue(buf []byte, v int64) []byte {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		buf = append(buf, byte(0x20|(u&0x1f))+63)
		u >>= 5
	}
	return append(buf, byte(u)+63)
}

// Decode parses a polyline string.
func Decode(encoded string) ([]Point, error) {
	var (
		points   []Point
		lat, lon int64
		i        int
	)
	for i < len(encoded) {
		dLat, next, err := readValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dLon, next, err := readValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next
		lat += dLat
		lon += dLon
		points = append(points, Point{Lat: float64(lat) / precision, Lon: float64(lon) / precision})
	}
	return points, nil
}

func readValue(s string, i int) (int64, int, error) {
	var u uint64
	var shift uint
	for {
		if i >= len(s) {
			return 0, i, ErrMalformed
		}
		b := uint64(s[i]) - 63
		i++
		u |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > 60 {
			return 0, i, ErrMalformed
		}
	}
	v := int64(u >> 1)
	if u&1 != 0 {
		v = ^v
	}
	return v, i, nil
}
