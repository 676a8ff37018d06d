package polyline

import (
	"errors"
	"math"
	"testing"
)

// Reference path from the format documentation.
var reference = []Point{
	{Lat: 38.5, Lon: -120.2},
	{Lat: 40.7, Lon: -120.95},
	{Lat: 43.252, Lon: -126.453},
}

const referenceEncoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestEncode_Reference(t *testing.T) {
	if got := Encode(reference); got != referenceEncoded {
		t.Fatalf("Encode = %q, want %q", got, referenceEncoded)
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Fatalf("Encode(nil) = %q, want empty", got)
	}
}

func TestDecode_Reference(t *testing.T) {
	got, err := Decode(referenceEncoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(reference) {
		t.Fatalf("got %d points, want %d", len(got), len(reference))
	}
	for i := range got {
		if !near(got[i], reference[i]) {
			t.Errorf("point %d: got %+v, want %+v", i, got[i], reference[i])
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode("")
	if err != nil || got != nil {
		t.Fatalf("Decode(\"\") = %v, %v; want nil, nil", got, err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	// Drop the final longitude chunk terminator.
	_, err := Decode(referenceEncoded[:len(referenceEncoded)-1])
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestRoundTrip_Dispatch(t *testing.T) {
	// Station, two waypoints and a hospital across the equator and antimeridian.
	path := []Point{
		{Lat: -0.00001, Lon: 179.99999},
		{Lat: 0.5, Lon: -179.5},
		{Lat: 51.50735, Lon: -0.12776},
		{Lat: -33.86882, Lon: 151.20930},
	}

	got, err := Decode(Encode(path))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(path) {
		t.Fatalf("got %d points, want %d", len(got), len(path))
	}
	for i := range got {
		if !near(got[i], path[i]) {
			t.Errorf("point %d: got %+v, want %+v", i, got[i], path[i])
		}
	}
}

func near(a, b Point) bool {
	return math.Abs(a.Lat-b.Lat) < 1e-5 && math.Abs(a.Lon-b.Lon) < 1e-5
}
