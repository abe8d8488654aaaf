package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walking-route-service/internal/domain"
)

func TestDistanceOneDegreeOfLatitude(t *testing.T) {
	a := domain.Coordinate{Lat: 10, Lon: 20}
	b := domain.Coordinate{Lat: 11, Lon: 20}

	// One degree of arc on a 6371 km sphere.
	want := earthRadiusMeters * math.Pi / 180

	assert.InDelta(t, want, Distance(a, b), 1.0)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	assert.Zero(t, Distance(a, a))
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := domain.Coordinate{Lat: 0, Lon: 10}

	assert.InDelta(t, 0, Bearing(origin, domain.Coordinate{Lat: 1, Lon: 10}), 1e-6)
	assert.InDelta(t, 90, Bearing(origin, domain.Coordinate{Lat: 0, Lon: 11}), 1e-6)
	assert.InDelta(t, 180, Bearing(origin, domain.Coordinate{Lat: -1, Lon: 10}), 1e-6)
	assert.InDelta(t, 270, Bearing(origin, domain.Coordinate{Lat: 0, Lon: 9}), 1e-6)
}

func TestCoordinateValidity(t *testing.T) {
	cases := []struct {
		name  string
		coord domain.Coordinate
		want  bool
	}{
		{"valid", domain.Coordinate{Lat: 40.0, Lon: 29.0}, true},
		{"null island sentinel", domain.Coordinate{Lat: 0, Lon: 0}, false},
		{"lat out of range", domain.Coordinate{Lat: 91, Lon: 0}, false},
		{"lon out of range", domain.Coordinate{Lat: 0, Lon: -181}, false},
		{"nan lat", domain.Coordinate{Lat: math.NaN(), Lon: 10}, false},
		{"zero lat only", domain.Coordinate{Lat: 0, Lon: 10}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coord.IsValid())
		})
	}
}

func TestBoundingRegionFromStops(t *testing.T) {
	stops := []domain.Stop{
		{Name: "a", Coord: domain.Coordinate{Lat: 10, Lon: 10}},
		{Name: "b", Coord: domain.Coordinate{Lat: 12, Lon: 14}},
		{Name: "broken", Coord: domain.Coordinate{}}, // filtered out
	}

	r := BoundingRegion(stops, nil, 0)

	assert.InDelta(t, 11, r.Center.Lat, 1e-9)
	assert.InDelta(t, 12, r.Center.Lon, 1e-9)
	assert.InDelta(t, 2*DefaultSpanMultiplier, r.LatSpan, 1e-9)
	assert.InDelta(t, 4*DefaultSpanMultiplier, r.LonSpan, 1e-9)
}

func TestBoundingRegionCentersOnUserLocation(t *testing.T) {
	stops := []domain.Stop{
		{Coord: domain.Coordinate{Lat: 10, Lon: 10}},
		{Coord: domain.Coordinate{Lat: 12, Lon: 14}},
	}
	user := domain.Coordinate{Lat: 50, Lon: 8}

	r := BoundingRegion(stops, &user, 0)

	require.Equal(t, user, r.Center)
	assert.InDelta(t, userRegionLatSpan, r.LatSpan, 1e-9)
	assert.InDelta(t, userRegionLonSpan, r.LonSpan, 1e-9)
}

func TestBoundingRegionFallsBackWithoutValidStops(t *testing.T) {
	r := BoundingRegion(nil, nil, 0)
	assert.InDelta(t, 37.7749, r.Center.Lat, 1e-9)
	assert.InDelta(t, -122.4194, r.Center.Lon, 1e-9)

	onlyInvalid := []domain.Stop{{Coord: domain.Coordinate{Lat: 0, Lon: 0}}}
	assert.Equal(t, r, BoundingRegion(onlyInvalid, nil, 0))
}
