// Package geo provides the pure coordinate math used by route planning:
// great-circle distance, bearing, and map-region calculation.
// Nothing here performs I/O or fails; invalid input degrades to a default.
package geo

import (
	"math"

	"walking-route-service/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Spans of the fixed region returned when the caller provides its own
// location for map framing.
const (
	userRegionLatSpan = 0.01
	userRegionLonSpan = 0.01
)

// DefaultSpanMultiplier pads the bounding box of a stop set so markers do
// not sit on the viewport edge.
const DefaultSpanMultiplier = 1.3

// Distance returns the great-circle distance between two coordinates in
// meters, using the haversine formula.
func Distance(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing from a to b in degrees, normalized to
// [0, 360).
func Bearing(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// BoundingRegion computes a map viewport for a stop set.
//
// When userLocation is non-nil a fixed small region centered on it is
// returned. Otherwise the min/max box over the valid stops is expanded by
// spanMultiplier (DefaultSpanMultiplier when <= 0). With no valid stop at
// all the hardcoded fallback region (downtown San Francisco) is returned;
// this function never fails.
func BoundingRegion(stops []domain.Stop, userLocation *domain.Coordinate, spanMultiplier float64) domain.Region {
	if userLocation != nil && userLocation.IsValid() {
		return domain.Region{
			Center:  *userLocation,
			LatSpan: userRegionLatSpan,
			LonSpan: userRegionLonSpan,
		}
	}

	if spanMultiplier <= 0 {
		spanMultiplier = DefaultSpanMultiplier
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	valid := false

	for _, s := range stops {
		if !s.Coord.IsValid() {
			continue
		}
		valid = true
		minLat = math.Min(minLat, s.Coord.Lat)
		maxLat = math.Max(maxLat, s.Coord.Lat)
		minLon = math.Min(minLon, s.Coord.Lon)
		maxLon = math.Max(maxLon, s.Coord.Lon)
	}

	if !valid {
		return domain.Region{
			Center:  domain.Coordinate{Lat: 37.7749, Lon: -122.4194},
			LatSpan: 0.05,
			LonSpan: 0.05,
		}
	}

	return domain.Region{
		Center: domain.Coordinate{
			Lat: (minLat + maxLat) / 2,
			Lon: (minLon + maxLon) / 2,
		},
		LatSpan: (maxLat - minLat) * spanMultiplier,
		LonSpan: (maxLon - minLon) * spanMultiplier,
	}
}
