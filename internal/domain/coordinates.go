package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinate (latitude, longitude) in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// IsValid reports whether the coordinate can be routed to.
// NaN components and out-of-range degrees are rejected, as is the exact
// (0, 0) point, which upstream data uses as a "no fix" sentinel.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	if c.Lat == 0 && c.Lon == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Key returns the canonical cache-key form of the coordinate.
// Coordinates are rounded to six decimal places (~0.11 m) so keys derived
// independently from the same point never disagree on float formatting.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
