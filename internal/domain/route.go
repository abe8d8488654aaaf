package domain

// Segment is the walkable path between two consecutive stops in a tour.
// Fallback marks a synthetic straight-line segment produced when the
// directions provider could not be reached; fallback segments degrade route
// quality instead of failing the request and are never written to the caches.
type Segment struct {
	From           Stop
	To             Stop
	DistanceMeters float64
	Path           []Coordinate
	Fallback       bool
}

// Aggregate metrics over an optimized route.
// ElevationGainMeters is reported for API compatibility but is always 0:
// the directions provider returns 2-D paths.
type RouteStatistics struct {
	TotalDistanceMeters      float64
	EstimatedDurationSeconds float64
	ElevationGainMeters      float64
	TurnCount                int
	AverageSegmentMeters     float64
}

// RouteResult is the outcome of one optimization: the stops in visiting
// order, the merged walking path, and aggregate statistics.
// It is immutable planning data and contains no side effects.
type RouteResult struct {
	Stops      []Stop
	Path       []Coordinate
	Statistics RouteStatistics
}

// Region is a map viewport: a center plus latitude/longitude spans in degrees.
type Region struct {
	Center  Coordinate
	LatSpan float64
	LonSpan float64
}
