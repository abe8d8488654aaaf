package dto

type StopRequest struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type OptimizeRequest struct {
	Stops            []StopRequest `json:"stops"`
	WalkingSpeedMPS  float64       `json:"walking_speed_mps"`
	PreferFewerTurns bool          `json:"prefer_fewer_turns"`
	MaxIterations    int           `json:"max_iterations"`

	// Optional caller location; when present the response region centers
	// on it instead of framing the stops.
	UserLat *float64 `json:"user_lat"`
	UserLon *float64 `json:"user_lon"`
}

type StopResponse struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Position int     `json:"position"`
}

type StatisticsResponse struct {
	TotalDistanceMeters      float64 `json:"total_distance_meters"`
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
	ElevationGainMeters      float64 `json:"elevation_gain_meters"`
	TurnCount                int     `json:"turn_count"`
	AverageSegmentMeters     float64 `json:"average_segment_meters"`
}

type RegionResponse struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	LatSpan   float64 `json:"lat_span"`
	LonSpan   float64 `json:"lon_span"`
}

type OptimizeResponse struct {
	Stops []StopResponse `json:"stops"`
	// Merged walking path as [lat, lon] pairs.
	Path       [][]float64        `json:"path"`
	Statistics StatisticsResponse `json:"statistics"`
	Region     RegionResponse     `json:"region"`
}

type CachedRequest struct {
	Stops []StopRequest `json:"stops"`
}

type CachedResponse struct {
	Cached bool `json:"cached"`
}
