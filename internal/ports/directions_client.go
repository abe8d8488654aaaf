package ports

import (
	"context"

	"walking-route-service/internal/domain"
)

// A walked path between two coordinates as returned by a directions provider.
type WalkingPath struct {
	DistanceMeters float64
	Path           []domain.Coordinate
}

// Contract for retrieving the walkable path between two coordinates.
type DirectionsClient interface {
	// FetchWalkingPath returns the walking distance and path geometry
	// between two points. Any failure is retryable from the caller's point
	// of view; retry and fallback policy live with the caller.
	FetchWalkingPath(ctx context.Context, from, to domain.Coordinate) (WalkingPath, error)
}
