package cache

import (
	"encoding/json"
	"fmt"

	"walking-route-service/internal/domain"
)

// Path geometry is persisted as a JSON array of [lat, lon] pairs so both
// store backends share one wire shape.

func encodePath(path []domain.Coordinate) (string, error) {
	pairs := make([][2]float64, len(path))
	for i, c := range path {
		pairs[i] = [2]float64{c.Lat, c.Lon}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

func decodePath(s string) ([]domain.Coordinate, error) {
	var pairs [][2]float64
	if err := json.Unmarshal([]byte(s), &pairs); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	out := make([]domain.Coordinate, len(pairs))
	for i, p := range pairs {
		out[i] = domain.Coordinate{Lat: p[0], Lon: p[1]}
	}
	return out, nil
}
