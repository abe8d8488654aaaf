package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"walking-route-service/internal/domain"
	"walking-route-service/internal/platform/obs"
	"walking-route-service/internal/ports"
)

// OSRMClient implements DirectionsClient against an OSRM route endpoint
// using the foot profile. One FetchWalkingPath call maps to exactly one
// HTTP request; retry and straight-line fallback live with the caller.
type OSRMClient struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMClient(baseURL string) *OSRMClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMClient{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "foot",
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64      `json:"distance"`
	Geometry osrmGeometry `json:"geometry"`
}

type osrmGeometry struct {
	// [lon, lat] pairs, per GeoJSON.
	Coordinates [][]float64 `json:"coordinates"`
}

// Fetch the walking distance and path geometry between two points.
func (c *OSRMClient) FetchWalkingPath(ctx context.Context, from, to domain.Coordinate) (_ ports.WalkingPath, err error) {
	defer obs.Time(ctx, "osrm.FetchWalkingPath")(&err)

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		c.baseURL, c.profile, from.Lon, from.Lat, to.Lon, to.Lat,
	)

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return ports.WalkingPath{}, fmt.Errorf("fetch walking path: %w", err)
	}
	defer resp.Body.Close()

	var or osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return ports.WalkingPath{}, fmt.Errorf("fetch walking path: decode route response: %w", err)
	}

	if or.Code != "Ok" || len(or.Routes) == 0 {
		return ports.WalkingPath{}, fmt.Errorf("fetch walking path: OSRM returned code=%q routes=%d", or.Code, len(or.Routes))
	}

	route := or.Routes[0]
	path := make([]domain.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, p := range route.Geometry.Coordinates {
		if len(p) < 2 {
			return ports.WalkingPath{}, fmt.Errorf("fetch walking path: malformed geometry point of length %d", len(p))
		}
		path = append(path, domain.Coordinate{Lat: p[1], Lon: p[0]})
	}

	return ports.WalkingPath{DistanceMeters: route.Distance, Path: path}, nil
}
