package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"walking-route-service/internal/api/dto"
	"walking-route-service/internal/domain"
	"walking-route-service/internal/geo"
	"walking-route-service/internal/services"
)

// RoutePlanner is what the handlers need from the optimization engine;
// keeping it an interface lets handler tests run against a stub.
type RoutePlanner interface {
	Optimize(ctx context.Context, req services.OptimizeRequest) (*domain.RouteResult, error)
	HasCachedRoute(stops []domain.Stop) bool
	ClearCache()
}

type RouteHandler struct {
	Planner RoutePlanner
}

// Optimize handles POST /routes/optimize: decode stops, run the engine, and
// map the failure taxonomy onto HTTP statuses.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	stops := toDomainStops(req.Stops)

	result, err := h.Planner.Optimize(r.Context(), services.OptimizeRequest{
		Stops:            stops,
		WalkingSpeedMPS:  req.WalkingSpeedMPS,
		PreferFewerTurns: req.PreferFewerTurns,
		MaxIterations:    req.MaxIterations,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLocations):
			writeError(w, r, http.StatusBadRequest, "at least 3 stops with valid coordinates are required")
		case errors.Is(err, domain.ErrNetworkUnavailable):
			writeError(w, r, http.StatusServiceUnavailable, "directions provider is unreachable, try again later")
		default:
			log.Printf("optimize route failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "route optimization failed")
		}
		return
	}

	var userLoc *domain.Coordinate
	if req.UserLat != nil && req.UserLon != nil {
		userLoc = &domain.Coordinate{Lat: *req.UserLat, Lon: *req.UserLon}
	}
	region := geo.BoundingRegion(result.Stops, userLoc, 0)

	writeJSON(w, r, http.StatusOK, toOptimizeResponse(result, region))
}

// Cached handles POST /routes/cached: report whether a fresh cached route
// exists for the stop set, without computing anything.
func (h *RouteHandler) Cached(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CachedRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	cached := h.Planner.HasCachedRoute(toDomainStops(req.Stops))
	writeJSON(w, r, http.StatusOK, dto.CachedResponse{Cached: cached})
}

// ClearCache handles DELETE /routes/cache. The caller invokes it on any
// structural mutation of its stop list.
func (h *RouteHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.Planner.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func toDomainStops(in []dto.StopRequest) []domain.Stop {
	stops := make([]domain.Stop, 0, len(in))
	for i, s := range in {
		stops = append(stops, domain.Stop{
			Name:     s.Name,
			Coord:    domain.Coordinate{Lat: s.Lat, Lon: s.Lon},
			Position: i,
		})
	}
	return stops
}

func toOptimizeResponse(result *domain.RouteResult, region domain.Region) dto.OptimizeResponse {
	stops := make([]dto.StopResponse, 0, len(result.Stops))
	for _, s := range result.Stops {
		stops = append(stops, dto.StopResponse{
			Name:     s.Name,
			Lat:      s.Coord.Lat,
			Lon:      s.Coord.Lon,
			Position: s.Position,
		})
	}

	path := make([][]float64, 0, len(result.Path))
	for _, c := range result.Path {
		path = append(path, []float64{c.Lat, c.Lon})
	}

	return dto.OptimizeResponse{
		Stops: stops,
		Path:  path,
		Statistics: dto.StatisticsResponse{
			TotalDistanceMeters:      result.Statistics.TotalDistanceMeters,
			EstimatedDurationSeconds: result.Statistics.EstimatedDurationSeconds,
			ElevationGainMeters:      result.Statistics.ElevationGainMeters,
			TurnCount:                result.Statistics.TurnCount,
			AverageSegmentMeters:     result.Statistics.AverageSegmentMeters,
		},
		Region: dto.RegionResponse{
			CenterLat: region.Center.Lat,
			CenterLon: region.Center.Lon,
			LatSpan:   region.LatSpan,
			LonSpan:   region.LonSpan,
		},
	}
}
