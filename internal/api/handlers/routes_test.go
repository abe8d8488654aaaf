package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walking-route-service/internal/api/dto"
	"walking-route-service/internal/domain"
	"walking-route-service/internal/services"
)

// stubPlanner returns canned values and records what it was asked.
type stubPlanner struct {
	result *domain.RouteResult
	err    error

	cached  bool
	cleared int

	lastReq services.OptimizeRequest
}

func (s *stubPlanner) Optimize(_ context.Context, req services.OptimizeRequest) (*domain.RouteResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubPlanner) HasCachedRoute([]domain.Stop) bool { return s.cached }

func (s *stubPlanner) ClearCache() { s.cleared++ }

func plannerResult() *domain.RouteResult {
	stops := []domain.Stop{
		{Name: "cafe", Coord: domain.Coordinate{Lat: 40.00, Lon: 29.00}, Position: 0},
		{Name: "park", Coord: domain.Coordinate{Lat: 40.00, Lon: 29.01}, Position: 1},
		{Name: "pier", Coord: domain.Coordinate{Lat: 40.01, Lon: 29.00}, Position: 2},
	}
	return &domain.RouteResult{
		Stops: stops,
		Path:  []domain.Coordinate{stops[0].Coord, stops[1].Coord, stops[2].Coord},
		Statistics: domain.RouteStatistics{
			TotalDistanceMeters:      2400,
			EstimatedDurationSeconds: 2400 / 1.4,
			TurnCount:                1,
			AverageSegmentMeters:     1200,
		},
	}
}

const optimizeBody = `{
	"stops": [
		{"name": "cafe", "lat": 40.00, "lon": 29.00},
		{"name": "park", "lat": 40.00, "lon": 29.01},
		{"name": "pier", "lat": 40.01, "lon": 29.00}
	],
	"prefer_fewer_turns": true
}`

func TestOptimizeHandler(t *testing.T) {
	planner := &stubPlanner{result: plannerResult()}
	h := &RouteHandler{Planner: planner}

	req := httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(optimizeBody))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.OptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Stops, 3)
	assert.Equal(t, "cafe", resp.Stops[0].Name)
	assert.Equal(t, 0, resp.Stops[0].Position)
	require.Len(t, resp.Path, 3)
	assert.Equal(t, []float64{40.00, 29.00}, resp.Path[0])
	assert.InDelta(t, 2400, resp.Statistics.TotalDistanceMeters, 1e-9)
	assert.Equal(t, 1, resp.Statistics.TurnCount)
	assert.Greater(t, resp.Region.LatSpan, 0.0)

	// The decoded request must have reached the engine intact.
	assert.True(t, planner.lastReq.PreferFewerTurns)
	require.Len(t, planner.lastReq.Stops, 3)
	assert.Equal(t, 2, planner.lastReq.Stops[2].Position)
}

func TestOptimizeHandlerUserLocationCentersRegion(t *testing.T) {
	h := &RouteHandler{Planner: &stubPlanner{result: plannerResult()}}

	body := strings.Replace(optimizeBody, `"prefer_fewer_turns": true`,
		`"prefer_fewer_turns": true, "user_lat": 40.1, "user_lon": 29.1`, 1)
	req := httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 40.1, resp.Region.CenterLat, 1e-9)
	assert.InDelta(t, 29.1, resp.Region.CenterLon, 1e-9)
}

func TestOptimizeHandlerMethodNotAllowed(t *testing.T) {
	h := &RouteHandler{Planner: &stubPlanner{}}

	req := httptest.NewRequest(http.MethodGet, "/routes/optimize", nil)
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestOptimizeHandlerRejectsBadJSON(t *testing.T) {
	h := &RouteHandler{Planner: &stubPlanner{}}

	for name, body := range map[string]string{
		"not json":       `{"stops": [`,
		"unknown field":  `{"stops": [], "bogus": true}`,
		"trailing junk":  `{"stops": []}{"stops": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.Optimize(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOptimizeHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid locations", domain.ErrInvalidLocations, http.StatusBadRequest},
		{"network unavailable", domain.ErrNetworkUnavailable, http.StatusServiceUnavailable},
		{"optimization failed", domain.ErrOptimizationFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &RouteHandler{Planner: &stubPlanner{err: tc.err}}

			req := httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(optimizeBody))
			rec := httptest.NewRecorder()
			h.Optimize(rec, req)

			assert.Equal(t, tc.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCachedHandler(t *testing.T) {
	h := &RouteHandler{Planner: &stubPlanner{cached: true}}

	body := `{"stops": [{"name": "cafe", "lat": 40.0, "lon": 29.0}]}`
	req := httptest.NewRequest(http.MethodPost, "/routes/cached", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Cached(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CachedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])

	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	rec = httptest.NewRecorder()
	Health(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestClearCacheHandler(t *testing.T) {
	planner := &stubPlanner{}
	h := &RouteHandler{Planner: planner}

	req := httptest.NewRequest(http.MethodDelete, "/routes/cache", nil)
	rec := httptest.NewRecorder()
	h.ClearCache(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, planner.cleared)

	req = httptest.NewRequest(http.MethodPost, "/routes/cache", nil)
	rec = httptest.NewRecorder()
	h.ClearCache(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 1, planner.cleared)
}
