package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walking-route-service/internal/domain"
)

const osrmOKBody = `{
	"code": "Ok",
	"routes": [{
		"distance": 1423.7,
		"geometry": {
			"coordinates": [[29.000000, 40.000000], [29.004100, 40.001200], [29.010000, 40.000000]]
		}
	}]
}`

func TestFetchWalkingPath(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(osrmOKBody))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL)
	from := domain.Coordinate{Lat: 40.00, Lon: 29.00}
	to := domain.Coordinate{Lat: 40.00, Lon: 29.01}

	got, err := c.FetchWalkingPath(context.Background(), from, to)
	require.NoError(t, err)

	// OSRM takes lon,lat pairs in the URL.
	assert.Equal(t, "/route/v1/foot/29.000000,40.000000;29.010000,40.000000", gotPath)
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "overview=full")

	assert.InDelta(t, 1423.7, got.DistanceMeters, 1e-9)
	require.Len(t, got.Path, 3)
	// GeoJSON [lon, lat] must come back as lat/lon.
	assert.Equal(t, domain.Coordinate{Lat: 40.0012, Lon: 29.0041}, got.Path[1])
}

func TestFetchWalkingPathRejectsNotOkCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL)
	_, err := c.FetchWalkingPath(context.Background(), domain.Coordinate{Lat: 40, Lon: 29}, domain.Coordinate{Lat: 41, Lon: 29})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestFetchWalkingPathServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL)
	_, err := c.FetchWalkingPath(context.Background(), domain.Coordinate{Lat: 40, Lon: 29}, domain.Coordinate{Lat: 41, Lon: 29})

	require.Error(t, err)
	var statusErr *httpStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestFetchWalkingPathMalformedGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": [{"distance": 10, "geometry": {"coordinates": [[29.0]]}}]}`))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL)
	_, err := c.FetchWalkingPath(context.Background(), domain.Coordinate{Lat: 40, Lon: 29}, domain.Coordinate{Lat: 41, Lon: 29})

	assert.Error(t, err)
}

func TestNewOSRMClientDefaultsBaseURL(t *testing.T) {
	c := NewOSRMClient("  ")
	assert.Equal(t, "https://router.project-osrm.org", c.baseURL)

	c = NewOSRMClient("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", c.baseURL)
}
