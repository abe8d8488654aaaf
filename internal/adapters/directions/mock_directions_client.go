package directions

import (
	"context"
	"fmt"
	"sync"

	"walking-route-service/internal/domain"
	"walking-route-service/internal/geo"
	"walking-route-service/internal/ports"
)

// MockClient is an in-memory DirectionsClient for tests. It serves fixed
// pairs (direction-independent, like the real caches), counts calls, and
// can be told to fail some or all requests.
type MockClient struct {
	mu        sync.Mutex
	m         map[string]ports.WalkingPath
	calls     int
	failFirst int
	failErr   error
}

type MockPair struct {
	From, To domain.Coordinate
	Meters   float64
	Path     []domain.Coordinate
}

func NewMockClient(pairs []MockPair) *MockClient {
	m := make(map[string]ports.WalkingPath, len(pairs))
	for _, p := range pairs {
		m[domain.PairKey(p.From, p.To)] = ports.WalkingPath{DistanceMeters: p.Meters, Path: p.Path}
	}
	return &MockClient{m: m}
}

// NewStraightLineClient answers every request with a two-point straight
// segment whose distance is the great-circle distance.
func NewStraightLineClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) FetchWalkingPath(ctx context.Context, from, to domain.Coordinate) (ports.WalkingPath, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.failErr != nil {
		return ports.WalkingPath{}, c.failErr
	}
	if c.failFirst > 0 {
		c.failFirst--
		return ports.WalkingPath{}, fmt.Errorf("mock directions: transient failure")
	}

	if c.m == nil {
		return ports.WalkingPath{
			DistanceMeters: geo.Distance(from, to),
			Path:           []domain.Coordinate{from, to},
		}, nil
	}

	p, ok := c.m[domain.PairKey(from, to)]
	if !ok {
		return ports.WalkingPath{}, fmt.Errorf("mock directions: missing pair %q -> %q", from.Key(), to.Key())
	}
	return p, nil
}

// Calls reports how many FetchWalkingPath invocations were made.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// FailAll makes every subsequent call return err.
func (c *MockClient) FailAll(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// FailFirst makes the next n calls fail before normal behavior resumes.
func (c *MockClient) FailFirst(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failFirst = n
}
