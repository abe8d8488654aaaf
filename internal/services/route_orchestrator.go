package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"walking-route-service/internal/adapters/cache"
	"walking-route-service/internal/domain"
	"walking-route-service/internal/geo"
	"walking-route-service/internal/platform/obs"
	"walking-route-service/internal/ports"
)

const (
	// Minimum stop count worth optimizing; below it the caller's ordering
	// is already the only ordering.
	minStops = 3

	// Directions fetch policy: attempts per segment, fixed backoff between
	// attempts, and the concurrency cap that keeps the provider rate limits
	// honest.
	fetchAttempts        = 3
	defaultFetchBackoff  = 500 * time.Millisecond
	maxConcurrentFetches = 3

	defaultWalkingSpeedMPS = 1.4

	// Bearing change between consecutive path points that counts as a turn.
	turnThresholdDegrees = 20.0
)

// OptimizeRequest carries one optimization call. The tuning fields are
// optional and default as documented.
type OptimizeRequest struct {
	Stops []domain.Stop

	WalkingSpeedMPS  float64 // default 1.4
	PreferFewerTurns bool
	MaxIterations    int // default DefaultMaxIterations
}

// Orchestrator is the route optimization engine: it validates input,
// consults the route cache, orders stops with the tour heuristics, fetches
// real walking segments concurrently through the segment cache tiers, and
// assembles the final result.
//
// Both caches are owned here and shared across requests; Store and Probe
// are optional (nil disables the persistent tier / the offline gate).
type Orchestrator struct {
	Directions ports.DirectionsClient
	Probe      ports.ConnectivityProbe
	Store      ports.SegmentStore

	Segments *cache.SegmentCache
	Routes   *cache.RouteCache

	backoff time.Duration
}

func NewOrchestrator(
	directions ports.DirectionsClient,
	probe ports.ConnectivityProbe,
	store ports.SegmentStore,
	ttl time.Duration,
) *Orchestrator {
	return &Orchestrator{
		Directions: directions,
		Probe:      probe,
		Store:      store,
		Segments:   cache.NewSegmentCache(ttl, nil),
		Routes:     cache.NewRouteCache(ttl, nil),
		backoff:    defaultFetchBackoff,
	}
}

// Where a fetched segment came from; decides which cache tiers get written
// after the request is known to succeed.
type segmentSource int

const (
	srcMemory segmentSource = iota
	srcStore
	srcRemote
	srcFallback
)

type fetchedSegment struct {
	seg domain.Segment
	src segmentSource
}

// Optimize orders the stops, fetches their walking segments, and returns
// the assembled route. A surfaced error is always one of the domain
// sentinels (or a context error) and leaves both caches untouched for this
// request; per-segment provider failures are absorbed by retry and
// straight-line fallback instead.
func (o *Orchestrator) Optimize(ctx context.Context, req OptimizeRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Optimize")(&err)

	stops := req.Stops
	if len(stops) < minStops {
		return nil, fmt.Errorf("optimize route: need at least %d stops, got %d: %w", minStops, len(stops), domain.ErrInvalidLocations)
	}
	for _, s := range stops {
		if !s.Coord.IsValid() {
			return nil, fmt.Errorf("optimize route: stop %q has invalid coordinate: %w", s.Name, domain.ErrInvalidLocations)
		}
	}

	key := domain.RouteKey(stops)
	if res, ok := o.Routes.Get(key, stops); ok {
		return &res, nil
	}

	if o.Probe != nil && !o.Probe.IsOnline() {
		return nil, fmt.Errorf("optimize route: %w", domain.ErrNetworkUnavailable)
	}

	matrix := BuildDistanceMatrix(stops)
	tour := NearestNeighborTour(matrix)
	tour = TwoOpt(matrix, tour, TwoOptOptions{
		MaxIterations:    req.MaxIterations,
		PreferFewerTurns: req.PreferFewerTurns,
	})

	ordered := make([]domain.Stop, len(tour))
	for i, idx := range tour {
		ordered[i] = stops[idx]
	}

	segments, err := o.fetchSegments(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	if err := validateSegments(stops, ordered, segments); err != nil {
		return nil, err
	}

	speed := req.WalkingSpeedMPS
	if speed <= 0 {
		speed = defaultWalkingSpeedMPS
	}
	res := assembleResult(ordered, segments, speed)

	// Cache writes are deferred to this point so a surfaced failure can
	// never leave partial entries behind.
	o.commitSegments(ctx, segments)
	o.Routes.Put(key, stops, res)
	o.Segments.Sweep()
	o.Routes.Sweep()

	return &res, nil
}

// HasCachedRoute reports whether a fresh cached route exists for the stop
// set, using the same order-independent matching as Optimize. Read-only.
func (o *Orchestrator) HasCachedRoute(stops []domain.Stop) bool {
	_, ok := o.Routes.Get(domain.RouteKey(stops), stops)
	return ok
}

// ClearCache empties both in-memory caches. Called whenever the caller's
// stop list mutates structurally so stale routes are never served.
func (o *Orchestrator) ClearCache() {
	o.Routes.Clear()
	o.Segments.Clear()
}

// fetchSegments retrieves the n-1 consecutive segments of the tour
// concurrently. Workers may finish in any order; results land in a buffer
// indexed by tour position so concurrency never reorders the final path.
// The only error out of here is context cancellation.
func (o *Orchestrator) fetchSegments(ctx context.Context, ordered []domain.Stop) ([]fetchedSegment, error) {
	segments := make([]fetchedSegment, len(ordered)-1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i := 0; i+1 < len(ordered); i++ {
		i := i
		g.Go(func() error {
			fs, err := o.fetchSegment(ctx, ordered[i], ordered[i+1])
			if err != nil {
				return err
			}
			segments[i] = fs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

// fetchSegment resolves one consecutive pair: memory cache, then persistent
// store, then the directions provider with bounded retry, then straight-line
// fallback. Cancellation is honored before every attempt and during backoff,
// and cancelled work writes nothing anywhere.
func (o *Orchestrator) fetchSegment(ctx context.Context, from, to domain.Stop) (fetchedSegment, error) {
	key := domain.PairKey(from.Coord, to.Coord)

	if p, ok := o.Segments.Get(key); ok {
		return fetchedSegment{seg: orientSegment(from, to, p), src: srcMemory}, nil
	}

	if o.Store != nil {
		p, ok, err := o.Store.Get(ctx, key)
		if err != nil {
			log.Printf("segment store read failed key=%s err=%v", key, err)
		} else if ok {
			return fetchedSegment{seg: orientSegment(from, to, p), src: srcStore}, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fetchedSegment{}, err
		}

		p, err := o.Directions.FetchWalkingPath(ctx, from.Coord, to.Coord)
		if err == nil {
			return fetchedSegment{seg: orientSegment(from, to, p), src: srcRemote}, nil
		}
		lastErr = err

		if attempt == fetchAttempts {
			break
		}

		timer := time.NewTimer(o.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fetchedSegment{}, ctx.Err()
		case <-timer.C:
		}
	}

	// Degrade to a straight two-point segment rather than failing the
	// whole request.
	log.Printf(
		"directions fetch failed after %d attempts from=%s to=%s err=%v (straight-line fallback)",
		fetchAttempts, from.Coord.Key(), to.Coord.Key(), lastErr,
	)
	return fetchedSegment{
		seg: domain.Segment{
			From:           from,
			To:             to,
			DistanceMeters: geo.Distance(from.Coord, to.Coord),
			Path:           []domain.Coordinate{from.Coord, to.Coord},
			Fallback:       true,
		},
		src: srcFallback,
	}, nil
}

// commitSegments writes real segments back to the cache tiers: anything not
// already in memory refreshes the memory cache, and only segments fetched
// from the provider this request reach the persistent store. Fallback
// segments are never cached.
func (o *Orchestrator) commitSegments(ctx context.Context, segments []fetchedSegment) {
	for _, fs := range segments {
		if fs.src == srcFallback || fs.src == srcMemory {
			continue
		}

		key := domain.PairKey(fs.seg.From.Coord, fs.seg.To.Coord)
		p := ports.WalkingPath{DistanceMeters: fs.seg.DistanceMeters, Path: fs.seg.Path}
		o.Segments.Put(key, p)

		if fs.src == srcRemote && o.Store != nil {
			if err := o.Store.Put(ctx, key, p); err != nil {
				log.Printf("segment store write failed key=%s err=%v", key, err)
			}
		}
	}
}

// orientSegment attaches a fetched path to its stop pair. Cached entries are
// direction-independent, so a path stored for B->A is reversed before being
// served for A->B.
func orientSegment(from, to domain.Stop, p ports.WalkingPath) domain.Segment {
	path := p.Path
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		if geo.Distance(first, from.Coord) > geo.Distance(last, from.Coord) {
			reversed := make([]domain.Coordinate, len(path))
			for i, c := range path {
				reversed[len(path)-1-i] = c
			}
			path = reversed
		}
	}
	return domain.Segment{
		From:           from,
		To:             to,
		DistanceMeters: p.DistanceMeters,
		Path:           path,
	}
}

// validateSegments is the post-fetch consistency gate: the optimized
// ordering must still cover exactly the input coordinate multiset and every
// consecutive pair must have produced a segment.
func validateSegments(input, ordered []domain.Stop, segments []fetchedSegment) error {
	if len(ordered) != len(input) {
		return fmt.Errorf("optimize route: ordering covers %d of %d stops: %w", len(ordered), len(input), domain.ErrOptimizationFailed)
	}
	if len(segments) != len(ordered)-1 {
		return fmt.Errorf("optimize route: got %d segments for %d stops: %w", len(segments), len(ordered), domain.ErrOptimizationFailed)
	}

	counts := make(map[string]int, len(input))
	for _, s := range input {
		counts[s.Coord.Key()]++
	}
	for _, s := range ordered {
		counts[s.Coord.Key()]--
	}
	for k, n := range counts {
		if n != 0 {
			return fmt.Errorf("optimize route: optimized set diverged at %s: %w", k, domain.ErrOptimizationFailed)
		}
	}
	return nil
}

// assembleResult merges segments in tour order into the final path and
// derives route statistics.
func assembleResult(ordered []domain.Stop, segments []fetchedSegment, speedMPS float64) domain.RouteResult {
	var merged []domain.Coordinate
	total := 0.0
	turns := 0

	for _, fs := range segments {
		seg := fs.seg
		total += seg.DistanceMeters
		turns += countTurns(seg.Path)

		for _, c := range seg.Path {
			// Drop the duplicated joint where one segment ends and the
			// next begins.
			if len(merged) > 0 && merged[len(merged)-1].Key() == c.Key() {
				continue
			}
			merged = append(merged, c)
		}
	}

	avg := 0.0
	if len(segments) > 0 {
		avg = total / float64(len(segments))
	}

	return domain.RouteResult{
		Stops: append([]domain.Stop(nil), ordered...),
		Path:  merged,
		Statistics: domain.RouteStatistics{
			TotalDistanceMeters:      total,
			EstimatedDurationSeconds: total / speedMPS,
			ElevationGainMeters:      0,
			TurnCount:                turns,
			AverageSegmentMeters:     avg,
		},
	}
}

// countTurns counts bearing changes above the turn threshold between
// consecutive path points of one segment.
func countTurns(path []domain.Coordinate) int {
	turns := 0
	for k := 1; k+1 < len(path); k++ {
		b1 := geo.Bearing(path[k-1], path[k])
		b2 := geo.Bearing(path[k], path[k+1])
		if angleDelta(b1, b2) > turnThresholdDegrees {
			turns++
		}
	}
	return turns
}

func angleDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
