package cache

import (
	"sync"
	"time"

	"walking-route-service/internal/domain"
)

// RouteCache is an in-memory TTL cache of complete optimized routes, keyed
// by the order-independent coordinate set of the input stops
// (domain.RouteKey). Entries carry that coordinate set so a hit is verified
// against the querying stop set and never served across distinct sets, even
// on key collision. The whole cache is cleared in bulk whenever the caller's
// underlying stop list mutates.
type RouteCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]routeEntry
}

type routeEntry struct {
	set       map[string]struct{}
	result    domain.RouteResult
	createdAt time.Time
}

// NewRouteCache builds a cache with the given TTL and clock; zero values
// fall back to DefaultTTL and time.Now.
func NewRouteCache(ttl time.Duration, now func() time.Time) *RouteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &RouteCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]routeEntry),
	}
}

// Get returns a fresh cached result whose coordinate set matches stops,
// order-independently. Expired entries are removed lazily.
func (c *RouteCache) Get(key string, stops []domain.Stop) (domain.RouteResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.RouteResult{}, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return domain.RouteResult{}, false
	}
	if !sameSet(e.set, domain.CoordinateSet(stops)) {
		return domain.RouteResult{}, false
	}
	return copyResult(e.result), true
}

// Put stores a result for the coordinate set of stops with the current
// timestamp.
func (c *RouteCache) Put(key string, stops []domain.Stop, res domain.RouteResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = routeEntry{
		set:       domain.CoordinateSet(stops),
		result:    copyResult(res),
		createdAt: c.now(),
	}
}

// Sweep drops all expired entries.
func (c *RouteCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Clear empties the cache unconditionally.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]routeEntry)
}

// Len reports the number of entries, expired or not.
func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func copyResult(r domain.RouteResult) domain.RouteResult {
	out := r
	out.Stops = append([]domain.Stop(nil), r.Stops...)
	out.Path = append([]domain.Coordinate(nil), r.Path...)
	return out
}
