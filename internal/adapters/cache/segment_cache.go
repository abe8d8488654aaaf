package cache

import (
	"sync"
	"time"

	"walking-route-service/internal/domain"
	"walking-route-service/internal/ports"
)

// DefaultTTL is how long cached segments and routes stay fresh.
const DefaultTTL = 300 * time.Second

// SegmentCache is an in-memory TTL cache of fetched point-to-point walking
// segments, keyed by direction-independent coordinate pair
// (domain.PairKey). All access is serialized through one mutex and values
// are copied in and out, so callers never share backing arrays with the
// cache. Concurrent writers to the same key are last-writer-wins; cached
// values for one pair are expected to converge.
type SegmentCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]segmentEntry
}

type segmentEntry struct {
	path      ports.WalkingPath
	createdAt time.Time
}

// NewSegmentCache builds a cache with the given TTL and clock. A zero TTL
// falls back to DefaultTTL, a nil clock to time.Now; tests inject a fake
// clock to drive expiry.
func NewSegmentCache(ttl time.Duration, now func() time.Time) *SegmentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SegmentCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]segmentEntry),
	}
}

// Get returns a fresh entry for key. Expired entries are removed lazily and
// reported as misses.
func (c *SegmentCache) Get(key string) (ports.WalkingPath, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return ports.WalkingPath{}, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return ports.WalkingPath{}, false
	}
	return copyPath(e.path), true
}

// Put stores a path under key with the current timestamp.
func (c *SegmentCache) Put(key string, p ports.WalkingPath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = segmentEntry{path: copyPath(p), createdAt: c.now()}
}

// Sweep drops all expired entries. It holds the cache lock only for the
// duration of the scan and is safe to run inline with any write.
func (c *SegmentCache) Sweep() {
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
func (c *SegmentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]segmentEntry)
}

// Len reports the number of entries, expired or not.
func (c *SegmentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func copyPath(p ports.WalkingPath) ports.WalkingPath {
	out := p
	out.Path = append([]domain.Coordinate(nil), p.Path...)
	return out
}
