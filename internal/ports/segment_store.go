package ports

import "context"

// Optional persistent tier below the in-memory segment cache. Implementations
// persist fetched walking segments across restarts; routes themselves are
// never persisted.
type SegmentStore interface {
	// Get returns the stored path for a direction-independent pair key, or
	// ok=false when absent.
	Get(ctx context.Context, key string) (path WalkingPath, ok bool, err error)

	// Put stores a path under the given pair key, replacing any previous
	// value.
	Put(ctx context.Context, key string, path WalkingPath) error
}
