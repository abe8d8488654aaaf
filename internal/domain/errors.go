package domain

import "errors"

// Terminal failure taxonomy for route optimization. Per-segment fetch
// failures are recovered internally (retry, then straight-line fallback) and
// never surface as one of these.
var (
	// Fewer than the minimum stop count, or an invalid coordinate.
	// The caller must fix its input before retrying.
	ErrInvalidLocations = errors.New("invalid locations")

	// The connectivity probe reported offline before any provider call was
	// attempted. The caller should retry once connectivity returns.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// Internal inconsistency detected after fetching. The caller is expected
	// to keep its pre-optimization ordering.
	ErrOptimizationFailed = errors.New("optimization failed")
)
