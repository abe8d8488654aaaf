package domain

import (
	"sort"
	"strings"
)

// PairKey returns the direction-independent cache key for a coordinate pair:
// both canonical keys sorted and joined, so A->B and B->A share one entry.
func PairKey(a, b Coordinate) string {
	ka, kb := a.Key(), b.Key()
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// RouteKey returns the order-independent cache key for a stop set: the
// sorted, de-duplicated canonical coordinate keys joined. Permutations of
// the same coordinate set, including ones with repeated stops, map to the
// same key.
func RouteKey(stops []Stop) string {
	keys := make([]string, 0, len(stops))
	for k := range CoordinateSet(stops) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// CoordinateSet returns the unique canonical coordinate keys of a stop set.
// Route-level cache equality is defined over this set, not over list order
// or stop count.
func CoordinateSet(stops []Stop) map[string]struct{} {
	set := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		set[s.Coord.Key()] = struct{}{}
	}
	return set
}
