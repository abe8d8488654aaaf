package services

import (
	"math"

	"walking-route-service/internal/domain"
	"walking-route-service/internal/geo"
)

// DefaultMaxIterations caps how many 2-opt scan rounds run per optimization.
const DefaultMaxIterations = 100

// In fewer-turns mode a reversal may lengthen the tour by up to 5%.
const fewerTurnsTolerance = 1.05

// BuildDistanceMatrix returns pairwise straight-line distances in meters
// over a fixed stop set. The diagonal is +Inf so self-loops never look
// attractive to the heuristics; the matrix is symmetric by construction.
func BuildDistanceMatrix(stops []domain.Stop) [][]float64 {
	n := len(stops)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = math.Inf(1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := geo.Distance(stops[i].Coord, stops[j].Coord)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// NearestNeighborTour builds an initial visiting order over the matrix:
// start at index 0, repeatedly append the nearest unvisited index. Ties
// break toward the lowest index so construction is deterministic.
// Behavior is defined for n >= 2; callers pre-validate minimum size.
func NearestNeighborTour(m [][]float64) []int {
	n := len(m)
	tour := make([]int, 0, n)
	visited := make([]bool, n)

	cur := 0
	visited[0] = true
	tour = append(tour, 0)

	for len(tour) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			// Strict < keeps the first (lowest) index on ties.
			if m[cur][j] < best {
				best = m[cur][j]
				next = j
			}
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}

	return tour
}

type TwoOptOptions struct {
	// Scan rounds before giving up; DefaultMaxIterations when <= 0.
	MaxIterations int
	// PreferFewerTurns relaxes acceptance to reversals up to 5% longer,
	// trading distance for straighter tours.
	PreferFewerTurns bool
}

// TwoOpt improves a tour by sub-path reversal: first-improvement scan over
// index pairs, restarting from the top after every accepted move, until a
// full scan yields no acceptable reversal or MaxIterations rounds elapse.
// Index 0 is the anchor and never moves. The result is a valid permutation
// and, outside fewer-turns mode, never longer than the input tour.
//
// O(n^2) candidates per scan with an O(n) length evaluation each; fine at
// the small stop counts this service is built for, and no global optimum is
// guaranteed.
func TwoOpt(m [][]float64, tour []int, opts TwoOptOptions) []int {
	n := len(tour)
	out := append([]int(nil), tour...)
	if n < 3 {
		return out
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	for iter := 0; iter < maxIter; iter++ {
		current := TourLength(m, out)
		limit := current
		if opts.PreferFewerTurns {
			limit = current * fewerTurnsTolerance
		}

		improved := false
	scan:
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				reverseRange(out, i, j)
				candidate := TourLength(m, out)
				if candidate < limit && candidate != current {
					improved = true
					break scan
				}
				// Not acceptable; undo and keep scanning.
				reverseRange(out, i, j)
			}
		}

		if !improved {
			break
		}
	}

	return out
}

// TourLength sums consecutive-pair distances along an open path.
func TourLength(m [][]float64, tour []int) float64 {
	total := 0.0
	for k := 0; k+1 < len(tour); k++ {
		total += m[tour[k]][tour[k+1]]
	}
	return total
}

func reverseRange(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}
