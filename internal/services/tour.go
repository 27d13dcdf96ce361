package services

import (
	"math"

	"fleet-dispatch-service/internal/domain"
)

// SequenceRoute orders a route's stops as a closed tour using a greedy
// nearest-neighbor walk from the depot.
//
// The walk repeatedly visits the closest unvisited stop by grid distance
// and finally returns to the depot, so TotalDistance always includes the
// return leg. The algorithm minimizes each immediate hop, not the whole
// tour; it trades optimality for determinism and O(n^2) simplicity.
// Duplicate stop entries are collapsed before sequencing. A route with no
// stops sequences to an empty tour of distance zero.
func SequenceRoute(r *domain.Route, depot domain.Point) {
	remaining := dedupeStops(r.Stops)

	ordered := make([]domain.Point, 0, len(remaining))
	current := depot
	total := 0.0

	for len(remaining) > 0 {
		best := 0
		bestDist := math.MaxFloat64
		// Strict < keeps the first-encountered stop on equal distances.
		for i, stop := range remaining {
			if d := domain.Manhattan(current, stop); d < bestDist {
				bestDist = d
				best = i
			}
		}

		total += bestDist
		current = remaining[best]
		ordered = append(ordered, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	// Return leg closes the tour.
	total += domain.Manhattan(current, depot)

	r.Stops = ordered
	r.TotalDistance = total
	r.Optimized = true
}

func dedupeStops(stops []domain.Point) []domain.Point {
	seen := make(map[domain.Point]struct{}, len(stops))
	out := make([]domain.Point, 0, len(stops))
	for _, s := range stops {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
