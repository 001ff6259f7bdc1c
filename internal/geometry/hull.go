package geometry

import "sort"

// ConvexHull computes the convex hull of a point set with the monotone chain
// algorithm.
//
// Parameters:
//   - points: Input pixel coordinates. The slice is not modified.
//
// Returns the hull as a cyclic vertex sequence without a repeated closing vertex.
// Inputs with zero or one point are returned unchanged.
//
// # Algorithm
//
//  1. Copy and sort by X ascending, then Y ascending
//  2. Lower chain: sweep left to right, popping the last chain point while the
//     turn chain[-2] → chain[-1] → candidate has cross product ≤ 0
//  3. Upper chain: the same sweep right to left
//  4. Concatenate both chains, dropping each chain's last point (it starts the
//     other chain)
//
// Popping on a zero cross product collapses collinear runs, so the result never
// contains three consecutive collinear vertices.
//
// # Performance
//
// O(n log n), dominated by the sort. Two chain slices are allocated per call.
func ConvexHull(points []Point) []Point {
	if len(points) <= 1 {
		return points
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	lower := make([]Point, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && Cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && Cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := make([]Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}
