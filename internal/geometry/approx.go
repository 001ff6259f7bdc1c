package geometry

import "math"

// ApproxPolygon simplifies a closed polygon with the Douglas-Peucker algorithm.
//
// Parameters:
//   - pts: Vertices of a closed polygon (no repeated closing vertex).
//   - epsilon: Maximum distance, in pixels, between a removed vertex and the
//     simplified outline.
//
// Returns a subset of pts in their original cyclic order. Polygons with fewer
// than 3 vertices are returned as a copy.
//
// # Closed Polygons
//
// A closed polygon has no natural endpoints, so the split starts from two
// mutually distant vertices: begin at vertex 0, jump to the vertex farthest from
// it, and repeat a couple of times so the pair settles on the polygon's extremes.
// Each of the two chains between those anchors is then simplified on its own.
// Anchoring on extremes keeps a true corner from being dropped just because it
// happened to sit next to vertex 0. A final pass, as in OpenCV's approxPolyDP,
// drops any kept vertex (anchors included) that lies within epsilon of the
// line through its kept neighbors.
func ApproxPolygon(pts []Point, epsilon float64) []Point {
	n := len(pts)
	if n < 3 {
		out := make([]Point, n)
		copy(out, pts)
		return out
	}

	start := 0
	end := farthestVertex(pts, start)
	for i := 0; i < 2; i++ {
		next := farthestVertex(pts, end)
		if next == start {
			break
		}
		start, end = end, next
	}
	if start == end {
		return []Point{pts[start]}
	}

	keep := make([]bool, n)
	keep[start] = true
	keep[end] = true
	simplifyChain(pts, start, (end-start+n)%n, epsilon, keep)
	simplifyChain(pts, end, (start-end+n)%n, epsilon, keep)

	out := make([]Point, 0, 8)
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return dropFlatVertices(out, epsilon)
}

// dropFlatVertices removes vertices lying within epsilon of the line through
// their two neighbors, anchors included, until none is left or only a
// triangle remains. The chain split can keep such a vertex when it sits at a
// chain end.
func dropFlatVertices(pts []Point, epsilon float64) []Point {
	for len(pts) > 3 {
		removed := false
		for i := 0; i < len(pts) && len(pts) > 3; {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			if prev != next && lineDistance(pts[i], prev, next) <= epsilon {
				pts = append(pts[:i], pts[i+1:]...)
				removed = true
				continue
			}
			i++
		}
		if !removed {
			break
		}
	}
	return pts
}

// simplifyChain marks the vertices to keep on the cyclic chain that starts at
// index first and spans length edges.
//
// Uses an explicit stack of (lo, hi) chain positions instead of recursion.
func simplifyChain(pts []Point, first, length int, epsilon float64, keep []bool) {
	n := len(pts)
	at := func(pos int) Point { return pts[(first+pos)%n] }

	stack := [][2]int{{0, length}}
	for len(stack) > 0 {
		span := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lo, hi := span[0], span[1]
		if hi-lo < 2 {
			continue
		}

		a, b := at(lo), at(hi)
		maxDist := -1.0
		maxPos := lo
		for pos := lo + 1; pos < hi; pos++ {
			if d := lineDistance(at(pos), a, b); d > maxDist {
				maxDist = d
				maxPos = pos
			}
		}

		if maxDist > epsilon {
			keep[(first+maxPos)%n] = true
			stack = append(stack, [2]int{lo, maxPos}, [2]int{maxPos, hi})
		}
	}
}

// farthestVertex returns the index of the vertex farthest from pts[from].
func farthestVertex(pts []Point, from int) int {
	best := from
	var bestDist int64 = -1
	for i, p := range pts {
		dx := int64(p.X - pts[from].X)
		dy := int64(p.Y - pts[from].Y)
		if d := dx*dx + dy*dy; d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// lineDistance is the perpendicular distance from p to the infinite line through
// a and b, or the plain distance to a when a and b coincide.
func lineDistance(p, a, b Point) float64 {
	if a == b {
		return Distance(p, a)
	}
	return math.Abs(float64(Cross(a, b, p))) / Distance(a, b)
}
