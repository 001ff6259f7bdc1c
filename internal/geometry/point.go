// Package geometry provides the point-set geometry used to turn a connected edge
// component into a quadrilateral corner hypothesis.
//
// # Coordinate System
//
// Points are integer pixel coordinates in frame space:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Because Y grows downward, a turn that is counter-clockwise in the usual
// mathematical sense appears clockwise on screen. The hull code only depends on
// the sign of the cross product, so this never needs special handling.
//
// # Algorithms
//
//   - ConvexHull: Andrew's monotone chain (sort + two sweeps), O(n log n)
//   - ApproxPolygon: closed-polygon Douglas-Peucker simplification
//   - QuadFitter: hull → 4-vertex polygon → corners ordered TL, TR, BR, BL
package geometry

import (
	"fmt"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// String formats the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Cross returns the z component of (a-o) × (b-o).
//
// Positive values mean o→a→b turns left (in math orientation), zero means the
// three points are collinear. Deltas are widened to int64 before multiplying so
// large frame coordinates cannot overflow.
func Cross(o, a, b Point) int64 {
	ax := int64(a.X) - int64(o.X)
	ay := int64(a.Y) - int64(o.Y)
	bx := int64(b.X) - int64(o.X)
	by := int64(b.Y) - int64(o.Y)
	return ax*by - ay*bx
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Perimeter returns the length of the closed polygon through pts, including the
// edge from the last vertex back to the first.
func Perimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i := range pts {
		total += Distance(pts[i], pts[(i+1)%len(pts)])
	}
	return total
}
