package geometry

import (
	"errors"
	"fmt"
)

// DefaultEpsilonFraction is the share of the hull perimeter used as the
// simplification tolerance when fitting a quadrilateral.
const DefaultEpsilonFraction = 0.02

// ErrNotQuadrilateral reports that a hull could not be reduced to four corners.
// It describes a geometric degeneracy of one candidate, never a pipeline failure.
var ErrNotQuadrilateral = errors.New("not a quadrilateral")

// Quadrilateral holds four corners in canonical order.
//
// A slot is nil when no simplified vertex was classified into it. That happens
// when two vertices fall into the same quadrant around the centroid (a strongly
// rotated or skewed shape); the later vertex then overwrites the earlier one.
// Use Complete to detect it.
type Quadrilateral struct {
	TopLeft     *Point `json:"top_left"`
	TopRight    *Point `json:"top_right"`
	BottomRight *Point `json:"bottom_right"`
	BottomLeft  *Point `json:"bottom_left"`
}

// Corners returns the slots in TL, TR, BR, BL order.
func (q *Quadrilateral) Corners() [4]*Point {
	return [4]*Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Complete reports whether every corner slot was assigned.
func (q *Quadrilateral) Complete() bool {
	return q.TopLeft != nil && q.TopRight != nil && q.BottomRight != nil && q.BottomLeft != nil
}

// QuadFitter reduces convex hulls to quadrilaterals.
type QuadFitter struct {
	// EpsilonFraction scales the hull perimeter into the Douglas-Peucker
	// tolerance. Zero or negative values fall back to DefaultEpsilonFraction.
	EpsilonFraction float64
}

// NewQuadFitter returns a fitter using DefaultEpsilonFraction.
func NewQuadFitter() QuadFitter {
	return QuadFitter{EpsilonFraction: DefaultEpsilonFraction}
}

// FitQuadrilateral fits a hull with the default fitter.
func FitQuadrilateral(hull []Point) (*Quadrilateral, error) {
	return NewQuadFitter().Fit(hull)
}

// Fit simplifies a convex hull toward four vertices and orders them.
//
// Parameters:
//   - hull: Convex hull vertices as returned by ConvexHull.
//
// Returns:
//   - *Quadrilateral: Corners in TL, TR, BR, BL order.
//   - error: ErrNotQuadrilateral (wrapped with the reason) when the hull has
//     fewer than 4 vertices or the simplification does not yield exactly 4.
//
// # Algorithm
//
//  1. epsilon = EpsilonFraction × closed hull perimeter
//  2. ApproxPolygon(hull, epsilon)
//  3. Centroid = mean of the 4 vertices
//  4. Each vertex goes to a slot by the sign of its offset from the centroid:
//     left iff x < cx, top iff y < cy
//
// # Limitations
//
// Classification is quadrant based, not angle based. A quadrilateral rotated
// near 45° can put two vertices in one quadrant, leaving a nil slot. This is not
// detected or reported here; see Quadrilateral.Complete.
func (f QuadFitter) Fit(hull []Point) (*Quadrilateral, error) {
	if len(hull) < 4 {
		return nil, fmt.Errorf("%w: hull has %d vertices", ErrNotQuadrilateral, len(hull))
	}

	fraction := f.EpsilonFraction
	if fraction <= 0 {
		fraction = DefaultEpsilonFraction
	}
	epsilon := fraction * Perimeter(hull)

	approx := ApproxPolygon(hull, epsilon)
	if len(approx) != 4 {
		return nil, fmt.Errorf("%w: simplified to %d vertices", ErrNotQuadrilateral, len(approx))
	}

	return orderCorners(approx), nil
}

// orderCorners assigns four vertices to slots relative to their centroid.
func orderCorners(corners []Point) *Quadrilateral {
	var sumX, sumY float64
	for _, c := range corners {
		sumX += float64(c.X)
		sumY += float64(c.Y)
	}
	cx := sumX / float64(len(corners))
	cy := sumY / float64(len(corners))

	q := &Quadrilateral{}
	for i := range corners {
		c := corners[i]
		left := float64(c.X) < cx
		top := float64(c.Y) < cy

		switch {
		case left && top:
			q.TopLeft = &c
		case !left && top:
			q.TopRight = &c
		case !left && !top:
			q.BottomRight = &c
		default:
			q.BottomLeft = &c
		}
	}
	return q
}
