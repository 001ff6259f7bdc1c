package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

// QuadMeasurement describes the shape of a fitted quadrilateral.
//
// Lengths are in pixels and rounded to two decimals.
type QuadMeasurement struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`

	// DiagonalTLBR runs top-left to bottom-right, DiagonalTRBL top-right to
	// bottom-left.
	DiagonalTLBR float64 `json:"diagonal_tl_br"`
	DiagonalTRBL float64 `json:"diagonal_tr_bl"`

	Perimeter float64 `json:"perimeter"`

	// Area is the shoelace area in square pixels.
	Area float64 `json:"area"`

	// AspectRatio is mean horizontal side over mean vertical side.
	AspectRatio float64 `json:"aspect_ratio"`

	// SideRatio is shortest side over longest side. 1 for a square.
	SideRatio float64 `json:"side_ratio"`

	// Angles are the interior angles in degrees at TL, TR, BR, BL.
	Angles [4]float64 `json:"angles"`
}

// MeasureQuad computes side lengths, diagonals, area and angles.
//
// Returns an error when any corner slot is unset.
func MeasureQuad(q *geometry.Quadrilateral) (*QuadMeasurement, error) {
	if q == nil || !q.Complete() {
		return nil, fmt.Errorf("quadrilateral is incomplete")
	}

	c := q.Corners()
	tl, tr, br, bl := *c[0], *c[1], *c[2], *c[3]
	pts := []geometry.Point{tl, tr, br, bl}

	m := &QuadMeasurement{
		Top:          round2(geometry.Distance(tl, tr)),
		Right:        round2(geometry.Distance(tr, br)),
		Bottom:       round2(geometry.Distance(br, bl)),
		Left:         round2(geometry.Distance(bl, tl)),
		DiagonalTLBR: round2(geometry.Distance(tl, br)),
		DiagonalTRBL: round2(geometry.Distance(tr, bl)),
		Perimeter:    round2(geometry.Perimeter(pts)),
		Area:         shoelaceArea(pts),
	}

	vertical := m.Left + m.Right
	if vertical > 0 {
		m.AspectRatio = round2((m.Top + m.Bottom) / vertical)
	}

	shortest := math.Min(math.Min(m.Top, m.Right), math.Min(m.Bottom, m.Left))
	longest := math.Max(math.Max(m.Top, m.Right), math.Max(m.Bottom, m.Left))
	if longest > 0 {
		m.SideRatio = round2(shortest / longest)
	}

	for i := range pts {
		prev := pts[(i+3)%4]
		next := pts[(i+1)%4]
		m.Angles[i] = math.Round(interiorAngle(prev, pts[i], next)*10) / 10
	}

	return m, nil
}

func shoelaceArea(pts []geometry.Point) float64 {
	var sum int64
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// interiorAngle returns the angle at v between v→a and v→b in degrees.
func interiorAngle(a, v, b geometry.Point) float64 {
	ax, ay := float64(a.X-v.X), float64(a.Y-v.Y)
	bx, by := float64(b.X-v.X), float64(b.Y-v.Y)
	la := math.Hypot(ax, ay)
	lb := math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return 0
	}
	cos := (ax*bx + ay*by) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
