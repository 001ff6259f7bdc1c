package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
)

// DefaultQuadColor is the outline color for fitted quadrilaterals.
const DefaultQuadColor = "#00ff00"

const cornerMarkerRadius = 2

// OverlayOptions selects what RenderOverlay draws.
type OverlayOptions struct {
	// ShowEdges tints edge-mask pixels.
	ShowEdges bool

	// ShowBoxes draws each candidate's bounding box.
	ShowBoxes bool

	// ShowHulls draws each candidate's convex hull.
	ShowHulls bool

	// ShowLabels writes component labels and a frame summary.
	ShowLabels bool

	// OnlyLargest restricts drawing to the largest candidate.
	OnlyLargest bool

	// QuadColor is a "#RRGGBB" hex color. Empty selects DefaultQuadColor.
	QuadColor string
}

// DefaultOverlayOptions draws boxes, hulls, quads and labels.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		ShowBoxes:  true,
		ShowHulls:  true,
		ShowLabels: true,
		QuadColor:  DefaultQuadColor,
	}
}

// RenderOverlay draws detection results on top of a copy of img.
//
// Every candidate gets its own hue from an evenly spread palette. Fitted
// quadrilaterals are outlined in QuadColor with a marker on each assigned
// corner. img is not modified.
func RenderOverlay(img image.Image, result *pipeline.FrameResult, opts OverlayOptions) (*image.RGBA, error) {
	quadHex := opts.QuadColor
	if quadHex == "" {
		quadHex = DefaultQuadColor
	}
	quadColor, err := colorful.Hex(quadHex)
	if err != nil {
		return nil, fmt.Errorf("invalid quad color %q: %w", quadHex, err)
	}
	quadRGBA := toRGBA(quadColor)

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)

	if result == nil {
		return canvas, nil
	}

	if opts.ShowEdges && result.Mask != nil {
		edgeColor := color.RGBA{0, 180, 255, 255}
		for y := 0; y < result.Mask.Height; y++ {
			for x := 0; x < result.Mask.Width; x++ {
				if result.Mask.IsEdge(x, y) {
					canvas.SetRGBA(x, y, edgeColor)
				}
			}
		}
	}

	candidates := result.Candidates
	if opts.OnlyLargest {
		candidates = nil
		if c := result.LargestCandidate(); c != nil {
			candidates = []pipeline.Candidate{*c}
		}
	}
	palette := candidatePalette(len(candidates))

	for i := range candidates {
		c := &candidates[i]
		col := palette[i]

		if opts.ShowBoxes {
			b := c.Component.Bounds
			drawPolygon(canvas, []geometry.Point{
				{X: b.MinX, Y: b.MinY}, {X: b.MaxX, Y: b.MinY},
				{X: b.MaxX, Y: b.MaxY}, {X: b.MinX, Y: b.MaxY},
			}, col)
		}
		if opts.ShowHulls {
			drawPolygon(canvas, c.Hull, col)
		}
		if c.Quad != nil {
			drawQuad(canvas, c.Quad, quadRGBA)
		}
		if opts.ShowLabels {
			b := c.Component.Bounds
			drawText(canvas, b.MinX, b.MinY-basicfont.Face7x13.Height-1,
				fmt.Sprintf("#%d", c.Component.Label), col)
		}
	}

	if opts.ShowLabels {
		summary := fmt.Sprintf("edges %d  components %d  candidates %d  quads %d",
			result.EdgeStats.EdgePixelCount, result.ComponentCount(),
			len(result.Candidates), result.QuadCount())
		drawText(canvas, 2, 2, summary, color.RGBA{255, 255, 255, 255})
	}

	return canvas, nil
}

// candidatePalette returns n saturated colors with hues a golden angle apart,
// so neighbors in the list never look alike.
func candidatePalette(n int) []color.RGBA {
	colors := make([]color.RGBA, n)
	for i := range colors {
		hue := math.Mod(float64(i)*137.508, 360)
		colors[i] = toRGBA(colorful.Hsv(hue, 0.85, 1.0))
	}
	return colors
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawQuad(img *image.RGBA, q *geometry.Quadrilateral, col color.RGBA) {
	var pts []geometry.Point
	for _, c := range q.Corners() {
		if c != nil {
			pts = append(pts, *c)
		}
	}
	drawPolygon(img, pts, col)

	for _, p := range pts {
		for dy := -cornerMarkerRadius; dy <= cornerMarkerRadius; dy++ {
			for dx := -cornerMarkerRadius; dx <= cornerMarkerRadius; dx++ {
				setPixel(img, p.X+dx, p.Y+dy, col)
			}
		}
	}
}

// drawPolygon draws a closed polyline. One point draws a dot.
func drawPolygon(img *image.RGBA, pts []geometry.Point, col color.RGBA) {
	switch len(pts) {
	case 0:
		return
	case 1:
		setPixel(img, pts[0].X, pts[0].Y, col)
		return
	}
	for i := range pts {
		drawLine(img, pts[i], pts[(i+1)%len(pts)], col)
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b geometry.Point, col color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y

	for {
		setPixel(img, x, y, col)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// drawText writes a label with a translucent backing box. (x, y) is the
// top-left corner of the box.
func drawText(img *image.RGBA, x, y int, text string, fg color.RGBA) {
	face := basicfont.Face7x13
	if y < 0 {
		y = 0
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()

	box := image.Rect(x-1, y, x+w+1, y+face.Height).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Rect) {
		img.SetRGBA(x, y, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
