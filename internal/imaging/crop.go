package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
)

// CropResult is a cropped, optionally rescaled region encoded as PNG.
type CropResult struct {
	ImageResult

	// Region is the source rectangle that was cropped, max exclusive.
	Region Region `json:"region"`

	// Corners holds the quadrilateral corners in output image coordinates,
	// TL, TR, BR, BL. Empty when the candidate has no quadrilateral.
	Corners []geometry.Point `json:"corners,omitempty"`
}

// Region is a rectangle in source image coordinates. (X1, Y1) is inclusive,
// (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Crop extracts a rectangular region and rescales it by scale.
//
// A scale of 1 or less than or equal to 0 leaves the size unchanged.
func Crop(img image.Image, r Region, scale float64) (image.Image, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	var cropped image.Image = imaging.Crop(img, r.Rect())

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(r.X2-r.X1) * scale)
		newHeight := int(float64(r.Y2-r.Y1) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.3f collapses region to %dx%d", scale, newWidth, newHeight)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return cropped, nil
}

// CandidateRegion returns the area around a candidate worth handing to a
// marker decoder: the quadrilateral's extent when one was fitted, else the
// component's bounding box, grown by margin and clipped to bounds.
func CandidateRegion(c *pipeline.Candidate, margin int, bounds image.Rectangle) Region {
	b := c.Component.Bounds
	minX, minY, maxX, maxY := b.MinX, b.MinY, b.MaxX, b.MaxY

	if c.Quad != nil {
		first := true
		for _, p := range c.Quad.Corners() {
			if p == nil {
				continue
			}
			if first {
				minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
				first = false
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	r := image.Rect(minX-margin, minY-margin, maxX+margin+1, maxY+margin+1).Intersect(bounds)
	return Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// CropCandidate crops the region around a candidate and encodes it.
//
// Parameters:
//   - img: Source frame the candidate was detected in.
//   - c: Candidate from a pipeline FrameResult.
//   - margin: Extra pixels kept on every side. Negative values count as 0.
//   - scale: Resize factor applied after cropping (1 keeps the size).
func CropCandidate(img image.Image, c *pipeline.Candidate, margin int, scale float64) (*CropResult, error) {
	if margin < 0 {
		margin = 0
	}
	region := CandidateRegion(c, margin, img.Bounds())

	cropped, err := Crop(img, region, scale)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	result := &CropResult{ImageResult: *encoded, Region: region}

	if c.Quad != nil {
		sx := float64(encoded.Width) / float64(region.X2-region.X1)
		sy := float64(encoded.Height) / float64(region.Y2-region.Y1)
		for _, p := range c.Quad.Corners() {
			if p == nil {
				continue
			}
			result.Corners = append(result.Corners, geometry.Point{
				X: int(float64(p.X-region.X1) * sx),
				Y: int(float64(p.Y-region.Y1) * sy),
			})
		}
	}

	return result, nil
}
