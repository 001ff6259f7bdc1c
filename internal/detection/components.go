package detection

import (
	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

// Bounds is an axis-aligned bounding box in pixel coordinates.
// Both ends are inclusive.
type Bounds struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the horizontal extent in pixels (MaxX - MinX + 1).
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the vertical extent in pixels (MaxY - MinY + 1).
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// Area returns Width × Height.
func (b Bounds) Area() int { return b.Width() * b.Height() }

// Contains reports whether p lies inside the box.
func (b Bounds) Contains(p geometry.Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ConnectedComponent is one 8-connected blob of edge pixels.
type ConnectedComponent struct {
	// Label is unique within a frame. Labels start at 1 and follow the raster
	// order of each component's first pixel.
	Label int `json:"label"`

	// PixelCount always equals len(Pixels).
	PixelCount int `json:"pixel_count"`

	// Bounds encloses every member pixel.
	Bounds Bounds `json:"bounds"`

	// Pixels lists the members in flood-fill visiting order.
	Pixels []geometry.Point `json:"-"`
}

// Width returns the bounding box width.
func (c *ConnectedComponent) Width() int { return c.Bounds.Width() }

// Height returns the bounding box height.
func (c *ConnectedComponent) Height() int { return c.Bounds.Height() }

// BoundingBoxArea returns the bounding box area in square pixels.
func (c *ConnectedComponent) BoundingBoxArea() int { return c.Bounds.Area() }

// AspectRatio returns width / height of the bounding box.
func (c *ConnectedComponent) AspectRatio() float64 {
	return float64(c.Width()) / float64(c.Height())
}

// FillRatio returns the share of the bounding box covered by member pixels.
func (c *ConnectedComponent) FillRatio() float64 {
	area := c.BoundingBoxArea()
	if area <= 0 {
		return 0
	}
	return float64(c.PixelCount) / float64(area)
}

func (c *ConnectedComponent) add(p geometry.Point) {
	if c.PixelCount == 0 {
		c.Bounds = Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	} else {
		if p.X < c.Bounds.MinX {
			c.Bounds.MinX = p.X
		}
		if p.X > c.Bounds.MaxX {
			c.Bounds.MaxX = p.X
		}
		if p.Y < c.Bounds.MinY {
			c.Bounds.MinY = p.Y
		}
		if p.Y > c.Bounds.MaxY {
			c.Bounds.MaxY = p.Y
		}
	}
	c.PixelCount++
	c.Pixels = append(c.Pixels, p)
}

// neighborOffsets are the 8-connected (dx, dy) steps.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ComponentLabeler groups the edge pixels of a mask into 8-connected
// components.
//
// The visited flags and the breadth-first work queue are sized to width×height
// once and reused for every mask. Not safe for concurrent use.
type ComponentLabeler struct {
	width   int
	height  int
	visited []bool
	queue   *pixelQueue
}

// NewComponentLabeler creates a labeler for width×height masks.
func NewComponentLabeler(width, height int) (*ComponentLabeler, error) {
	if err := validateSize(width, height); err != nil {
		return nil, err
	}
	n := width * height
	return &ComponentLabeler{
		width:   width,
		height:  height,
		visited: make([]bool, n),
		queue:   newPixelQueue(n),
	}, nil
}

// Label finds every connected component of edge pixels in mask.
//
// Returns:
//   - []ConnectedComponent: Components in discovery order (raster order of
//     each seed pixel). Empty when the mask has no edge pixels.
//   - error: ErrConfigurationMismatch if the mask size differs from the
//     configured size.
//
// A nil or zero-size mask yields an empty list. Every edge pixel ends up in
// exactly one component. Labeling the same mask twice gives the same result.
func (l *ComponentLabeler) Label(mask *EdgeMask) ([]ConnectedComponent, error) {
	if mask == nil || mask.Width == 0 || mask.Height == 0 {
		return []ConnectedComponent{}, nil
	}
	if mask.Width != l.width || mask.Height != l.height || len(mask.Pix) != l.width*l.height {
		return nil, mismatchError("component labeler", l.width, l.height, mask.Width, mask.Height)
	}

	for i := range l.visited {
		l.visited[i] = false
	}

	components := make([]ConnectedComponent, 0)
	nextLabel := 1

	for idx, v := range mask.Pix {
		if v == 0 || l.visited[idx] {
			continue
		}

		comp := l.floodFill(mask, idx)
		if comp.PixelCount == 0 {
			continue
		}
		comp.Label = nextLabel
		nextLabel++
		components = append(components, comp)
	}

	return components, nil
}

// floodFill runs a breadth-first fill from seed and returns the component it
// covers. Label is left for the caller to assign.
func (l *ComponentLabeler) floodFill(mask *EdgeMask, seed int) ConnectedComponent {
	var comp ConnectedComponent
	w, h := l.width, l.height

	q := l.queue
	q.reset()
	l.visited[seed] = true
	q.push(seed)

	for !q.empty() {
		idx := q.pop()
		x, y := idx%w, idx/w
		comp.add(geometry.Point{X: x, Y: y})

		for _, off := range neighborOffsets {
			nx, ny := x+off[0], y+off[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			n := ny*w + nx
			if l.visited[n] || mask.Pix[n] == 0 {
				continue
			}
			l.visited[n] = true
			q.push(n)
		}
	}

	return comp
}
