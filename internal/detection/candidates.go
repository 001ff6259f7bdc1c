package detection

// Default candidate selection thresholds.
const (
	DefaultMinPixelCount      = 100
	DefaultMaxBoxAreaFraction = 0.5
	DefaultMinFillRatio       = 0.05
)

// Thresholds controls which components are worth fitting a quadrilateral to.
type Thresholds struct {
	// MinPixelCount rejects small noise blobs.
	MinPixelCount int `json:"min_pixel_count" validate:"gte=1"`

	// MaxBoxAreaFraction rejects components whose bounding box covers more
	// than this share of the frame (background, lighting artifacts).
	MaxBoxAreaFraction float64 `json:"max_box_area_fraction" validate:"gt=0,lte=1"`

	// MinFillRatio rejects components too sparse for their bounding box.
	MinFillRatio float64 `json:"min_fill_ratio" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns the default selection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPixelCount:      DefaultMinPixelCount,
		MaxBoxAreaFraction: DefaultMaxBoxAreaFraction,
		MinFillRatio:       DefaultMinFillRatio,
	}
}

// Accepts reports whether a single component passes every threshold for a
// frame of frameArea pixels.
func (t Thresholds) Accepts(c *ConnectedComponent, frameArea int) bool {
	if c.PixelCount < t.MinPixelCount {
		return false
	}
	boxArea := c.BoundingBoxArea()
	if boxArea <= 0 || frameArea <= 0 {
		return false
	}
	if float64(boxArea)/float64(frameArea) > t.MaxBoxAreaFraction {
		return false
	}
	return c.FillRatio() >= t.MinFillRatio
}

// SelectCandidates returns the components that pass th, in input order.
// The input slice and its components are not modified.
func SelectCandidates(components []ConnectedComponent, frameArea int, th Thresholds) []ConnectedComponent {
	candidates := make([]ConnectedComponent, 0, len(components))
	for i := range components {
		if th.Accepts(&components[i], frameArea) {
			candidates = append(candidates, components[i])
		}
	}
	return candidates
}
