package detection

import "image"

// EdgeStatistics summarizes one frame's edge detection output.
type EdgeStatistics struct {
	EdgePixelCount int     `json:"edge_pixel_count"`
	EdgeFraction   float64 `json:"edge_fraction"`
	MaxMagnitude   int     `json:"max_magnitude"`
}

// ComputeEdgeStatistics counts edge pixels and finds the strongest gradient.
// Either argument may be nil.
func ComputeEdgeStatistics(mask *EdgeMask, gradient *GradientFrame) EdgeStatistics {
	var stats EdgeStatistics

	if mask != nil {
		for _, v := range mask.Pix {
			if v != 0 {
				stats.EdgePixelCount++
			}
		}
		if len(mask.Pix) > 0 {
			stats.EdgeFraction = float64(stats.EdgePixelCount) / float64(len(mask.Pix))
		}
	}

	if gradient != nil {
		var maxMag int32
		for _, m := range gradient.Magnitude {
			if m > maxMag {
				maxMag = m
			}
		}
		stats.MaxMagnitude = int(maxMag)
	}

	return stats
}

// GrayStatistics summarizes the intensity of a grayscale frame.
type GrayStatistics struct {
	Min  uint8   `json:"min"`
	Max  uint8   `json:"max"`
	Mean float64 `json:"mean"`
}

// ComputeGrayStatistics returns min, max and mean intensity. A nil or empty
// frame yields the zero value.
func ComputeGrayStatistics(frame *image.Gray) GrayStatistics {
	if frame == nil || frame.Rect.Empty() {
		return GrayStatistics{}
	}

	stats := GrayStatistics{Min: 255}
	var sum uint64
	w, h := frame.Rect.Dx(), frame.Rect.Dy()

	for y := 0; y < h; y++ {
		off := frame.PixOffset(frame.Rect.Min.X, frame.Rect.Min.Y+y)
		for _, v := range frame.Pix[off : off+w] {
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			sum += uint64(v)
		}
	}

	stats.Mean = float64(sum) / float64(w*h)
	return stats
}
