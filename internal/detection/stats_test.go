package detection

import (
	"image"
	"testing"
)

func TestComputeEdgeStatistics(t *testing.T) {
	d, _ := NewEdgeDetector(100, 100, 100)
	mask, grad, _ := d.Detect(createFilledSquareFrame(100, 100, 30, 69))

	stats := ComputeEdgeStatistics(mask, grad)

	if stats.EdgePixelCount != 320 {
		t.Errorf("edge pixels: got %d, want 320", stats.EdgePixelCount)
	}
	if stats.EdgeFraction != 0.032 {
		t.Errorf("edge fraction: got %f, want 0.032", stats.EdgeFraction)
	}
	// Pixels just inside a corner respond on both axes: 765 + 765.
	if stats.MaxMagnitude != 1530 {
		t.Errorf("max magnitude: got %d, want 1530", stats.MaxMagnitude)
	}
}

func TestComputeEdgeStatistics_Nil(t *testing.T) {
	if stats := ComputeEdgeStatistics(nil, nil); stats != (EdgeStatistics{}) {
		t.Errorf("got %+v, want zero value", stats)
	}
}

func TestComputeGrayStatistics(t *testing.T) {
	frame := createGrayFrame(4, 2, func(x, y int) uint8 {
		return uint8(10 * (y*4 + x))
	})

	stats := ComputeGrayStatistics(frame)

	if stats.Min != 0 || stats.Max != 70 {
		t.Errorf("range: got [%d, %d], want [0, 70]", stats.Min, stats.Max)
	}
	if stats.Mean != 35 {
		t.Errorf("mean: got %f, want 35", stats.Mean)
	}
}

func TestComputeGrayStatistics_Empty(t *testing.T) {
	if stats := ComputeGrayStatistics(nil); stats != (GrayStatistics{}) {
		t.Errorf("nil: got %+v", stats)
	}
	if stats := ComputeGrayStatistics(image.NewGray(image.Rect(0, 0, 0, 0))); stats != (GrayStatistics{}) {
		t.Errorf("empty: got %+v", stats)
	}
}
