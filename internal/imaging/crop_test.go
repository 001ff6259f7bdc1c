package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

func TestCrop(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name          string
		region        Region
		scale         float64
		width, height int
	}{
		{"plain", Region{10, 10, 50, 40}, 1.0, 40, 30},
		{"scale up", Region{0, 0, 20, 20}, 2.0, 40, 40},
		{"scale down", Region{0, 0, 100, 100}, 0.5, 50, 50},
		{"zero scale keeps size", Region{0, 0, 30, 10}, 0, 30, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cropped, err := Crop(img, tt.region, tt.scale)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if b := cropped.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region Region
	}{
		{"outside", Region{50, 50, 150, 150}},
		{"negative", Region{-10, 0, 10, 10}},
		{"inverted", Region{50, 50, 10, 10}},
		{"empty", Region{10, 10, 10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.region, 1.0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCandidateRegion(t *testing.T) {
	_, result := detectSquare(t)
	c := &result.Candidates[0]
	bounds := image.Rect(0, 0, 100, 100)

	if got, want := CandidateRegion(c, 5, bounds), (Region{24, 24, 76, 76}); got != want {
		t.Errorf("margin 5: got %+v, want %+v", got, want)
	}
	if got, want := CandidateRegion(c, 50, bounds), (Region{0, 0, 100, 100}); got != want {
		t.Errorf("margin 50: got %+v, want %+v", got, want)
	}
}

func TestCandidateRegion_NoQuad(t *testing.T) {
	_, result := detectSquare(t)
	c := result.Candidates[0]
	c.Quad = nil

	// Falls back to the component's bounding box, which matches the quad here.
	if got, want := CandidateRegion(&c, 0, image.Rect(0, 0, 100, 100)), (Region{29, 29, 71, 71}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCropCandidate(t *testing.T) {
	img, result := detectSquare(t)
	c := &result.Candidates[0]

	crop, err := CropCandidate(img, c, 5, 1.0)
	if err != nil {
		t.Fatalf("CropCandidate failed: %v", err)
	}
	if crop.Width != 52 || crop.Height != 52 {
		t.Errorf("size: got %dx%d, want 52x52", crop.Width, crop.Height)
	}

	want := []geometry.Point{{X: 5, Y: 5}, {X: 46, Y: 5}, {X: 46, Y: 46}, {X: 5, Y: 46}}
	if len(crop.Corners) != len(want) {
		t.Fatalf("corners: got %v, want %v", crop.Corners, want)
	}
	for i := range want {
		if crop.Corners[i] != want[i] {
			t.Errorf("corner %d: got %v, want %v", i, crop.Corners[i], want[i])
		}
	}

	decoded := decodeResult(t, &crop.ImageResult)
	if decoded.Bounds().Dx() != 52 {
		t.Errorf("decoded width: got %d, want 52", decoded.Bounds().Dx())
	}
}

func TestCropCandidate_Scaled(t *testing.T) {
	img, result := detectSquare(t)

	crop, err := CropCandidate(img, &result.Candidates[0], 5, 2.0)
	if err != nil {
		t.Fatalf("CropCandidate failed: %v", err)
	}
	if crop.Width != 104 || crop.Height != 104 {
		t.Errorf("size: got %dx%d, want 104x104", crop.Width, crop.Height)
	}
	if crop.Corners[0] != (geometry.Point{X: 10, Y: 10}) {
		t.Errorf("TL corner: got %v, want (10,10)", crop.Corners[0])
	}
}

func TestCropCandidate_NegativeMargin(t *testing.T) {
	img, result := detectSquare(t)

	crop, err := CropCandidate(img, &result.Candidates[0], -4, 1.0)
	if err != nil {
		t.Fatalf("CropCandidate failed: %v", err)
	}
	if crop.Region != (Region{29, 29, 71, 71}) {
		t.Errorf("region: got %+v", crop.Region)
	}
}
