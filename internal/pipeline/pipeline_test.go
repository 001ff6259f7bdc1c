package pipeline

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

// createFrame builds a black frame with bright filled squares [lo, hi]².
func createFrame(width, height int, squares ...[2]int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for _, sq := range squares {
		for y := sq[0]; y <= sq[1]; y++ {
			for x := sq[0]; x <= sq[1]; x++ {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}

func newTestPipeline(t *testing.T, width, height int) *Pipeline {
	t.Helper()
	opts := DefaultOptions(width, height)
	opts.GradientThreshold = 100
	p, err := New(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"frame too small", func(o *Options) { o.Width = 2 }},
		{"zero threshold", func(o *Options) { o.GradientThreshold = 0 }},
		{"zero min pixels", func(o *Options) { o.Thresholds.MinPixelCount = 0 }},
		{"box fraction above one", func(o *Options) { o.Thresholds.MaxBoxAreaFraction = 1.5 }},
		{"negative fill", func(o *Options) { o.Thresholds.MinFillRatio = -0.1 }},
		{"zero epsilon", func(o *Options) { o.EpsilonFraction = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions(640, 480)
			tt.modify(&opts)
			if _, err := New(opts, zerolog.Nop()); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("got err %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestDefaultOptions_Valid(t *testing.T) {
	if err := DefaultOptions(640, 480).Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
}

func TestProcess_Square(t *testing.T) {
	p := newTestPipeline(t, 100, 100)

	result, err := p.Process(createFrame(100, 100, [2]int{30, 69}))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.ComponentCount() != 1 {
		t.Fatalf("components: got %d, want 1", result.ComponentCount())
	}
	comp := result.Components[0]
	if comp.PixelCount != 320 || comp.PixelCount != len(comp.Pixels) {
		t.Errorf("pixel count: got %d (%d listed), want 320", comp.PixelCount, len(comp.Pixels))
	}
	wantBounds := detection.Bounds{MinX: 29, MinY: 29, MaxX: 70, MaxY: 70}
	if comp.Bounds != wantBounds {
		t.Errorf("bounds: got %+v, want %+v", comp.Bounds, wantBounds)
	}
	if comp.FillRatio() >= 1.0 {
		t.Errorf("fill ratio: got %f, want < 1", comp.FillRatio())
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(result.Candidates))
	}
	c := result.Candidates[0]
	if len(c.Hull) != 4 {
		t.Fatalf("hull: got %v, want 4 vertices", c.Hull)
	}
	if !c.Found() || !c.Quad.Complete() {
		t.Fatalf("quad not found: %s", c.Reason)
	}

	want := [4]geometry.Point{{X: 29, Y: 29}, {X: 70, Y: 29}, {X: 70, Y: 70}, {X: 29, Y: 70}}
	for i, corner := range c.Quad.Corners() {
		if *corner != want[i] {
			t.Errorf("corner %d: got %v, want %v", i, *corner, want[i])
		}
	}
	if result.QuadCount() != 1 {
		t.Errorf("QuadCount: got %d, want 1", result.QuadCount())
	}
}

func TestProcess_ConfigurationMismatch(t *testing.T) {
	p := newTestPipeline(t, 640, 480)

	_, err := p.Process(image.NewGray(image.Rect(0, 0, 320, 240)))
	if !errors.Is(err, detection.ErrConfigurationMismatch) {
		t.Fatalf("got err %v, want ErrConfigurationMismatch", err)
	}

	// The pipeline keeps working with correctly sized frames.
	if _, err := p.Process(createFrame(640, 480, [2]int{100, 200})); err != nil {
		t.Errorf("Process after mismatch failed: %v", err)
	}
}

func TestProcess_EmptyFrame(t *testing.T) {
	p := newTestPipeline(t, 100, 100)

	// Fill the buffers first so a stale mask would show up.
	if _, err := p.Process(createFrame(100, 100, [2]int{30, 69})); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	for _, frame := range []*image.Gray{nil, image.NewGray(image.Rectangle{})} {
		result, err := p.Process(frame)
		if err != nil {
			t.Fatalf("Process(empty) failed: %v", err)
		}
		if result.ComponentCount() != 0 || len(result.Candidates) != 0 {
			t.Errorf("empty frame: got %d components, %d candidates", result.ComponentCount(), len(result.Candidates))
		}
	}
}

func TestProcess_RejectsFrameSizedBlob(t *testing.T) {
	p := newTestPipeline(t, 640, 480)

	img := image.NewGray(image.Rect(0, 0, 640, 480))
	for y := 20; y < 460; y++ {
		for x := 20; x < 620; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}

	result, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ComponentCount() != 1 {
		t.Fatalf("components: got %d, want 1", result.ComponentCount())
	}
	if len(result.Candidates) != 0 {
		t.Errorf("candidates: got %d, want 0", len(result.Candidates))
	}
}

func TestProcess_RejectsSmallNoise(t *testing.T) {
	p := newTestPipeline(t, 100, 100)

	result, err := p.Process(createFrame(100, 100, [2]int{50, 54}))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ComponentCount() != 1 || len(result.Candidates) != 0 {
		t.Errorf("got %d components, %d candidates; want 1, 0", result.ComponentCount(), len(result.Candidates))
	}
}

func TestProcess_DiskHasNoQuad(t *testing.T) {
	p := newTestPipeline(t, 200, 200)

	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			dx, dy := x-100, y-100
			if dx*dx+dy*dy <= 900 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}

	result, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("expected the disk outline as a candidate")
	}
	for _, c := range result.Candidates {
		if c.Found() {
			t.Errorf("label %d: unexpected quad %+v", c.Component.Label, c.Quad)
		}
		if c.Reason == "" {
			t.Errorf("label %d: missing reason", c.Component.Label)
		}
		if len(c.Hull) < 5 {
			t.Errorf("label %d: hull has %d vertices", c.Component.Label, len(c.Hull))
		}
	}
}

func TestFrameResult_LargestCandidate(t *testing.T) {
	p := newTestPipeline(t, 200, 200)

	result, err := p.Process(createFrame(200, 200, [2]int{20, 49}, [2]int{100, 179}))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("candidates: got %d, want 2", len(result.Candidates))
	}

	largest := result.LargestCandidate()
	if largest == nil {
		t.Fatal("LargestCandidate returned nil")
	}
	if largest.Component.PixelCount != 640 {
		t.Errorf("largest pixel count: got %d, want 640", largest.Component.PixelCount)
	}

	empty := &FrameResult{}
	if empty.LargestCandidate() != nil {
		t.Error("LargestCandidate on empty result: want nil")
	}
}

func TestRunStats_Observe(t *testing.T) {
	p := newTestPipeline(t, 200, 200)
	var stats RunStats

	for _, frame := range []*image.Gray{
		createFrame(200, 200, [2]int{20, 49}),
		createFrame(200, 200, [2]int{20, 49}, [2]int{100, 179}),
	} {
		result, err := p.Process(frame)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		stats.Observe(result)
	}
	stats.Observe(nil)

	if stats.Frames != 2 {
		t.Errorf("frames: got %d, want 2", stats.Frames)
	}
	if stats.Candidates != 3 || stats.Quads != 3 {
		t.Errorf("candidates/quads: got %d/%d, want 3/3", stats.Candidates, stats.Quads)
	}
	if stats.MaxComponentPixels != 640 {
		t.Errorf("max component pixels: got %d, want 640", stats.MaxComponentPixels)
	}
}

func TestProcess_LogsFrameSummary(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	opts := DefaultOptions(100, 100)
	p, err := New(opts, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := p.Process(createFrame(100, 100, [2]int{30, 69})); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"message":"frame processed"`, `"message":"candidate"`, `"component":"pipeline"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
