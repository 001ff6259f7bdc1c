package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createInMemoryImage creates an in-memory image filled with one color.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createSquareImage creates a black RGBA image with a white filled square [lo, hi]².
func createSquareImage(width, height, lo, hi int) *image.RGBA {
	img := createInMemoryImage(width, height, color.RGBA{0, 0, 0, 255})
	for y := lo; y <= hi; y++ {
		for x := lo; x <= hi; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

// writeTestImage encodes img as PNG into a temp file and returns its path.
func writeTestImage(t *testing.T, img image.Image, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// createTestImage writes a solid-color image and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, createInMemoryImage(width, height, c), "test-image-*.png")
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil || cache.grays == nil {
		t.Fatal("NewImageCache did not initialize its maps")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()

	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_LoadGray(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, createSquareImage(60, 40, 10, 20), "square-*.png")

	g1, err := cache.LoadGray(imgPath, 0)
	if err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}
	if g1.Rect != image.Rect(0, 0, 60, 40) {
		t.Errorf("bounds: got %v, want 60x40 at origin", g1.Rect)
	}

	g2, _ := cache.LoadGray(imgPath, 0)
	if g1 != g2 {
		t.Error("LoadGray did not return the cached frame")
	}

	blurred, err := cache.LoadGray(imgPath, 2)
	if err != nil {
		t.Fatalf("LoadGray with blur failed: %v", err)
	}
	if blurred == g1 {
		t.Error("blurred frame shares the cache entry of the sharp frame")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})

	if _, err := cache.LoadGray(imgPath, 0); err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}
	if _, err := cache.LoadGray(imgPath, 1.5); err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}

	cache.Evict(imgPath)

	cache.mu.RLock()
	nImages, nGrays := len(cache.images), len(cache.grays)
	cache.mu.RUnlock()
	if nImages != 0 || nGrays != 0 {
		t.Errorf("Evict left %d images and %d frames", nImages, nGrays)
	}

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()

	cache.mu.RLock()
	nImages = len(cache.images)
	cache.mu.RUnlock()
	if nImages != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", nImages)
	}

	// Should not panic
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.LoadGray(imgPath, 0); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent LoadGray error: %v", err)
	}
}

func TestLoadFrameInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadFrameInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadFrameInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("size: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Grayscale {
		t.Error("Grayscale: got true for a color image")
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadFrameInfo_Grayscale(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, image.NewGray(image.Rect(0, 0, 30, 20)), "gray-*.png")

	info, err := LoadFrameInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadFrameInfo failed: %v", err)
	}
	if !info.Grayscale {
		t.Error("Grayscale: got false for a gray PNG")
	}
}

func TestLoadFrameInfo_FormatDetection(t *testing.T) {
	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".JPEG", "jpeg"},
		{".gif", "gif"},
		{".tif", "tiff"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			cache := NewImageCache()
			// A valid PNG regardless of extension
			path := writeTestImage(t, image.NewRGBA(image.Rect(0, 0, 10, 10)), "test-format-*"+tt.ext)

			info, err := LoadFrameInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadFrameInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestLoadFrameInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := LoadFrameInfo(cache, "/nonexistent/image.png"); err == nil {
		t.Error("LoadFrameInfo should fail for non-existent file")
	}
}
