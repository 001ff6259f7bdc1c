package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded source images and of the
// grayscale frames derived from them.
//
// Source images are keyed by path. Grayscale frames are keyed by path and blur
// radius, so switching the pre-blur setting never returns a stale frame.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	grays  map[grayKey]*image.Gray
}

type grayKey struct {
	path string
	blur float64
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		grays:  make(map[grayKey]*image.Gray),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Parameters:
//   - path: File path to the image. PNG, JPEG, GIF, BMP and TIFF are supported.
//
// JPEG files carrying an EXIF orientation tag are rotated upright while
// decoding, so frame coordinates match what a viewer shows.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadGray returns the grayscale frame for path, converting and caching it on
// first use. blurRadius > 0 applies a Gaussian blur before conversion.
func (c *ImageCache) LoadGray(path string, blurRadius float64) (*image.Gray, error) {
	key := grayKey{path: path, blur: blurRadius}

	c.mu.RLock()
	if g, ok := c.grays[key]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	g := ToGray(img, blurRadius)

	c.mu.Lock()
	c.grays[key] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes every cached image and frame.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.grays = make(map[grayKey]*image.Gray)
	c.mu.Unlock()
}

// Evict removes one path, including all of its grayscale variants.
// Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	for k := range c.grays {
		if k.path == path {
			delete(c.grays, k)
		}
	}
	c.mu.Unlock()
}

// FrameInfo describes a loaded image as a detection frame.
type FrameInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format comes from the file extension: "png", "jpeg", "gif", "bmp",
	// "tiff" or "unknown".
	Format string `json:"format"`

	// Grayscale is true when the decoded image is already single-channel.
	Grayscale bool `json:"grayscale"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadFrameInfo loads an image through cache and reports its metadata.
func LoadFrameInfo(cache *ImageCache, path string) (*FrameInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &FrameInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		info.Grayscale = true
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
	}

	return info, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}
