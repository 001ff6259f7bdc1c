package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
)

// ImageResult is an image encoded as base64 PNG for transport over MCP.
type ImageResult struct {
	// Width of the encoded image in pixels.
	Width int `json:"width"`

	// Height of the encoded image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the PNG-encoded image data.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG result.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// EncodeMask encodes an edge mask: edges white, everything else black.
func EncodeMask(mask *detection.EdgeMask) (*ImageResult, error) {
	if mask == nil || len(mask.Pix) == 0 {
		return nil, fmt.Errorf("empty edge mask")
	}
	return EncodePNG(mask.Gray())
}

// MagnitudeImage renders gradient magnitudes as grayscale, scaled so the
// strongest response in the frame is 255. An all-zero gradient stays black.
func MagnitudeImage(grad *detection.GradientFrame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, grad.Width, grad.Height))

	var maxMag int32
	for _, m := range grad.Magnitude {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		return img
	}

	for i, m := range grad.Magnitude {
		img.Pix[i] = uint8(int64(m) * 255 / int64(maxMag))
	}
	return img
}

// EncodeMagnitude encodes the scaled gradient magnitude map.
func EncodeMagnitude(grad *detection.GradientFrame) (*ImageResult, error) {
	if grad == nil || len(grad.Magnitude) == 0 {
		return nil, fmt.Errorf("empty gradient frame")
	}
	return EncodePNG(MagnitudeImage(grad))
}
