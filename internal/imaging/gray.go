package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// ToGray converts img into a grayscale frame anchored at (0, 0).
//
// blurRadius > 0 runs a Gaussian blur first, which suppresses sensor noise
// that would otherwise fragment edge components. An *image.Gray input without
// blur is copied as is.
func ToGray(img image.Image, blurRadius float64) *image.Gray {
	if g, ok := img.(*image.Gray); ok && blurRadius <= 0 {
		return copyGray(g)
	}

	src := img
	if blurRadius > 0 {
		src = blur.Gaussian(img, blurRadius)
	}

	return packGray(effect.Grayscale(src))
}

// packGray keeps one channel of a bild grayscale result, whose R, G and B are
// equal, as a single-channel frame anchored at (0, 0).
func packGray(src *image.RGBA) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range row {
			row[x] = src.Pix[off+4*x]
		}
	}
	return dst
}

func copyGray(src *image.Gray) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[off:off+w])
	}
	return dst
}
