package pipeline

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

// DefaultGradientThreshold is the default Sobel L1 magnitude threshold.
const DefaultGradientThreshold = 80

// ErrInvalidOptions is returned by New when Options fail validation.
var ErrInvalidOptions = errors.New("invalid pipeline options")

var validate = validator.New()

// Options configures a Pipeline. All values are fixed at construction.
//
// Options is comparable and can be used as a map key.
type Options struct {
	// Width and Height are the frame size in pixels. A 3x3 kernel needs at
	// least three of each.
	Width  int `json:"width" validate:"gte=3"`
	Height int `json:"height" validate:"gte=3"`

	// GradientThreshold is the minimum |Gx|+|Gy| for an edge pixel.
	GradientThreshold int `json:"gradient_threshold" validate:"gte=1,lte=2040"`

	// Thresholds drives candidate selection.
	Thresholds detection.Thresholds `json:"thresholds"`

	// EpsilonFraction is the Douglas-Peucker tolerance as a share of the hull
	// perimeter.
	EpsilonFraction float64 `json:"epsilon_fraction" validate:"gt=0,lt=1"`
}

// DefaultOptions returns the default configuration for a width×height frame.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:             width,
		Height:            height,
		GradientThreshold: DefaultGradientThreshold,
		Thresholds:        detection.DefaultThresholds(),
		EpsilonFraction:   geometry.DefaultEpsilonFraction,
	}
}

// Validate checks every field against its allowed range.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// FrameArea returns Width × Height.
func (o Options) FrameArea() int {
	return o.Width * o.Height
}
