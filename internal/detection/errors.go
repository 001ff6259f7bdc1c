package detection

import (
	"errors"
	"fmt"
)

// ErrConfigurationMismatch reports an input whose dimensions or channel layout
// differ from what a detector or labeler was constructed for. The input is
// rejected and no internal state changes; later calls with a correctly sized
// input still work.
var ErrConfigurationMismatch = errors.New("configuration mismatch")

func mismatchError(stage string, wantW, wantH, gotW, gotH int) error {
	return fmt.Errorf("%w: %s expected %dx%d but received %dx%d",
		ErrConfigurationMismatch, stage, wantW, wantH, gotW, gotH)
}

func validateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	return nil
}
