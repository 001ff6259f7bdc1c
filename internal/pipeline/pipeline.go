package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
)

// Candidate is one selected component with its fitted geometry.
type Candidate struct {
	// Component is the selected connected component.
	Component detection.ConnectedComponent `json:"component"`

	// BoxAreaFraction is the component's bounding box area over the frame area.
	BoxAreaFraction float64 `json:"box_area_fraction"`

	// FillRatio is the component's pixel count over its bounding box area.
	FillRatio float64 `json:"fill_ratio"`

	// Hull is the convex hull of the component's pixels.
	Hull []geometry.Point `json:"hull"`

	// Quad is the fitted quadrilateral, or nil when fitting failed.
	Quad *geometry.Quadrilateral `json:"quad,omitempty"`

	// Reason explains a nil Quad. Empty on success.
	Reason string `json:"reason,omitempty"`
}

// Found reports whether a quadrilateral was fitted.
func (c *Candidate) Found() bool {
	return c.Quad != nil
}

// FrameResult is everything Process learned about one frame.
type FrameResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Mask and Gradient alias the pipeline's buffers.
	Mask     *detection.EdgeMask      `json:"-"`
	Gradient *detection.GradientFrame `json:"-"`

	EdgeStats  detection.EdgeStatistics       `json:"edge_stats"`
	Components []detection.ConnectedComponent `json:"-"`
	Candidates []Candidate                    `json:"candidates"`
}

// ComponentCount returns the number of labeled components.
func (r *FrameResult) ComponentCount() int {
	return len(r.Components)
}

// QuadCount returns how many candidates produced a quadrilateral.
func (r *FrameResult) QuadCount() int {
	n := 0
	for i := range r.Candidates {
		if r.Candidates[i].Found() {
			n++
		}
	}
	return n
}

// LargestCandidate returns the candidate with the most pixels, or nil when
// the frame has none. Ties go to the earlier candidate.
func (r *FrameResult) LargestCandidate() *Candidate {
	var best *Candidate
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if best == nil || c.Component.PixelCount > best.Component.PixelCount {
			best = c
		}
	}
	return best
}

// Pipeline processes frames of one fixed size.
type Pipeline struct {
	opts     Options
	detector *detection.EdgeDetector
	labeler  *detection.ComponentLabeler
	fitter   geometry.QuadFitter
	log      zerolog.Logger
}

// New validates opts and allocates every per-frame buffer.
//
// Parameters:
//   - opts: Frame size and thresholds. See Options.
//   - log: Receives per-frame and per-candidate debug events. Pass
//     zerolog.Nop() to silence it.
func New(opts Options, log zerolog.Logger) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	detector, err := detection.NewEdgeDetector(opts.Width, opts.Height, opts.GradientThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create edge detector: %w", err)
	}

	labeler, err := detection.NewComponentLabeler(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create component labeler: %w", err)
	}

	return &Pipeline{
		opts:     opts,
		detector: detector,
		labeler:  labeler,
		fitter:   geometry.QuadFitter{EpsilonFraction: opts.EpsilonFraction},
		log:      log.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Options returns the configuration the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Process runs one frame through every stage.
//
// Returns:
//   - *FrameResult: Per-stage output. A nil or empty frame yields an empty
//     result with no error.
//   - error: Wraps detection.ErrConfigurationMismatch when the frame size
//     differs from Options. Fitting failures are never returned here; they
//     are recorded on the candidate.
func (p *Pipeline) Process(frame *image.Gray) (*FrameResult, error) {
	result := &FrameResult{
		Width:      p.opts.Width,
		Height:     p.opts.Height,
		Components: []detection.ConnectedComponent{},
		Candidates: []Candidate{},
	}

	if frame == nil || frame.Rect.Empty() {
		p.log.Debug().Msg("empty frame skipped")
		return result, nil
	}

	mask, gradient, err := p.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("edge detection failed: %w", err)
	}
	result.Mask = mask
	result.Gradient = gradient
	result.EdgeStats = detection.ComputeEdgeStatistics(mask, gradient)

	components, err := p.labeler.Label(mask)
	if err != nil {
		return nil, fmt.Errorf("component labeling failed: %w", err)
	}
	result.Components = components

	frameArea := p.opts.FrameArea()
	selected := detection.SelectCandidates(components, frameArea, p.opts.Thresholds)

	for _, comp := range selected {
		result.Candidates = append(result.Candidates, p.fitCandidate(comp, frameArea))
	}

	p.log.Debug().
		Int("edge_pixels", result.EdgeStats.EdgePixelCount).
		Int("max_magnitude", result.EdgeStats.MaxMagnitude).
		Int("components", len(components)).
		Int("candidates", len(result.Candidates)).
		Int("quads", result.QuadCount()).
		Msg("frame processed")

	return result, nil
}

func (p *Pipeline) fitCandidate(comp detection.ConnectedComponent, frameArea int) Candidate {
	c := Candidate{
		Component:       comp,
		BoxAreaFraction: float64(comp.BoundingBoxArea()) / float64(frameArea),
		FillRatio:       comp.FillRatio(),
		Hull:            geometry.ConvexHull(comp.Pixels),
	}

	quad, err := p.fitter.Fit(c.Hull)
	switch {
	case err == nil:
		c.Quad = quad
		if !quad.Complete() {
			c.Reason = "corner quadrant collision"
		}
	case errors.Is(err, geometry.ErrNotQuadrilateral):
		c.Reason = err.Error()
	default:
		c.Reason = fmt.Sprintf("fit failed: %v", err)
	}

	p.log.Debug().
		Int("label", comp.Label).
		Int("pixels", comp.PixelCount).
		Int("box_area", comp.BoundingBoxArea()).
		Float64("box_fraction", c.BoxAreaFraction).
		Float64("fill_ratio", c.FillRatio).
		Int("hull_size", len(c.Hull)).
		Bool("quad", c.Quad != nil).
		Str("reason", c.Reason).
		Msg("candidate")

	return c
}
