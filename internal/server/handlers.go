package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
	"github.com/ironsheep/quad-finder-mcp/internal/imaging"
	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "frame_load", "frame_detect_quads").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArgs marks tool failures caused by bad arguments rather than by
// the tool itself.
var errInvalidArgs = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602; other tool errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Frame information
	case "frame_load":
		return s.handleFrameLoad(args)
	case "frame_statistics":
		return s.handleFrameStatistics(args)

	// Pipeline stages
	case "frame_edge_detect":
		return s.handleFrameEdgeDetect(args)
	case "frame_components":
		return s.handleFrameComponents(args)
	case "frame_detect_quads":
		return s.handleFrameDetectQuads(args)

	// Rendering and follow-up
	case "frame_overlay":
		return s.handleFrameOverlay(args)
	case "frame_crop_candidate":
		return s.handleFrameCropCandidate(args)
	case "quad_measure":
		return s.handleQuadMeasure(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Shared frame processing ===

// frameArgs are accepted by every tool that runs the pipeline. Nil fields
// keep the configured defaults.
type frameArgs struct {
	Path               string   `json:"path"`
	GradientThreshold  *int     `json:"gradient_threshold"`
	MinPixelCount      *int     `json:"min_pixel_count"`
	MaxBoxAreaFraction *float64 `json:"max_box_area_fraction"`
	MinFillRatio       *float64 `json:"min_fill_ratio"`
	EpsilonFraction    *float64 `json:"epsilon_fraction"`
	BlurRadius         *float64 `json:"blur_radius"`
}

func (a *frameArgs) options(s *Server, width, height int) pipeline.Options {
	opts := s.cfg.PipelineOptions(width, height)
	if a.GradientThreshold != nil {
		opts.GradientThreshold = *a.GradientThreshold
	}
	if a.MinPixelCount != nil {
		opts.Thresholds.MinPixelCount = *a.MinPixelCount
	}
	if a.MaxBoxAreaFraction != nil {
		opts.Thresholds.MaxBoxAreaFraction = *a.MaxBoxAreaFraction
	}
	if a.MinFillRatio != nil {
		opts.Thresholds.MinFillRatio = *a.MinFillRatio
	}
	if a.EpsilonFraction != nil {
		opts.EpsilonFraction = *a.EpsilonFraction
	}
	return opts
}

func (a *frameArgs) blurRadius(s *Server) float64 {
	if a.BlurRadius != nil {
		return *a.BlurRadius
	}
	return s.cfg.BlurRadius
}

// frameFunc consumes one processed frame. It runs while the server lock is
// held, so result.Mask and result.Gradient are valid for its whole duration.
type frameFunc func(src image.Image, gray *image.Gray, result *pipeline.FrameResult) (interface{}, error)

// withFrame loads a.Path, runs it through the pipeline for its size and
// options, and hands the outcome to fn.
func (s *Server) withFrame(a *frameArgs, fn frameFunc) (interface{}, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	if r := a.blurRadius(s); r < 0 {
		return nil, fmt.Errorf("%w: blur_radius must be >= 0", errInvalidArgs)
	}

	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	gray, err := s.cache.LoadGray(a.Path, a.blurRadius(s))
	if err != nil {
		return nil, err
	}

	opts := a.options(s, gray.Rect.Dx(), gray.Rect.Dy())

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pipelineFor(opts)
	if err != nil {
		return nil, err
	}

	result, err := p.Process(gray)
	if err != nil {
		return nil, err
	}
	s.stats.Observe(result)

	s.log.Debug().
		Str("path", a.Path).
		Int("components", result.ComponentCount()).
		Int("candidates", len(result.Candidates)).
		Int("quads", result.QuadCount()).
		Msg("frame processed")

	return fn(src, gray, result)
}

// pipelineFor returns the cached pipeline for opts, creating it on first use
// and dropping the least recently used one when the cache is full.
// Callers must hold s.mu.
func (s *Server) pipelineFor(opts pipeline.Options) (*pipeline.Pipeline, error) {
	if p, ok := s.pipelines.Get(opts); ok {
		return p, nil
	}

	p, err := pipeline.New(opts, s.log)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidOptions) {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		return nil, err
	}
	evicted := s.pipelines.Add(opts, p)
	s.log.Info().Int("width", opts.Width).Int("height", opts.Height).
		Int("threshold", opts.GradientThreshold).Int("evicted", evicted).
		Msg("pipeline created")
	return p, nil
}

// findCandidate returns the candidate with the given label, or the largest
// candidate when label is nil.
func findCandidate(result *pipeline.FrameResult, label *int) (*pipeline.Candidate, error) {
	if label == nil {
		if c := result.LargestCandidate(); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("no candidates found in frame")
	}
	for i := range result.Candidates {
		if result.Candidates[i].Component.Label == *label {
			return &result.Candidates[i], nil
		}
	}
	return nil, fmt.Errorf("no candidate with label %d", *label)
}

// === Frame Information Handlers ===

type frameLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameLoad(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

type frameStatisticsResult struct {
	Width   int                      `json:"width"`
	Height  int                      `json:"height"`
	Gray    detection.GrayStatistics `json:"gray"`
	Edges   detection.EdgeStatistics `json:"edges"`
	Options pipeline.Options         `json:"options"`
	Session pipeline.RunStats        `json:"session"`
}

func (s *Server) handleFrameStatistics(args json.RawMessage) (interface{}, error) {
	var a frameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withFrame(&a, func(_ image.Image, gray *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		return &frameStatisticsResult{
			Width:   r.Width,
			Height:  r.Height,
			Gray:    detection.ComputeGrayStatistics(gray),
			Edges:   r.EdgeStats,
			Options: a.options(s, r.Width, r.Height),
			Session: s.stats,
		}, nil
	})
}

// === Pipeline Stage Handlers ===

type frameEdgeDetectArgs struct {
	frameArgs
	// Output selects "mask" (default) or "magnitude".
	Output string `json:"output"`
}

type frameEdgeDetectResult struct {
	*imaging.ImageResult
	Output string                   `json:"output"`
	Edges  detection.EdgeStatistics `json:"edges"`
}

func (s *Server) handleFrameEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a frameEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		a.Output = "mask"
	}
	if a.Output != "mask" && a.Output != "magnitude" {
		return nil, fmt.Errorf("%w: output must be \"mask\" or \"magnitude\", got %q", errInvalidArgs, a.Output)
	}

	return s.withFrame(&a.frameArgs, func(_ image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		var (
			img *imaging.ImageResult
			err error
		)
		if a.Output == "magnitude" {
			img, err = imaging.EncodeMagnitude(r.Gradient)
		} else {
			img, err = imaging.EncodeMask(r.Mask)
		}
		if err != nil {
			return nil, err
		}
		return &frameEdgeDetectResult{ImageResult: img, Output: a.Output, Edges: r.EdgeStats}, nil
	})
}

type frameComponentsArgs struct {
	frameArgs
	// Limit caps the number of listed components. Default 50.
	Limit int `json:"limit"`
}

type componentSummary struct {
	Label           int              `json:"label"`
	PixelCount      int              `json:"pixel_count"`
	Bounds          detection.Bounds `json:"bounds"`
	BoxAreaFraction float64          `json:"box_area_fraction"`
	FillRatio       float64          `json:"fill_ratio"`
	AspectRatio     float64          `json:"aspect_ratio"`
	Candidate       bool             `json:"candidate"`
}

type frameComponentsResult struct {
	Total      int                `json:"total"`
	Candidates int                `json:"candidates"`
	Truncated  bool               `json:"truncated"`
	Components []componentSummary `json:"components"`
}

func (s *Server) handleFrameComponents(args json.RawMessage) (interface{}, error) {
	var a frameComponentsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = 50
	}

	return s.withFrame(&a.frameArgs, func(_ image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		selected := make(map[int]bool, len(r.Candidates))
		for _, c := range r.Candidates {
			selected[c.Component.Label] = true
		}

		frameArea := float64(r.Width * r.Height)
		out := &frameComponentsResult{
			Total:      len(r.Components),
			Candidates: len(r.Candidates),
			Components: make([]componentSummary, 0, min(a.Limit, len(r.Components))),
		}
		for i := range r.Components {
			if len(out.Components) == a.Limit {
				out.Truncated = true
				break
			}
			c := &r.Components[i]
			out.Components = append(out.Components, componentSummary{
				Label:           c.Label,
				PixelCount:      c.PixelCount,
				Bounds:          c.Bounds,
				BoxAreaFraction: float64(c.BoundingBoxArea()) / frameArea,
				FillRatio:       c.FillRatio(),
				AspectRatio:     c.AspectRatio(),
				Candidate:       selected[c.Label],
			})
		}
		return out, nil
	})
}

type frameDetectQuadsResult struct {
	Width          int                      `json:"width"`
	Height         int                      `json:"height"`
	Edges          detection.EdgeStatistics `json:"edges"`
	ComponentCount int                      `json:"component_count"`
	QuadCount      int                      `json:"quad_count"`
	LargestLabel   int                      `json:"largest_label,omitempty"`
	Candidates     []pipeline.Candidate     `json:"candidates"`
	Session        pipeline.RunStats        `json:"session"`
}

func (s *Server) handleFrameDetectQuads(args json.RawMessage) (interface{}, error) {
	var a frameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	return s.withFrame(&a, func(_ image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		out := &frameDetectQuadsResult{
			Width:          r.Width,
			Height:         r.Height,
			Edges:          r.EdgeStats,
			ComponentCount: r.ComponentCount(),
			QuadCount:      r.QuadCount(),
			Candidates:     r.Candidates,
			Session:        s.stats,
		}
		if c := r.LargestCandidate(); c != nil {
			out.LargestLabel = c.Component.Label
		}
		return out, nil
	})
}

// === Rendering and Follow-up Handlers ===

type frameOverlayArgs struct {
	frameArgs
	ShowEdges   *bool  `json:"show_edges"`
	ShowBoxes   *bool  `json:"show_boxes"`
	ShowHulls   *bool  `json:"show_hulls"`
	ShowLabels  *bool  `json:"show_labels"`
	OnlyLargest bool   `json:"only_largest"`
	QuadColor   string `json:"quad_color"`
}

func (a *frameOverlayArgs) overlayOptions() imaging.OverlayOptions {
	opts := imaging.DefaultOverlayOptions()
	if a.ShowEdges != nil {
		opts.ShowEdges = *a.ShowEdges
	}
	if a.ShowBoxes != nil {
		opts.ShowBoxes = *a.ShowBoxes
	}
	if a.ShowHulls != nil {
		opts.ShowHulls = *a.ShowHulls
	}
	if a.ShowLabels != nil {
		opts.ShowLabels = *a.ShowLabels
	}
	opts.OnlyLargest = a.OnlyLargest
	if a.QuadColor != "" {
		opts.QuadColor = a.QuadColor
	}
	return opts
}

type frameOverlayResult struct {
	*imaging.ImageResult
	Candidates int `json:"candidates"`
	Quads      int `json:"quads"`
}

func (s *Server) handleFrameOverlay(args json.RawMessage) (interface{}, error) {
	var a frameOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	return s.withFrame(&a.frameArgs, func(src image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		canvas, err := imaging.RenderOverlay(src, r, a.overlayOptions())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		img, err := imaging.EncodePNG(canvas)
		if err != nil {
			return nil, err
		}
		return &frameOverlayResult{ImageResult: img, Candidates: len(r.Candidates), Quads: r.QuadCount()}, nil
	})
}

type candidateArgs struct {
	frameArgs
	// Label picks a candidate. Nil selects the largest.
	Label *int `json:"label"`
}

type frameCropCandidateArgs struct {
	candidateArgs
	Margin *int    `json:"margin"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleFrameCropCandidate(args json.RawMessage) (interface{}, error) {
	var a frameCropCandidateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	margin := 8
	if a.Margin != nil {
		margin = *a.Margin
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	return s.withFrame(&a.frameArgs, func(src image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		c, err := findCandidate(r, a.Label)
		if err != nil {
			return nil, err
		}
		return imaging.CropCandidate(src, c, margin, a.Scale)
	})
}

type quadMeasureResult struct {
	Label       int                      `json:"label"`
	Complete    bool                     `json:"complete"`
	Measurement *imaging.QuadMeasurement `json:"measurement"`
}

func (s *Server) handleQuadMeasure(args json.RawMessage) (interface{}, error) {
	var a candidateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	return s.withFrame(&a.frameArgs, func(_ image.Image, _ *image.Gray, r *pipeline.FrameResult) (interface{}, error) {
		c, err := findCandidate(r, a.Label)
		if err != nil {
			return nil, err
		}
		if c.Quad == nil {
			return nil, fmt.Errorf("candidate %d has no quadrilateral: %s", c.Component.Label, c.Reason)
		}
		m, err := imaging.MeasureQuad(c.Quad)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", c.Component.Label, err)
		}
		return &quadMeasureResult{Label: c.Component.Label, Complete: true, Measurement: m}, nil
	})
}
