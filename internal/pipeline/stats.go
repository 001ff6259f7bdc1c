package pipeline

// RunStats accumulates counters across frames.
//
// The caller owns a RunStats and feeds it each FrameResult; the pipeline keeps
// no cross-frame state of its own.
type RunStats struct {
	Frames             int `json:"frames"`
	Components         int `json:"components"`
	Candidates         int `json:"candidates"`
	Quads              int `json:"quads"`
	MaxComponentPixels int `json:"max_component_pixels"`
}

// Observe adds one frame's counts. A nil result is ignored.
func (s *RunStats) Observe(r *FrameResult) {
	if r == nil {
		return
	}
	s.Frames++
	s.Components += len(r.Components)
	s.Candidates += len(r.Candidates)
	s.Quads += r.QuadCount()
	for i := range r.Components {
		if n := r.Components[i].PixelCount; n > s.MaxComponentPixels {
			s.MaxComponentPixels = n
		}
	}
}
