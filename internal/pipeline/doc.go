// Package pipeline runs the full per-frame quadrilateral search.
//
// A Pipeline owns one EdgeDetector and one ComponentLabeler sized for a fixed
// frame resolution and drives them through:
//
//	grayscale frame
//	  → edge mask + gradient (detection.EdgeDetector)
//	  → connected components (detection.ComponentLabeler)
//	  → candidates (detection.SelectCandidates)
//	  → convex hull per candidate (geometry.ConvexHull)
//	  → ordered quadrilateral per candidate (geometry.QuadFitter)
//
// A candidate whose hull cannot be reduced to four corners keeps its hull and
// records the reason; the frame carries on with the next candidate.
//
// # Thread Safety
//
// Process reuses the detector and labeler buffers, so a Pipeline must not be
// shared between goroutines without external locking. FrameResult.Mask and
// FrameResult.Gradient are only valid until the next Process call.
package pipeline
