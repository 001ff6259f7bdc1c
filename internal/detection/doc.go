// Package detection turns grayscale frames into candidate marker regions.
//
// This package implements the pixel-level half of the quadrilateral finder:
// gradient edge detection, connected-component labeling of the edge map, and
// the heuristic filter that picks components worth fitting. The geometric half
// (convex hull, polygon simplification, corner ordering) lives in package
// geometry.
//
// # Pipeline
//
//  1. EdgeDetector: 3x3 Sobel kernels, L1 magnitude |Gx|+|Gy|, fixed threshold
//  2. ComponentLabeler: raster scan + breadth-first flood fill, 8-connectivity
//  3. SelectCandidates: pixel count, bounding box share of frame, fill ratio
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Component bounds are inclusive on both ends
//
// # Memory
//
// EdgeDetector and ComponentLabeler allocate every width×height buffer once,
// at construction, and reuse them for each frame. The masks and gradient maps
// they return are views of those buffers: they stay valid until the next call
// on the same instance and must not be modified by the caller.
//
// # Thread Safety
//
// Detectors and labelers are not safe for concurrent use. Give each worker its
// own instance. SelectCandidates and the statistics helpers are pure functions.
//
// # Error Handling
//
// A frame or mask whose size differs from the configured size fails with
// ErrConfigurationMismatch before any buffer is touched. A nil or zero-size
// input is not an error.
package detection
