// Package imaging adapts image files and in-memory images to the detection
// pipeline and renders its results back into images.
//
// The pipeline itself only understands 8-bit grayscale frames. This package
// covers everything around it:
//   - Loading and caching source images (ImageCache, LoadFrameInfo)
//   - Color to grayscale conversion with optional Gaussian pre-blur (ToGray)
//   - PNG encoding of edge masks and gradient magnitude maps
//   - Overlays of candidate boxes, hulls and quadrilaterals (RenderOverlay)
//   - Cropping candidate regions for a downstream decoder (CropCandidate)
//   - Shape measurements of fitted quadrilaterals (MeasureQuad)
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their inputs.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - Invalid hex colors
//   - Incomplete quadrilaterals passed to MeasureQuad
//   - File I/O and encoding errors
package imaging
