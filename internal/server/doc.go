// Package server implements the MCP (Model Context Protocol) server for the
// quadrilateral finder.
//
// This package provides a JSON-RPC 2.0 server that exposes the detection
// pipeline through the MCP protocol, so an MCP client can locate marker
// candidates in an image and inspect each stage of the work.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frame Information:
//   - frame_load: Load image and get metadata
//   - frame_statistics: Intensity range, edge density, session totals
//
// Pipeline Stages:
//   - frame_edge_detect: Sobel edge mask or gradient magnitude
//   - frame_components: Connected edge components
//   - frame_detect_quads: Candidates with hulls and ordered corners
//
// Rendering and Follow-up:
//   - frame_overlay: Detection results drawn over the image
//   - frame_crop_candidate: Zoom into one candidate
//   - quad_measure: Side lengths, area and angles of a fitted quad
//
// Every pipeline tool accepts the same optional overrides (gradient_threshold,
// min_pixel_count, max_box_area_fraction, min_fill_ratio, epsilon_fraction,
// blur_radius). Omitted values come from the server's config.Config.
//
// # Pipelines and Caching
//
// Decoded images and their grayscale conversions are cached by path. The few
// most recently used pipeline.Pipeline instances are kept, keyed by options
// and frame size, so repeated calls on the same image reuse every working
// buffer. Calls are serialized because those buffers are shared.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses with:
//   - code: -32602 (bad arguments), -32000 (tool execution failure), or
//     another standard JSON-RPC code
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, log)
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
