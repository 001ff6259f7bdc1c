package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

// frameProperties are the inputs shared by every tool that runs the
// detection pipeline. Omitted overrides fall back to the server config.
func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func frameProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":                  prop("string", "Absolute path to the image file"),
		"gradient_threshold":    prop("integer", "Minimum Sobel L1 magnitude for an edge pixel (1-2040)"),
		"min_pixel_count":       prop("integer", "Minimum edge pixels for a component to be a candidate"),
		"max_box_area_fraction": prop("number", "Maximum bounding box area as a fraction of the frame (0-1]"),
		"min_fill_ratio":        prop("number", "Minimum edge pixels per bounding box pixel [0-1]"),
		"epsilon_fraction":      prop("number", "Polygon simplification tolerance as a fraction of hull perimeter"),
		"blur_radius":           prop("number", "Gaussian blur radius applied before edge detection. 0 disables it"),
	}
}

func frameSchema(extra map[string]interface{}) map[string]interface{} {
	props := frameProperties()
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

const labelDescription = "Component label of the candidate. Defaults to the largest candidate"

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frame Information
		{
			Name:        "frame_load",
			Description: "Load an image file and return its dimensions, format and color layout. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": prop("string", "Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frame_statistics",
			Description: "Report grayscale intensity range, edge density and the strongest gradient for a frame, plus running totals for this session. Use it to pick a gradient threshold.",
			InputSchema: frameSchema(nil),
		},

		// Pipeline Stages
		{
			Name:        "frame_edge_detect",
			Description: "Run Sobel edge detection and return the binary edge mask or the scaled gradient magnitude as base64-encoded PNG.",
			InputSchema: frameSchema(map[string]interface{}{
				"output": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"mask", "magnitude"},
					"description": "Image to return",
					"default":     "mask",
				},
			}),
		},
		{
			Name:        "frame_components",
			Description: "List 8-connected edge components with pixel counts, bounding boxes and fill ratios, flagging the ones that pass the candidate filter.",
			InputSchema: frameSchema(map[string]interface{}{
				"limit": propDefault("integer", "Maximum number of components to list", 50),
			}),
		},
		{
			Name:        "frame_detect_quads",
			Description: "Find quadrilateral marker candidates. Returns each candidate's bounding box, convex hull and ordered corners (top-left, top-right, bottom-right, bottom-left) or the reason no quadrilateral was fitted.",
			InputSchema: frameSchema(nil),
		},

		// Rendering and Follow-up
		{
			Name:        "frame_overlay",
			Description: "Draw detected edges, candidate boxes, hulls and fitted quadrilaterals over the source image and return it as base64-encoded PNG.",
			InputSchema: frameSchema(map[string]interface{}{
				"show_edges":   propDefault("boolean", "Tint edge pixels", false),
				"show_boxes":   propDefault("boolean", "Outline candidate bounding boxes", true),
				"show_hulls":   propDefault("boolean", "Outline candidate convex hulls", true),
				"show_labels":  propDefault("boolean", "Print component labels", true),
				"only_largest": propDefault("boolean", "Draw only the largest candidate", false),
				"quad_color":   propDefault("string", "Hex color for fitted quadrilaterals", "#00ff00"),
			}),
		},
		{
			Name:        "frame_crop_candidate",
			Description: "Crop the region around one candidate and return it as base64-encoded PNG with the fitted corners translated into crop coordinates.",
			InputSchema: frameSchema(map[string]interface{}{
				"label":  prop("integer", labelDescription),
				"margin": propDefault("integer", "Pixels added around the bounding box", 8),
				"scale":  propDefault("number", "Scale factor for the crop (e.g., 2.0 for 2x zoom)", 1.0),
			}),
		},
		{
			Name:        "quad_measure",
			Description: "Measure a fitted quadrilateral: side lengths, diagonals, perimeter, area, aspect ratio and interior angles.",
			InputSchema: frameSchema(map[string]interface{}{
				"label": prop("integer", labelDescription),
			}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
