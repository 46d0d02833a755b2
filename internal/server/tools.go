package server

import "github.com/ironsheep/image-mi-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func channelProperty() map[string]interface{} {
	names := make([]string, len(imaging.Channels))
	for i, c := range imaging.Channels {
		names[i] = string(c)
	}
	return map[string]interface{}{
		"type":        "string",
		"enum":        names,
		"description": "Intensity to compare: gray (luma), red, green, blue, alpha, lightness (CIE L*), gradient (Sobel magnitude), or binary (thresholded). Default from server config, normally gray",
	}
}

func bitDepthProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     16,
		"description": "Quantization bit depth; intensities are binned into 2^bit_depth levels. Default 8. Ignored for the binary channel",
	}
}

// regionProperty describes either explicit coordinates or a named region.
func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
			"name": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
				"description": "Named region; overrides coordinates when set",
			},
		},
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and bit depth.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Information Measures
		{
			Name:        "image_mutual_information",
			Description: "Compute the mutual information in bits between two equally sized images (or regions) from their joint intensity histogram. Also reports entropies, normalized mutual information and Pearson correlation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a":    pathProperty("Absolute path to the first image"),
					"path_b":    pathProperty("Absolute path to the second image"),
					"channel":   channelProperty(),
					"bit_depth": bitDepthProperty(),
					"source_bit_depth": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     32,
						"description": "Significant bits of the stored samples when fewer than the container holds (e.g. 12 for 12-bit data in a 16-bit PNG). Default: the native depth",
					},
					"region_a": regionProperty("Optional region of the first image"),
					"region_b": regionProperty("Optional region of the second image; must match region_a in size"),
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "image_entropy",
			Description: "Compute the Shannon entropy in bits of an image channel, binned the same way as image_mutual_information.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the image file"),
					"channel":   channelProperty(),
					"bit_depth": bitDepthProperty(),
					"region":    regionProperty("Optional region to analyze. If omitted, analyzes entire image."),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_histogram",
			Description: "Return the normalized intensity histogram (marginal distribution) of an image channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the image file"),
					"channel":   channelProperty(),
					"bit_depth": bitDepthProperty(),
					"region":    regionProperty("Optional region to analyze. If omitted, analyzes entire image."),
					"include_zero": map[string]interface{}{
						"type":        "boolean",
						"description": "Include empty bins in the output",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_joint_histogram",
			Description: "Return the most probable cells of the joint intensity histogram of two equally sized images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a":    pathProperty("Absolute path to the first image"),
					"path_b":    pathProperty("Absolute path to the second image"),
					"channel":   channelProperty(),
					"bit_depth": bitDepthProperty(),
					"max_cells": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of cells to return (default 50)",
						"default":     defaultMaxCells,
					},
				},
				"required": []string{"path_a", "path_b"},
			},
		},

		// Analysis Helpers
		{
			Name:        "image_compare_regions",
			Description: "Compute the mutual information between two equally sized regions of one image (useful for detecting repeated or related structure).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the image file"),
					"region1":   regionProperty("First region"),
					"region2":   regionProperty("Second region"),
					"channel":   channelProperty(),
					"bit_depth": bitDepthProperty(),
				},
				"required": []string{"path", "region1", "region2"},
			},
		},
		{
			Name:        "image_intensity_stats",
			Description: "Summarize an image channel: min, max, mean, median, standard deviation and number of distinct values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the image file"),
					"channel": channelProperty(),
					"region":  regionProperty("Optional region to analyze. If omitted, analyzes entire image."),
				},
				"required": []string{"path"},
			},
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
