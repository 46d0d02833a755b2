// Package server implements the MCP (Model Context Protocol) server for image
// information measures.
//
// This package provides a JSON-RPC 2.0 server that exposes mutual information,
// entropy and histogram estimates of images through the MCP protocol, so that
// MCP-compatible clients can ask how much information two images (or two regions
// of one image) share.
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
// Basic Image Information:
//   - image_load: Load image and get metadata, including native bit depth
//   - image_dimensions: Get width and height
//
// Information Measures:
//   - image_mutual_information: Mutual information between two images or regions
//   - image_entropy: Shannon entropy of one channel
//   - image_histogram: Marginal intensity distribution
//   - image_joint_histogram: Most probable joint histogram cells
//
// Analysis Helpers:
//   - image_compare_regions: Mutual information between two regions of one image
//   - image_intensity_stats: Descriptive statistics of one channel
//
// Every measure accepts a channel (gray, red, green, blue, alpha, lightness or
// binary) and a bit_depth. Omitted values fall back to the server configuration.
//
// # Image Caching
//
// Decoded images are kept in a bounded LRU cache keyed by path, so repeated
// comparisons against the same reference image do not hit the disk.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 when the arguments or images are invalid (missing path,
//     unknown channel, bad region, mismatched shapes, out-of-range bit depth)
//   - code: -32000 for any other failure, such as an unreadable file
//   - data: the Go error string
//
// # Usage
//
//	srv := server.NewWithConfig(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Error("server stopped", "error", err)
//	}
package server
