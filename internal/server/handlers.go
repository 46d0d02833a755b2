package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/ironsheep/image-mi-mcp/internal/imaging"
	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// defaultMaxCells is the number of joint histogram cells returned when the
// caller does not ask for a specific count.
const defaultMaxCells = 50

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_mutual_information").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Rejected arguments and inputs the estimator refuses return a JSON-RPC error
// with code -32602. Any other failure (unreadable file, unknown tool) returns
// code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	label := toolLabel(params.Name)
	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	toolLatency.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, mutualinfo.ErrInvalidInput) {
			toolCalls.WithLabelValues(label, "invalid").Inc()
			s.log.Debug("tool rejected input", "tool", params.Name, "error", err)
			return s.errorResponse(req.ID, -32602, "Invalid tool arguments", err.Error())
		}
		toolCalls.WithLabelValues(label, "error").Inc()
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	toolCalls.WithLabelValues(label, "ok").Inc()
	s.log.Debug("tool completed", "tool", params.Name, "elapsed", time.Since(start))

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Extracts the requested channel and calls the estimator
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Information Measures
	case "image_mutual_information":
		return s.handleImageMutualInformation(args)
	case "image_entropy":
		return s.handleImageEntropy(args)
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_joint_histogram":
		return s.handleImageJointHistogram(args)

	// Analysis Helpers
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)
	case "image_intensity_stats":
		return s.handleImageIntensityStats(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// argumentError marks a malformed tool argument so it is reported the same way
// as inputs rejected by the estimator.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string { return e.err.Error() }

func (e *argumentError) Unwrap() error { return e.err }

func (e *argumentError) Is(target error) bool {
	return target == mutualinfo.ErrInvalidInput
}

func badArgument(err error) error {
	if err == nil {
		return nil
	}
	return &argumentError{err: err}
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return badArgument(errors.Wrap(err, "decoding arguments"))
	}
	return nil
}

func requirePath(name, path string) error {
	if path == "" {
		return badArgument(fmt.Errorf("%s is required", name))
	}
	return nil
}

// regionArg is a region given either by coordinates or by name.
type regionArg struct {
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
	Name string `json:"name,omitempty"`
}

// resolve turns the argument into a region of an image with the given bounds.
// A nil argument selects the whole image.
func (r *regionArg) resolve(bounds image.Rectangle) (*imaging.Region, error) {
	if r == nil {
		return nil, nil
	}
	if r.Name != "" {
		region, err := imaging.NamedRegion(bounds, r.Name)
		return region, badArgument(err)
	}
	region := &imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
	if _, err := region.Rect(bounds); err != nil {
		return nil, badArgument(err)
	}
	return region, nil
}

// channelAndDepth applies the configured defaults to the optional channel and
// bit_depth arguments.
func (s *Server) channelAndDepth(channel string, bitDepth *int) (imaging.Channel, int, error) {
	ch := s.cfg.Channel()
	if channel != "" {
		c, err := imaging.ParseChannel(channel)
		if err != nil {
			return "", 0, badArgument(err)
		}
		ch = c
	}

	depth := s.cfg.DefaultBitDepth
	if bitDepth != nil {
		depth = *bitDepth
	}
	return ch, depth, nil
}

// samples loads path and extracts one channel, optionally restricted to region.
func (s *Server) samples(path string, ch imaging.Channel, region *regionArg) (*imaging.Samples, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := region.resolve(img.Bounds())
	if err != nil {
		return nil, err
	}
	return imaging.ToSamples(img, ch, r)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Information Measure Handlers ===

type imageMutualInformationArgs struct {
	PathA          string     `json:"path_a"`
	PathB          string     `json:"path_b"`
	Channel        string     `json:"channel"`
	BitDepth       *int       `json:"bit_depth"`
	SourceBitDepth int        `json:"source_bit_depth"`
	RegionA        *regionArg `json:"region_a"`
	RegionB        *regionArg `json:"region_b"`
}

func (s *Server) handleImageMutualInformation(args json.RawMessage) (interface{}, error) {
	var a imageMutualInformationArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path_a", a.PathA); err != nil {
		return nil, err
	}
	if err := requirePath("path_b", a.PathB); err != nil {
		return nil, err
	}
	ch, depth, err := s.channelAndDepth(a.Channel, a.BitDepth)
	if err != nil {
		return nil, err
	}

	sa, err := s.samples(a.PathA, ch, a.RegionA)
	if err != nil {
		return nil, err
	}
	sb, err := s.samples(a.PathB, ch, a.RegionB)
	if err != nil {
		return nil, err
	}
	return imaging.CompareSamples(sa, sb, imaging.CompareOptions{
		Channel:        ch,
		BitDepth:       depth,
		SourceBitDepth: a.SourceBitDepth,
		Workers:        s.cfg.Workers,
	})
}

type imageChannelArgs struct {
	Path        string     `json:"path"`
	Channel     string     `json:"channel"`
	BitDepth    *int       `json:"bit_depth"`
	Region      *regionArg `json:"region"`
	IncludeZero bool       `json:"include_zero"`
}

func (s *Server) channelSamples(args json.RawMessage) (*imaging.Samples, imageChannelArgs, int, error) {
	var a imageChannelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, a, 0, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, a, 0, err
	}
	ch, depth, err := s.channelAndDepth(a.Channel, a.BitDepth)
	if err != nil {
		return nil, a, 0, err
	}
	smp, err := s.samples(a.Path, ch, a.Region)
	if err != nil {
		return nil, a, 0, err
	}
	return smp, a, depth, nil
}

func (s *Server) handleImageEntropy(args json.RawMessage) (interface{}, error) {
	smp, _, depth, err := s.channelSamples(args)
	if err != nil {
		return nil, err
	}
	return imaging.ChannelEntropy(smp, depth, s.cfg.Workers)
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	smp, a, depth, err := s.channelSamples(args)
	if err != nil {
		return nil, err
	}
	return imaging.ChannelHistogram(smp, depth, a.IncludeZero)
}

type imageJointHistogramArgs struct {
	PathA    string `json:"path_a"`
	PathB    string `json:"path_b"`
	Channel  string `json:"channel"`
	BitDepth *int   `json:"bit_depth"`
	MaxCells int    `json:"max_cells"`
}

func (s *Server) handleImageJointHistogram(args json.RawMessage) (interface{}, error) {
	var a imageJointHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path_a", a.PathA); err != nil {
		return nil, err
	}
	if err := requirePath("path_b", a.PathB); err != nil {
		return nil, err
	}
	if a.MaxCells == 0 {
		a.MaxCells = defaultMaxCells
	}
	ch, depth, err := s.channelAndDepth(a.Channel, a.BitDepth)
	if err != nil {
		return nil, err
	}

	sa, err := s.samples(a.PathA, ch, nil)
	if err != nil {
		return nil, err
	}
	sb, err := s.samples(a.PathB, ch, nil)
	if err != nil {
		return nil, err
	}
	return imaging.JointHistogram(sa, sb, depth, a.MaxCells)
}

// === Analysis Helper Handlers ===

type imageCompareRegionsArgs struct {
	Path     string     `json:"path"`
	Region1  *regionArg `json:"region1"`
	Region2  *regionArg `json:"region2"`
	Channel  string     `json:"channel"`
	BitDepth *int       `json:"bit_depth"`
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var a imageCompareRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	if a.Region1 == nil || a.Region2 == nil {
		return nil, badArgument(fmt.Errorf("region1 and region2 are required"))
	}
	ch, depth, err := s.channelAndDepth(a.Channel, a.BitDepth)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r1, err := a.Region1.resolve(img.Bounds())
	if err != nil {
		return nil, err
	}
	r2, err := a.Region2.resolve(img.Bounds())
	if err != nil {
		return nil, err
	}
	return imaging.CompareRegions(img, *r1, *r2, imaging.CompareOptions{
		Channel:  ch,
		BitDepth: depth,
		Workers:  s.cfg.Workers,
	})
}

func (s *Server) handleImageIntensityStats(args json.RawMessage) (interface{}, error) {
	smp, _, _, err := s.channelSamples(args)
	if err != nil {
		return nil, err
	}
	return imaging.Summarize(smp)
}
