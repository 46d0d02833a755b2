package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_mi_tool_calls",
		Help: "The total number of tool calls by tool and outcome",
	}, []string{"tool", "outcome"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_mi_tool_time",
		Help:    "Time spent executing tool calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

// unknownTool is the metric label for calls naming a tool the server does not
// define.
const unknownTool = "unknown"

var knownTools = func() map[string]struct{} {
	names := make(map[string]struct{})
	for _, t := range GetToolDefinitions() {
		names[t.Name] = struct{}{}
	}
	return names
}()

// toolLabel keeps the tool label bounded to the defined tools.
func toolLabel(name string) string {
	if _, ok := knownTools[name]; ok {
		return name
	}
	return unknownTool
}
