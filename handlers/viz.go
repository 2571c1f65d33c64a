// ABOUTME: GraphViz visualization MCP handler
// ABOUTME: Provides the pipeline_graph tool returning DOT source
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/simplecrm/store"
	"github.com/harperreed/simplecrm/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	store *store.Store
}

func NewVizHandlers(s *store.Store) *VizHandlers {
	return &VizHandlers{store: s}
}

type PipelineGraphInput struct{}

type PipelineGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) PipelineGraph(ctx context.Context, request *mcp.CallToolRequest, _ PipelineGraphInput) (*mcp.CallToolResult, PipelineGraphOutput, error) {
	dot, err := viz.PipelineGraph(ctx, h.store.Snapshot())
	if err != nil {
		return nil, PipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	nodes, edges := countGraphElements(dot)
	return nil, PipelineGraphOutput{DOTSource: dot, NodeCount: nodes, EdgeCount: edges}, nil
}

// countGraphElements gives a rough node and edge count from DOT source.
func countGraphElements(dot string) (nodes, edges int) {
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "->"):
			edges++
		case strings.HasPrefix(line, "contact_"), strings.HasPrefix(line, "deal_"), strings.HasPrefix(line, "stage_"):
			nodes++
		}
	}
	return nodes, edges
}
