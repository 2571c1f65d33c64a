// ABOUTME: Graphviz rendering of the deal pipeline
// ABOUTME: Contacts link to their deals and each deal links to its stage
package viz

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
)

var stageColors = map[models.Stage]string{
	models.StageLead:      "lightgrey",
	models.StageQualified: "lightblue",
	models.StageProposal:  "lightyellow",
	models.StageWon:       "palegreen",
	models.StageLost:      "lightpink",
}

// DOTFormat is the text format produced for "dot".
const DOTFormat = graphviz.XDOT

// ParseGraphFormat maps a user-facing format name to a graphviz format.
func ParseGraphFormat(name string) (graphviz.Format, error) {
	switch name {
	case "", "dot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	default:
		return "", fmt.Errorf("unsupported graph format %q (expected dot, svg or png)", name)
	}
}

// PipelineGraph returns the pipeline as DOT source.
func PipelineGraph(ctx context.Context, doc *models.Document) (string, error) {
	var buf bytes.Buffer
	if err := WritePipelineGraph(ctx, doc, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WritePipelineGraph renders the pipeline in format to w.
func WritePipelineGraph(ctx context.Context, doc *models.Document, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	stats := query.ComputeStats(doc)
	stageNodes := make(map[models.Stage]*cgraph.Node)
	for _, s := range stats.Stages {
		node, err := stageNode(graph, s.Stage, s.Count)
		if err != nil {
			return err
		}
		stageNodes[s.Stage] = node
	}

	for _, c := range doc.Contacts {
		if len(c.Deals) == 0 {
			continue
		}
		contactNode, err := graph.CreateNodeByName("contact_" + c.ID)
		if err != nil {
			return fmt.Errorf("failed to create contact node: %w", err)
		}
		contactNode.SetLabel(contactLabel(c))
		contactNode.SetShape("ellipse")

		for _, d := range c.Deals {
			dealNode, err := graph.CreateNodeByName("deal_" + d.ID)
			if err != nil {
				return fmt.Errorf("failed to create deal node: %w", err)
			}
			dealNode.SetLabel(dealLabel(d))
			dealNode.SetShape("diamond")

			if _, err := graph.CreateEdgeByName("owns_"+d.ID, contactNode, dealNode); err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}

			target, ok := stageNodes[d.Stage]
			if !ok {
				// imported data can carry stage codes outside the known set
				target, err = stageNode(graph, d.Stage, 0)
				if err != nil {
					return err
				}
				stageNodes[d.Stage] = target
			}
			edge, err := graph.CreateEdgeByName("in_"+d.ID, dealNode, target)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetStyle("dashed")
		}
	}

	if err := gv.Render(ctx, graph, format, w); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}
	return nil
}

func stageNode(graph *cgraph.Graph, stage models.Stage, count int) (*cgraph.Node, error) {
	node, err := graph.CreateNodeByName("stage_" + string(stage))
	if err != nil {
		return nil, fmt.Errorf("failed to create stage node: %w", err)
	}
	node.SetLabel(fmt.Sprintf("%s\n%d deal(s)", stage.Label(), count))
	node.SetShape("box")
	node.SetStyle("filled")
	color, ok := stageColors[stage]
	if !ok {
		color = "white"
	}
	node.SetFillColor(color)
	return node, nil
}

func contactLabel(c models.Contact) string {
	if c.Company != "" && c.Company != c.Name {
		return fmt.Sprintf("%s\n%s", c.DisplayName(), c.Company)
	}
	return c.DisplayName()
}

func dealLabel(d models.Deal) string {
	if v := query.FormatDealValue(d.Value); v != "" {
		return fmt.Sprintf("%s\n$%s", d.Title, v)
	}
	return d.Title
}
