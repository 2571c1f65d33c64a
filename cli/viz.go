// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the deal pipeline graph as DOT, SVG or PNG
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/harperreed/simplecrm/store"
	"github.com/harperreed/simplecrm/viz"
)

// VizPipelineCommand generates the contact to deal to stage graph.
func VizPipelineCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := newFlagSet("viz pipeline")
	format := fs.String("format", "dot", "Output format: dot, svg or png")
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gf, err := viz.ParseGraphFormat(*format)
	if err != nil {
		return err
	}

	if *output == "" && gf != viz.DOTFormat {
		return fmt.Errorf("--output is required for %s output", *format)
	}

	var buf bytes.Buffer
	if err := viz.WritePipelineGraph(ctx, s.Snapshot(), gf, &buf); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, buf.Bytes(), 0644); err != nil {
			return err
		}
		printf("✓ Graph written to %s\n", *output)
		return nil
	}
	_, err = stdout.Write(buf.Bytes())
	return err
}
