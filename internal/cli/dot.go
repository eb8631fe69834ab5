package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/render/dot"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output     string // output file path; derived from the input when empty
	format     string // "dot", "svg", or "png"
	graphIndex int    // which graph to export from a multi-graph file
	detailed   bool   // include node types in labels
}

// validDotFormats is the set of supported export formats.
var validDotFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// newDotCmd creates the dot command for Graphviz exports. Unlike render,
// this path delegates positioning to Graphviz itself.
func newDotCmd() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Export a knowledge graph as Graphviz DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validDotFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", opts.format)
			}
			return runDot(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot (default), svg, png")
	cmd.Flags().IntVarP(&opts.graphIndex, "graph", "g", 0, "index of the graph to export")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node types in labels")

	return cmd
}

// runDot loads the input and writes the selected graph in the requested
// format.
func runDot(ctx context.Context, input string, opts *dotOpts) error {
	logger := loggerFromContext(ctx)

	graphs, err := graph.ReadGraphsFile(input)
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "no graphs in %s", input)
	}
	if opts.graphIndex < 0 || opts.graphIndex >= len(graphs) {
		return errors.New(errors.ErrCodeInvalidGraph,
			"graph index %d out of range (file has %d)", opts.graphIndex, len(graphs))
	}
	g := graphs[opts.graphIndex]

	src := dot.ToDOT(g, dot.Options{Detailed: opts.detailed})
	logger.Debugf("Generated DOT: %d bytes", len(src))

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(src)
	case "svg":
		logger.Info("Rendering SVG via Graphviz")
		data, err = dot.RenderSVG(ctx, src)
	case "png":
		logger.Info("Rendering PNG via Graphviz")
		data, err = dot.RenderPNG(ctx, src)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "graphviz %s", opts.format)
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}

	printSuccess("Exported %s", g.ToolName)
	printFile(path)
	return nil
}
