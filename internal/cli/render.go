package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/cache"
	"github.com/citescope/citescope/pkg/config"
	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/layout"
	"github.com/citescope/citescope/pkg/render"
	"github.com/citescope/citescope/pkg/viewport"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string  // explicit config file path
	output     string  // output file path; derived from the input when empty
	graphIndex int     // which graph to render from a multi-graph file
	all        bool    // render every graph in the file
	width      float64 // canvas width in pixels
	height     float64 // canvas height in pixels
	noCache    bool    // bypass the layout cache
}

// newRenderCmd creates the render command that produces a PNG snapshot
// without opening a window: layout, fit, one frame, encode.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render knowledge graphs to PNG without a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/citescope/config.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from tool name)")
	cmd.Flags().IntVarP(&opts.graphIndex, "graph", "g", 0, "index of the graph to render")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every graph in the file")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the layout cache")

	return cmd
}

// runRender loads the input and renders the selected graph(s).
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.width > 0 {
		cfg.Canvas.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Canvas.Height = opts.height
	}

	graphs, err := graph.ReadGraphsFile(input)
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "no graphs in %s", input)
	}
	logger.Infof("Loaded %d graph(s) from %s", len(graphs), input)

	c := openCache(ctx, cfg, opts.noCache)
	defer c.Close()

	if opts.all {
		for i, g := range graphs {
			if err := renderOne(ctx, g, cfg, c, outputPath(opts.output, g, i, len(graphs))); err != nil {
				return err
			}
		}
		return nil
	}

	if opts.graphIndex < 0 || opts.graphIndex >= len(graphs) {
		return errors.New(errors.ErrCodeInvalidGraph,
			"graph index %d out of range (file has %d)", opts.graphIndex, len(graphs))
	}
	g := graphs[opts.graphIndex]
	if err := renderOne(ctx, g, cfg, c, outputPath(opts.output, g, opts.graphIndex, 1)); err != nil {
		return err
	}
	printNextStep("View interactively", "citescope view "+input)
	return nil
}

// renderOne lays out a single graph and writes one frame to path.
func renderOne(ctx context.Context, g *graph.Graph, cfg config.Config, c cache.Cache, path string) error {
	logger := loggerFromContext(ctx)

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", g.ToolName))
	sp.Start()
	p := newProgress(logger)
	res := layout.CachedRun(ctx, g, layoutOptions(cfg), c)
	sp.Stop()
	if sp.Cancelled() {
		return ctx.Err()
	}
	p.done(fmt.Sprintf("Laid out %d nodes", g.NodeCount()))
	if !res.Clean {
		printWarning("%d node pairs still overlap after %d passes", res.Residual, res.Passes)
	}

	w, h := int(cfg.Canvas.Width), int(cfg.Canvas.Height)
	view := viewport.New()
	view.FitToBounds(g, float64(w), float64(h), cfg.Canvas.Margin)

	theme, err := buildTheme(cfg)
	if err != nil {
		return err
	}
	r, err := render.New(theme)
	if err != nil {
		return err
	}
	dc := gg.NewContext(w, h)
	r.Draw(dc, g, nil, view, 0)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", dir)
	}
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}

	printSuccess("Rendered %s", g.ToolName)
	printStats(g.NodeCount(), g.EdgeCount(), res.Clean)
	printFile(path)
	return nil
}

// outputPath derives the output file for graph i. An explicit --output
// wins for single renders and becomes a base path for --all.
func outputPath(output string, g *graph.Graph, i, total int) string {
	if output != "" {
		if total <= 1 {
			return output
		}
		base := strings.TrimSuffix(output, filepath.Ext(output))
		return fmt.Sprintf("%s_%d.png", base, i+1)
	}
	return render.ExportFilename(g.ToolName, time.Now())
}
