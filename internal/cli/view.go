package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/cache"
	"github.com/citescope/citescope/pkg/config"
	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/layout"
	"github.com/citescope/citescope/pkg/render"
	"github.com/citescope/citescope/pkg/viewer"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	configPath string // explicit config file path
	pick       bool   // open the interactive graph picker first
	noCache    bool   // bypass the layout cache
	exportDir  string // override the export directory
}

// newViewCmd creates the view command that opens graphs in the
// interactive window.
func newViewCmd() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open knowledge graphs in the interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/citescope/config.toml)")
	cmd.Flags().BoolVarP(&opts.pick, "pick", "p", false, "pick the starting graph interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the layout cache")
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", "", "directory for exported PNGs")

	return cmd
}

// runView loads the input file, resolves configuration, and hands the
// graphs to the viewer. The command blocks until the window closes.
func runView(ctx context.Context, input string, opts *viewOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	graphs, err := graph.ReadGraphsFile(input)
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "no graphs in %s", input)
	}
	logger.Infof("Loaded %d graph(s) from %s", len(graphs), input)

	if opts.pick && len(graphs) > 1 {
		idx, err := pickGraph(graphs)
		if err != nil {
			return err
		}
		if idx < 0 {
			printInfo("No graph selected")
			return nil
		}
		// Start on the picked graph; tab still cycles through the rest.
		graphs[0], graphs[idx] = graphs[idx], graphs[0]
	}

	theme, err := buildTheme(cfg)
	if err != nil {
		return err
	}

	c := openCache(ctx, cfg, opts.noCache)
	defer c.Close()

	exportDir := cfg.Viewer.ExportDir
	if opts.exportDir != "" {
		exportDir = opts.exportDir
	}

	v, err := viewer.New(graphs, viewer.Options{
		Width:     int(cfg.Canvas.Width),
		Height:    int(cfg.Canvas.Height),
		Layout:    layoutOptions(cfg),
		Cache:     c,
		Theme:     &theme,
		ZoomStep:  cfg.Viewer.ZoomStep,
		MinZoom:   cfg.Viewer.MinZoom,
		MaxZoom:   cfg.Viewer.MaxZoom,
		ExportDir: exportDir,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	printInfo("Viewing %s", StyleHighlight.Render(graphs[0].ToolName))
	printDetail("drag: pan · wheel: zoom · /: search · tab: next graph · s: export · q: quit")
	return v.Run()
}

// buildTheme applies the config's palette overrides to the default
// theme.
func buildTheme(cfg config.Config) (render.Theme, error) {
	theme := render.DefaultTheme()
	err := theme.Apply(render.Overrides{
		Background: cfg.Theme.Background,
		Edge:       cfg.Theme.Edge,
		Nodes:      cfg.Theme.Node,
	})
	if err != nil {
		return theme, errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme overrides")
	}
	return theme, nil
}

// layoutOptions maps the config onto layout engine options.
func layoutOptions(cfg config.Config) layout.Options {
	opts := layout.DefaultOptions(cfg.Canvas.Width, cfg.Canvas.Height)
	if cfg.Canvas.Margin > 0 {
		opts.Margin = cfg.Canvas.Margin
	}
	if cfg.Layout.Iterations > 0 {
		opts.Iterations = cfg.Layout.Iterations
	}
	if cfg.Layout.CollisionPasses > 0 {
		opts.CollisionPasses = cfg.Layout.CollisionPasses
	}
	return opts
}

// openCache builds the configured cache backend. Backend failures are
// downgraded to a warning and a null cache - caching is never a reason
// to refuse to show a graph.
func openCache(ctx context.Context, cfg config.Config, disabled bool) cache.Cache {
	logger := loggerFromContext(ctx)
	if disabled {
		return cache.NewNullCache()
	}

	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache()
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			logger.Warnf("Redis cache unavailable (%v), continuing without cache", err)
			return cache.NewNullCache()
		}
		logger.Debugf("Using redis cache at %s", cfg.Cache.RedisAddr)
		return c
	default:
		c, err := cache.NewFileCache(cfg.CacheDir())
		if err != nil {
			logger.Warnf("File cache unavailable (%v), continuing without cache", err)
			return cache.NewNullCache()
		}
		logger.Debugf("Using file cache at %s", c.Dir())
		return c
	}
}
