package layout

import (
	"context"
	"encoding/json"

	"github.com/citescope/citescope/pkg/cache"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/observability"
)

// position is the cached per-node placement.
type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// cachedLayout is the stored form of a finished layout.
type cachedLayout struct {
	Positions map[string]position `json:"positions"`
	Residual  int                 `json:"residual"`
	Clean     bool                `json:"clean"`
}

// CachedRun runs the layout with a cache in front: a hit applies the
// stored positions without relaxing, a miss runs the engine and stores
// the result. Cache failures fall back to a plain run - the cache is an
// optimization, never a correctness dependency.
func CachedRun(ctx context.Context, g *graph.Graph, opts Options, c cache.Cache) Result {
	opts.Normalize()
	if c == nil {
		return Run(ctx, g, opts)
	}

	key, ok := layoutKey(g, opts)
	if !ok {
		return Run(ctx, g, opts)
	}

	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		if res, ok := applyCached(g, data); ok {
			observability.Cache().OnCacheHit(ctx, "layout")
			return res
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	res := Run(ctx, g, opts)

	stored := cachedLayout{
		Positions: make(map[string]position, len(g.Nodes)),
		Residual:  res.Residual,
		Clean:     res.Clean,
	}
	for _, n := range g.Nodes {
		stored.Positions[n.ID] = position{X: n.X, Y: n.Y}
	}
	if data, err := json.Marshal(stored); err == nil {
		if err := c.Set(ctx, key, data, 0); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res
}

// layoutKey derives the cache key from the graph content and options.
func layoutKey(g *graph.Graph, opts Options) (string, bool) {
	data, err := graph.MarshalRecord(g)
	if err != nil {
		return "", false
	}
	return cache.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{
		Width:      opts.Width,
		Height:     opts.Height,
		Margin:     opts.Margin,
		Iterations: opts.Iterations,
		Passes:     opts.CollisionPasses,
	}), true
}

// applyCached copies stored positions onto the graph. The entry is only
// usable if it covers every current node; otherwise the caller relaxes
// from scratch.
func applyCached(g *graph.Graph, data []byte) (Result, bool) {
	var stored cachedLayout
	if err := json.Unmarshal(data, &stored); err != nil {
		return Result{}, false
	}
	for _, n := range g.Nodes {
		if _, ok := stored.Positions[n.ID]; !ok {
			return Result{}, false
		}
	}
	for _, n := range g.Nodes {
		p := stored.Positions[n.ID]
		n.X, n.Y = p.X, p.Y
		n.VX, n.VY = 0, 0
	}
	return Result{Residual: stored.Residual, Clean: stored.Clean}, true
}
