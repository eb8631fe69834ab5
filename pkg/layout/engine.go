package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/observability"
)

// Force model constants. Tuned against canvases in the 800x600-1600x1200
// range; all distance terms scale with per-type minimum separation, so
// they hold up across graph sizes.
const (
	springK         = 0.015 // Hooke constant for edge attraction
	idealEdgeFactor = 0.75  // ideal edge length = (sepA+sepB) * factor
	gravityK        = 0.045 // centering pull per world unit beyond threshold
	gravityRadius   = 0.25  // threshold radius as fraction of min(W,H)
	maxSpeedBase    = 24.0  // velocity clamp before mass scaling
	wallK           = 0.08  // soft boundary push per unit of intrusion
	wallRange       = 1.5   // soft boundary reach as multiple of margin
	repulsionCap    = 60.0  // per-step repulsive force ceiling
	alignEps        = 2.0   // world units counting as axis-aligned
	jitterMag       = 1.8   // perpendicular nudge magnitude
)

// Options configures a layout run. The zero value is not usable; call
// [DefaultOptions] or fill Width/Height and let Normalize supply the rest.
type Options struct {
	Width  float64
	Height float64

	// Margin is the hard boundary inset; no node center ever leaves
	// [Margin, Width-Margin] x [Margin, Height-Margin].
	Margin float64

	// Iterations is the fixed relaxation budget.
	Iterations int

	// CollisionPasses bounds post-relaxation overlap resolution.
	CollisionPasses int

	// JitterEvery applies the anti-collinearity nudge on every k-th
	// iteration.
	JitterEvery int
}

// DefaultOptions returns the standard budget for a canvas of the given
// size.
func DefaultOptions(width, height float64) Options {
	return Options{
		Width:           width,
		Height:          height,
		Margin:          50,
		Iterations:      300,
		CollisionPasses: 8,
		JitterEvery:     9,
	}
}

// Normalize fills zero-valued fields with defaults.
func (o *Options) Normalize() {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Margin <= 0 {
		o.Margin = 50
	}
	if o.Iterations <= 0 {
		o.Iterations = 300
	}
	if o.CollisionPasses <= 0 {
		o.CollisionPasses = 8
	}
	if o.JitterEvery <= 0 {
		o.JitterEvery = 9
	}
}

// Result summarizes a layout run. Residual overlaps are accepted
// best-effort output, never an error.
type Result struct {
	Iterations int
	Passes     int  // collision passes actually executed
	Residual   int  // pairs still closer than 0.9x required separation
	Clean      bool // collision resolution converged within budget
}

// Run relaxes the graph in place: every node ends with a final position
// inside the canvas margins, and velocities are left at their last
// integration value. Identical graphs and options produce identical
// positions. Run never fails; an empty graph returns immediately.
func Run(ctx context.Context, g *graph.Graph, opts Options) Result {
	opts.Normalize()

	observability.Layout().OnLayoutStart(ctx, g.ID, g.NodeCount())
	start := time.Now()

	res := run(g, opts)

	observability.Layout().OnLayoutComplete(ctx, g.ID, time.Since(start), res.Residual)
	return res
}

func run(g *graph.Graph, opts Options) Result {
	if g.NodeCount() == 0 {
		return Result{Clean: true}
	}

	seedPositions(g, opts)

	nodes := g.Nodes
	fx := make([]float64, len(nodes))
	fy := make([]float64, len(nodes))
	seed := graphSeed(g)

	for it := 0; it < opts.Iterations; it++ {
		progress := float64(it) / float64(opts.Iterations)
		cooling := math.Pow(1-progress, 1.5)

		for i := range fx {
			fx[i] = 0
			fy[i] = 0
		}

		applyRepulsion(nodes, fx, fy, cooling)
		applyEdgeSprings(g, fx, fy, cooling)
		applyGravity(nodes, fx, fy, opts, cooling)

		if it > 0 && it%opts.JitterEvery == 0 {
			applyJitter(nodes, fx, fy, seed, uint64(it), cooling)
		}

		integrate(nodes, fx, fy, opts)
	}

	passes, residual, clean := resolveCollisions(g, opts)
	return Result{
		Iterations: opts.Iterations,
		Passes:     passes,
		Residual:   residual,
		Clean:      clean,
	}
}

// applyRepulsion pushes every node pair apart with a force scaled against
// the pair's required minimum separation and split in inverse proportion
// to mass: heavy nodes hold their ground, light ones yield.
func applyRepulsion(nodes []*graph.Node, fx, fy []float64, cooling float64) {
	for i := 0; i < len(nodes); i++ {
		pi := nodes[i].Profile()
		for j := i + 1; j < len(nodes); j++ {
			pj := nodes[j].Profile()

			dx := nodes[j].X - nodes[i].X
			dy := nodes[j].Y - nodes[i].Y
			d2 := dx*dx + dy*dy
			if d2 < 1e-6 {
				// Coincident pair: separate along a stable direction.
				dx, dy = 1, 0
				d2 = 1
			}
			d := math.Sqrt(d2)

			minSep := math.Max(pi.MinSeparation, pj.MinSeparation)
			strength := (pi.Repulsion + pj.Repulsion) / 2
			f := math.Min(strength*minSep/d2, repulsionCap) * cooling

			ux, uy := dx/d, dy/d
			total := pi.Mass + pj.Mass
			shareI := pj.Mass / total
			shareJ := pi.Mass / total

			fx[i] -= ux * f * shareI
			fy[i] -= uy * f * shareI
			fx[j] += ux * f * shareJ
			fy[j] += uy * f * shareJ
		}
	}
}

// applyEdgeSprings pulls connected nodes toward an ideal distance derived
// from both endpoints' minimum separation (Hooke's law on the signed
// displacement). Edges with unresolved endpoints are skipped.
func applyEdgeSprings(g *graph.Graph, fx, fy []float64, cooling float64) {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}

	for _, e := range g.Edges {
		i, okI := idx[e.Source]
		j, okJ := idx[e.Target]
		if !okI || !okJ || i == j {
			continue
		}
		a, b := g.Nodes[i], g.Nodes[j]
		pa, pb := a.Profile(), b.Profile()

		dx := b.X - a.X
		dy := b.Y - a.Y
		d := math.Hypot(dx, dy)
		if d < 1e-6 {
			continue
		}

		ideal := (pa.MinSeparation + pb.MinSeparation) * idealEdgeFactor
		f := springK * (d - ideal) * cooling

		ux, uy := dx/d, dy/d
		total := pa.Mass + pb.Mass
		shareA := pb.Mass / total
		shareB := pa.Mass / total

		fx[i] += ux * f * shareA * pa.Mass
		fy[i] += uy * f * shareA * pa.Mass
		fx[j] -= ux * f * shareB * pb.Mass
		fy[j] -= uy * f * shareB * pb.Mass
	}
}

// applyGravity pulls nodes toward the canvas center once they drift past
// a canvas-relative radius, with high-mass types pulled harder so they
// settle centrally.
func applyGravity(nodes []*graph.Node, fx, fy []float64, opts Options, cooling float64) {
	cx, cy := opts.Width/2, opts.Height/2
	threshold := math.Min(opts.Width, opts.Height) * gravityRadius

	for i, n := range nodes {
		dx := cx - n.X
		dy := cy - n.Y
		d := math.Hypot(dx, dy)
		if d <= threshold || d < 1e-6 {
			continue
		}
		f := gravityK * (d - threshold) * (n.Profile().Mass / 10) * cooling
		fx[i] += dx / d * f
		fy[i] += dy / d * f
	}
}

// applyJitter nudges near-axis-aligned pairs perpendicular to their
// connecting axis. The nudge direction comes from a PCG stream seeded by
// the graph and iteration, keeping runs reproducible while breaking the
// degenerate grid patterns pure symmetric forces produce.
func applyJitter(nodes []*graph.Node, fx, fy []float64, seed, iteration uint64, cooling float64) {
	rng := rand.New(rand.NewPCG(seed, iteration))

	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			dx := math.Abs(nodes[j].X - nodes[i].X)
			dy := math.Abs(nodes[j].Y - nodes[i].Y)
			if dx > alignEps && dy > alignEps {
				continue
			}

			sign := 1.0
			if rng.Float64() < 0.5 {
				sign = -1
			}
			nudge := jitterMag * cooling * sign

			if dx <= alignEps { // vertically aligned: push apart in x
				fx[i] -= nudge
				fx[j] += nudge
			} else { // horizontally aligned: push apart in y
				fy[i] -= nudge
				fy[j] += nudge
			}
		}
	}
}

// integrate applies accumulated forces to velocities and velocities to
// positions: clamp speed inversely by mass, damp with mass-scaled
// friction, push back softly near canvas edges, and hard-clamp at the
// margin.
func integrate(nodes []*graph.Node, fx, fy []float64, opts Options) {
	for i, n := range nodes {
		p := n.Profile()

		n.VX += fx[i] / p.Mass
		n.VY += fy[i] / p.Mass

		maxSpeed := maxSpeedBase / math.Sqrt(p.Mass)
		speed := math.Hypot(n.VX, n.VY)
		if speed > maxSpeed {
			n.VX *= maxSpeed / speed
			n.VY *= maxSpeed / speed
		}

		friction := 0.92 - 0.03*math.Sqrt(p.Mass)
		n.VX *= friction
		n.VY *= friction

		n.X += n.VX
		n.Y += n.VY

		// Soft repulsion inside the wall zone, then the hard clamp.
		reach := opts.Margin * wallRange
		if n.X < opts.Margin+reach {
			n.VX += wallK * (opts.Margin + reach - n.X) / p.Mass
		}
		if n.X > opts.Width-opts.Margin-reach {
			n.VX -= wallK * (n.X - (opts.Width - opts.Margin - reach)) / p.Mass
		}
		if n.Y < opts.Margin+reach {
			n.VY += wallK * (opts.Margin + reach - n.Y) / p.Mass
		}
		if n.Y > opts.Height-opts.Margin-reach {
			n.VY -= wallK * (n.Y - (opts.Height - opts.Margin - reach)) / p.Mass
		}

		n.X = clamp(n.X, opts.Margin, opts.Width-opts.Margin)
		n.Y = clamp(n.Y, opts.Margin, opts.Height-opts.Margin)
	}
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
