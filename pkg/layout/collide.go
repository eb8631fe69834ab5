package layout

import (
	"math"

	"github.com/citescope/citescope/pkg/graph"
)

// residualSlack is the tolerance applied when counting leftover
// violations: a pair closer than slack * required separation counts as
// unresolved.
const residualSlack = 0.9

// resolveCollisions displaces violating pairs along their connecting line,
// split by inverse mass ratio, until no violation remains or the pass
// budget is exhausted. Displaced nodes stay inside the canvas margins,
// which is why small graphs may need more than one pass.
func resolveCollisions(g *graph.Graph, opts Options) (passes, residual int, clean bool) {
	nodes := g.Nodes

	for passes = 0; passes < opts.CollisionPasses; passes++ {
		violations := 0

		for i := 0; i < len(nodes); i++ {
			pi := nodes[i].Profile()
			for j := i + 1; j < len(nodes); j++ {
				pj := nodes[j].Profile()
				minSep := math.Max(pi.MinSeparation, pj.MinSeparation)

				dx := nodes[j].X - nodes[i].X
				dy := nodes[j].Y - nodes[i].Y
				d := math.Hypot(dx, dy)

				if d >= minSep {
					continue
				}
				violations++

				var ux, uy float64
				if d < 1e-9 {
					// Coincident centers: pick a hash-stable direction.
					angle := unit(nodes[i].ID+nodes[j].ID) * 2 * math.Pi
					ux, uy = math.Cos(angle), math.Sin(angle)
					d = 0
				} else {
					ux, uy = dx/d, dy/d
				}

				overlap := minSep - d
				total := pi.Mass + pj.Mass
				shareI := pj.Mass / total
				shareJ := pi.Mass / total

				nodes[i].X = clamp(nodes[i].X-ux*overlap*shareI, opts.Margin, opts.Width-opts.Margin)
				nodes[i].Y = clamp(nodes[i].Y-uy*overlap*shareI, opts.Margin, opts.Height-opts.Margin)
				nodes[j].X = clamp(nodes[j].X+ux*overlap*shareJ, opts.Margin, opts.Width-opts.Margin)
				nodes[j].Y = clamp(nodes[j].Y+uy*overlap*shareJ, opts.Margin, opts.Height-opts.Margin)
			}
		}

		if violations == 0 {
			return passes + 1, 0, true
		}
	}

	return passes, countResidual(nodes), false
}

// countResidual reports pairs still inside residualSlack of their
// required separation after the pass budget ran out.
func countResidual(nodes []*graph.Node) int {
	residual := 0
	for i := 0; i < len(nodes); i++ {
		pi := nodes[i].Profile()
		for j := i + 1; j < len(nodes); j++ {
			pj := nodes[j].Profile()
			minSep := math.Max(pi.MinSeparation, pj.MinSeparation)
			d := math.Hypot(nodes[j].X-nodes[i].X, nodes[j].Y-nodes[i].Y)
			if d < residualSlack*minSep {
				residual++
			}
		}
	}
	return residual
}
