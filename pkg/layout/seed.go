package layout

import (
	"hash/fnv"
	"math"

	"github.com/citescope/citescope/pkg/graph"
)

// unit folds an FNV-1a hash of s into [0,1). The top 53 bits feed the
// mantissa directly so the distribution is uniform and platform-stable.
func unit(s string) float64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}

// graphSeed derives the jitter RNG seed from the node ID set. Node order
// is part of the seed on purpose: the same graph always yields the same
// seed, and that is the only guarantee needed.
func graphSeed(g *graph.Graph) uint64 {
	h := fnv.New64a()
	for _, n := range g.Nodes {
		h.Write([]byte(n.ID))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// seedPositions places every node on a hash-derived polar coordinate
// around the canvas center and zeroes velocities. The radius uses a
// square-root fold so seeds spread over area rather than bunching at the
// rim.
func seedPositions(g *graph.Graph, opts Options) {
	cx, cy := opts.Width/2, opts.Height/2
	maxR := math.Min(opts.Width, opts.Height) * 0.35

	for _, n := range g.Nodes {
		angle := unit(n.ID+"|angle") * 2 * math.Pi
		radius := maxR * (0.25 + 0.75*math.Sqrt(unit(n.ID+"|radius")))
		n.X = cx + math.Cos(angle)*radius
		n.Y = cy + math.Sin(angle)*radius
		n.VX = 0
		n.VY = 0
	}
}
