package viewport

import (
	"math"
	"testing"

	"github.com/citescope/citescope/pkg/graph"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewIsIdentity(t *testing.T) {
	v := New()
	x, y := v.WorldToDevice(12.5, -7)
	if x != 12.5 || y != -7 {
		t.Errorf("identity mapped (12.5,-7) to (%v,%v)", x, y)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
	}{
		{"identity", New()},
		{"zoomed", Transform{Scale: 2.5, OffsetX: 100, OffsetY: -40}},
		{"shrunk", Transform{Scale: 0.125, OffsetX: -3.7, OffsetY: 999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range [][2]float64{{0, 0}, {123.4, -56.7}, {-1e4, 1e4}} {
				dx, dy := tt.tr.WorldToDevice(p[0], p[1])
				wx, wy := tt.tr.DeviceToWorld(dx, dy)
				if !almostEqual(wx, p[0]) || !almostEqual(wy, p[1]) {
					t.Errorf("round trip of %v gave (%v,%v)", p, wx, wy)
				}
			}
		})
	}
}

func TestPan(t *testing.T) {
	v := Transform{Scale: 2, OffsetX: 10, OffsetY: 20}
	v.Pan(5, -3)
	if v.OffsetX != 15 || v.OffsetY != 17 {
		t.Errorf("offset = (%v,%v), want (15,17)", v.OffsetX, v.OffsetY)
	}
	if v.Scale != 2 {
		t.Error("pan must not change scale")
	}
}

func TestZoomAtKeepsAnchorStationary(t *testing.T) {
	v := Transform{Scale: 1.3, OffsetX: 42, OffsetY: -17}
	const ax, ay = 311.0, 209.0

	wx, wy := v.DeviceToWorld(ax, ay)
	v.ZoomAt(ax, ay, 1.1)

	dx, dy := v.WorldToDevice(wx, wy)
	if !almostEqual(dx, ax) || !almostEqual(dy, ay) {
		t.Errorf("anchor moved to (%v,%v), want (%v,%v)", dx, dy, ax, ay)
	}
	if !almostEqual(v.Scale, 1.3*1.1) {
		t.Errorf("scale = %v, want %v", v.Scale, 1.3*1.1)
	}
}

func TestZoomInOutIsSelfInverse(t *testing.T) {
	v := Transform{Scale: 1, OffsetX: 5, OffsetY: 5}
	orig := v
	v.ZoomAt(100, 80, 1.1)
	v.ZoomAt(100, 80, 1/1.1)

	if !almostEqual(v.Scale, orig.Scale) ||
		!almostEqual(v.OffsetX, orig.OffsetX) ||
		!almostEqual(v.OffsetY, orig.OffsetY) {
		t.Errorf("zoom in+out drifted: %+v vs %+v", v, orig)
	}
}

func TestZoomAtIgnoresNonPositiveFactor(t *testing.T) {
	v := Transform{Scale: 2, OffsetX: 1, OffsetY: 1}
	orig := v
	v.ZoomAt(10, 10, 0)
	v.ZoomAt(10, 10, -3)
	if v != orig {
		t.Errorf("non-positive factor mutated the transform: %+v", v)
	}
}

func TestCenterOn(t *testing.T) {
	v := Transform{Scale: 2}
	v.CenterOn(100, 50, 400, 300)
	dx, dy := v.WorldToDevice(100, 50)
	if !almostEqual(dx, 400) || !almostEqual(dy, 300) {
		t.Errorf("world point mapped to (%v,%v), want (400,300)", dx, dy)
	}
}

func positionedGraph(coords [][2]float64) *graph.Graph {
	rec := graph.Record{}
	for i := range coords {
		rec.Nodes = append(rec.Nodes, graph.NodeRecord{ID: string(rune('a' + i))})
	}
	g := graph.FromRecord(rec)
	for i, c := range coords {
		g.Nodes[i].X, g.Nodes[i].Y = c[0], c[1]
	}
	return g
}

func TestFitToBoundsContainsAllNodes(t *testing.T) {
	g := positionedGraph([][2]float64{{0, 0}, {2000, 0}, {1000, 3000}})
	v := New()
	v.FitToBounds(g, 800, 600, 20)

	if v.Scale > 1 {
		t.Errorf("scale = %v, must never exceed 1", v.Scale)
	}
	for _, n := range g.Nodes {
		dx, dy := v.WorldToDevice(n.X, n.Y)
		if dx < 0 || dx > 800 || dy < 0 || dy > 600 {
			t.Errorf("node %s at device (%v,%v), outside 800x600", n.ID, dx, dy)
		}
	}
}

func TestFitToBoundsCapsAtNativeScale(t *testing.T) {
	// A tiny cluster must not be blown up past 1:1.
	g := positionedGraph([][2]float64{{100, 100}, {110, 105}})
	v := New()
	v.FitToBounds(g, 800, 600, 10)
	if v.Scale != 1 {
		t.Errorf("scale = %v, want capped at 1", v.Scale)
	}

	// The cluster center should land at the canvas center.
	dx, dy := v.WorldToDevice(105, 102.5)
	if !almostEqual(dx, 400) || !almostEqual(dy, 300) {
		t.Errorf("cluster center at (%v,%v), want (400,300)", dx, dy)
	}
}

func TestFitToBoundsEmptyGraph(t *testing.T) {
	g := positionedGraph(nil)
	v := Transform{Scale: 7, OffsetX: 9, OffsetY: 9}
	v.FitToBounds(g, 800, 600, 10)
	if v != New() {
		t.Errorf("empty graph should reset to identity, got %+v", v)
	}
}
