package interact

import (
	"math"
	"testing"
	"time"

	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/viewport"
)

// testGraph places three typed nodes at fixed world positions:
// p1 (100,100), a1 (400,100), v1 (250,300), with a1 -> p1.
func testGraph() *graph.Graph {
	g := graph.FromRecord(graph.Record{
		Nodes: []graph.NodeRecord{
			{ID: "p1", Label: "Attention Is All You Need", Properties: map[string]any{"type": "paper"}},
			{ID: "a1", Label: "Ashish Vaswani", Properties: map[string]any{"type": "author"}},
			{ID: "v1", Label: "NeurIPS", Properties: map[string]any{"type": "venue"}},
		},
		Edges: []graph.EdgeRecord{
			{Source: "a1", Target: "p1", Relation: "authored"},
		},
	})
	coords := map[string][2]float64{"p1": {100, 100}, "a1": {400, 100}, "v1": {250, 300}}
	for _, n := range g.Nodes {
		c := coords[n.ID]
		n.X, n.Y = c[0], c[1]
	}
	return g
}

// newTestController wires a controller with a manual clock so hover
// throttling is deterministic.
func newTestController(g *graph.Graph) (*Controller, *viewport.Transform, *time.Time) {
	view := viewport.New()
	c := NewController(&view)
	c.Resize(800, 600)
	c.SetGraph(g)

	clock := time.Unix(0, 0)
	c.now = func() time.Time { return clock }
	return c, &view, &clock
}

// =============================================================================
// Hit Testing
// =============================================================================

func TestHitTestWithinRadius(t *testing.T) {
	c, _, _ := newTestController(testGraph())

	if n := c.HitTest(110, 100); n == nil || n.ID != "p1" {
		t.Errorf("HitTest(110,100) = %v, want p1", n)
	}
	if n := c.HitTest(130, 100); n != nil {
		t.Errorf("HitTest(130,100) = %v, want miss", n.ID)
	}
}

func TestHitTestRadiusScalesWithZoom(t *testing.T) {
	c, view, _ := newTestController(testGraph())
	view.Scale = 4 // p1 now at device (400,400)

	if n := c.HitTest(410, 400); n == nil || n.ID != "p1" {
		t.Errorf("zoomed HitTest(410,400) = %v, want p1", n)
	}
	// 30 device pixels is 7.5 world units, outside 18/4 = 4.5.
	if n := c.HitTest(430, 400); n != nil {
		t.Errorf("zoomed HitTest(430,400) = %v, want miss", n.ID)
	}
}

func TestHitTestDeclarationOrderTieBreak(t *testing.T) {
	g := testGraph()
	// Stack a1 on top of p1; p1 is declared first and must win.
	g.Node("a1").X, g.Node("a1").Y = 100, 100

	c, _, _ := newTestController(g)
	if n := c.HitTest(100, 100); n == nil || n.ID != "p1" {
		t.Errorf("HitTest on stacked nodes = %v, want first-declared p1", n)
	}
}

func TestHitTestNilGraph(t *testing.T) {
	view := viewport.New()
	c := NewController(&view)
	if n := c.HitTest(0, 0); n != nil {
		t.Errorf("nil graph HitTest = %v, want nil", n)
	}
}

// =============================================================================
// Click vs Drag
// =============================================================================

func TestClickSelectsNode(t *testing.T) {
	c, _, _ := newTestController(testGraph())

	c.PointerDown(102, 101)
	c.PointerUp(102, 101)

	if c.State.SelectedID != "p1" {
		t.Errorf("SelectedID = %q, want p1", c.State.SelectedID)
	}
}

func TestClickOnEmptySpaceClearsSelection(t *testing.T) {
	c, _, _ := newTestController(testGraph())
	c.State.SelectedID = "p1"

	c.PointerDown(700, 500)
	c.PointerUp(700, 500)

	if c.State.SelectedID != "" {
		t.Errorf("SelectedID = %q, want cleared", c.State.SelectedID)
	}
}

func TestClickSurvivesSlop(t *testing.T) {
	c, _, _ := newTestController(testGraph())

	c.PointerDown(100, 100)
	c.PointerMove(102, 100) // 2px of travel, under the 4px slop
	c.PointerUp(102, 100)

	if c.State.SelectedID != "p1" {
		t.Errorf("small jitter should still click, SelectedID = %q", c.State.SelectedID)
	}
}

func TestDragDoesNotSelect(t *testing.T) {
	c, _, _ := newTestController(testGraph())
	c.State.SelectedID = "v1"

	c.PointerDown(700, 500)
	c.PointerMove(650, 480)
	c.PointerUp(650, 480)

	if c.State.SelectedID != "v1" {
		t.Errorf("drag changed selection to %q", c.State.SelectedID)
	}
}

func TestDragOnEmptySpacePans(t *testing.T) {
	c, view, _ := newTestController(testGraph())

	c.PointerDown(700, 500)
	if !c.State.Dragging {
		t.Fatal("press on empty space should start a drag")
	}
	c.PointerMove(690, 505)
	c.PointerMove(680, 510)
	c.PointerUp(680, 510)

	if view.OffsetX != -20 || view.OffsetY != 10 {
		t.Errorf("offset = (%v,%v), want (-20,10)", view.OffsetX, view.OffsetY)
	}
	if c.State.Dragging {
		t.Error("drag flag should clear on release")
	}
}

func TestPressOnNodeDoesNotPan(t *testing.T) {
	c, view, _ := newTestController(testGraph())

	c.PointerDown(100, 100)
	c.PointerMove(150, 150)
	c.PointerUp(150, 150)

	if view.OffsetX != 0 || view.OffsetY != 0 {
		t.Errorf("press on a node must not pan, offset = (%v,%v)", view.OffsetX, view.OffsetY)
	}
}

// =============================================================================
// Hover
// =============================================================================

func TestHoverSetsConnectedSet(t *testing.T) {
	c, _, clock := newTestController(testGraph())

	*clock = clock.Add(time.Second)
	c.PointerMove(100, 100)

	if c.State.HoveredID != "p1" {
		t.Fatalf("HoveredID = %q, want p1", c.State.HoveredID)
	}
	if !c.State.Connected["a1"] || len(c.State.Connected) != 1 {
		t.Errorf("Connected = %v, want {a1}", c.State.Connected)
	}
}

func TestHoverThrottled(t *testing.T) {
	c, _, clock := newTestController(testGraph())

	*clock = clock.Add(time.Second)
	c.PointerMove(100, 100) // hover p1
	if c.State.HoveredID != "p1" {
		t.Fatalf("HoveredID = %q, want p1", c.State.HoveredID)
	}

	// Move to empty space within the throttle window: state stays stale.
	*clock = clock.Add(5 * time.Millisecond)
	c.PointerMove(700, 500)
	if c.State.HoveredID != "p1" {
		t.Errorf("hover recomputed inside throttle window, got %q", c.State.HoveredID)
	}

	// Past the window it catches up.
	*clock = clock.Add(16 * time.Millisecond)
	c.PointerMove(700, 500)
	if c.State.HoveredID != "" {
		t.Errorf("HoveredID = %q, want cleared", c.State.HoveredID)
	}
	if len(c.State.Connected) != 0 {
		t.Errorf("Connected = %v, want empty", c.State.Connected)
	}
}

// =============================================================================
// Wheel
// =============================================================================

func TestWheelZoomSteps(t *testing.T) {
	c, view, _ := newTestController(testGraph())

	c.Wheel(400, 300, 1)
	if math.Abs(view.Scale-1.1) > 1e-12 {
		t.Errorf("scale after zoom in = %v, want 1.1", view.Scale)
	}
	c.Wheel(400, 300, -1)
	if math.Abs(view.Scale-1) > 1e-12 {
		t.Errorf("scale after in+out = %v, want 1", view.Scale)
	}
}

func TestWheelZeroDeltaIgnored(t *testing.T) {
	c, view, _ := newTestController(testGraph())
	c.Wheel(400, 300, 0)
	if view.Scale != 1 {
		t.Errorf("scale = %v after zero-delta wheel", view.Scale)
	}
}

// =============================================================================
// Search
// =============================================================================

func TestSearchSelectsAndRecenters(t *testing.T) {
	c, view, _ := newTestController(testGraph())

	n, err := c.Search("vaswani")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if n.ID != "a1" || c.State.SelectedID != "a1" {
		t.Errorf("selected %q, want a1", c.State.SelectedID)
	}

	dx, dy := view.WorldToDevice(n.X, n.Y)
	if dx != 400 || dy != 300 {
		t.Errorf("match at device (%v,%v), want canvas center (400,300)", dx, dy)
	}
	if view.Scale != 1 {
		t.Error("recenter must not change scale")
	}
}

func TestSearchMatchesID(t *testing.T) {
	c, _, _ := newTestController(testGraph())
	if _, err := c.Search("V1"); err != nil {
		t.Errorf("search by id should match case-insensitively: %v", err)
	}
}

func TestSearchMissLeavesStateUntouched(t *testing.T) {
	c, view, _ := newTestController(testGraph())
	c.State.SelectedID = "p1"
	before := *view

	_, err := c.Search("nonexistent")
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Fatalf("err = %v, want NODE_NOT_FOUND", err)
	}
	if c.State.SelectedID != "p1" {
		t.Errorf("miss changed selection to %q", c.State.SelectedID)
	}
	if *view != before {
		t.Errorf("miss moved the viewport: %+v", *view)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c, _, _ := newTestController(testGraph())
	if _, err := c.Search("   "); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("blank query err = %v, want NODE_NOT_FOUND", err)
	}
}

func TestSearchNoGraph(t *testing.T) {
	view := viewport.New()
	c := NewController(&view)
	if _, err := c.Search("anything"); !errors.Is(err, errors.ErrCodeNoGraph) {
		t.Errorf("err = %v, want NO_GRAPH", err)
	}
}

func TestSetGraphClearsState(t *testing.T) {
	c, _, clock := newTestController(testGraph())

	*clock = clock.Add(time.Second)
	c.PointerMove(100, 100)
	c.PointerDown(102, 101)
	c.PointerUp(102, 101)

	c.SetGraph(testGraph())
	if c.State.SelectedID != "" || c.State.HoveredID != "" || len(c.State.Connected) != 0 {
		t.Errorf("state survived graph switch: %+v", c.State)
	}
}
