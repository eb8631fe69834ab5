package interact

import (
	"math"
	"strings"
	"time"

	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/viewport"
)

const (
	// DefaultHitRadius is the pick distance in device pixels at scale 1.
	DefaultHitRadius = 18.0

	// DefaultZoomStep is the per-wheel-tick scale factor. Multiplying and
	// dividing by the same step makes a zoom-in/zoom-out pair self-inverse.
	DefaultZoomStep = 1.1

	// hoverThrottle bounds hover recomputation to about once per frame.
	hoverThrottle = 16 * time.Millisecond

	// clickSlop is the max pointer travel in device pixels for a
	// press/release pair to still count as a click.
	clickSlop = 4.0
)

// State is the transient interaction state read by the renderer each
// frame. It is discarded when the viewer closes.
type State struct {
	HoveredID  string
	SelectedID string

	// Connected is the one-hop adjacency set of the hovered node.
	// Empty (never nil) when nothing is hovered.
	Connected map[string]bool

	Dragging bool
}

// Controller owns hit-testing and translates input events into mutations
// of the viewport transform and State. It is not safe for concurrent use;
// the viewer shell delivers events sequentially.
type Controller struct {
	State State

	HitRadius float64
	ZoomStep  float64

	graph *graph.Graph
	view  *viewport.Transform

	width, height float64

	pressed      bool
	pressX       float64
	pressY       float64
	lastX, lastY float64
	moved        float64

	lastHover time.Time
	now       func() time.Time
}

// NewController creates a controller bound to a viewport transform. The
// graph may be nil (no active graph); every event is then a no-op.
func NewController(view *viewport.Transform) *Controller {
	return &Controller{
		State:     State{Connected: map[string]bool{}},
		HitRadius: DefaultHitRadius,
		ZoomStep:  DefaultZoomStep,
		view:      view,
		now:       time.Now,
	}
}

// SetGraph switches the active graph and clears all transient state.
func (c *Controller) SetGraph(g *graph.Graph) {
	c.graph = g
	c.State = State{Connected: map[string]bool{}}
	c.pressed = false
	c.moved = 0
}

// Resize records the canvas size used for recentering on search hits.
func (c *Controller) Resize(width, height float64) {
	c.width = width
	c.height = height
}

// =============================================================================
// Hit Testing
// =============================================================================

// HitTest returns the first node (declaration order) whose center lies
// within the hit radius of the device-pixel point, or nil. The radius is
// divided by the current scale so picking matches what is drawn.
func (c *Controller) HitTest(deviceX, deviceY float64) *graph.Node {
	if c.graph == nil {
		return nil
	}
	wx, wy := c.view.DeviceToWorld(deviceX, deviceY)
	radius := c.HitRadius / c.view.Scale

	for _, n := range c.graph.Nodes {
		if math.Hypot(n.X-wx, n.Y-wy) <= radius {
			return n
		}
	}
	return nil
}

// =============================================================================
// Pointer Events
// =============================================================================

// PointerDown begins a potential pan (on empty space) or click (on a
// node).
func (c *Controller) PointerDown(x, y float64) {
	if c.graph == nil {
		return
	}
	c.pressed = true
	c.pressX, c.pressY = x, y
	c.lastX, c.lastY = x, y
	c.moved = 0

	if c.HitTest(x, y) == nil {
		c.State.Dragging = true
	}
}

// PointerMove pans when a drag is active (unthrottled, tracking the raw
// pointer delta exactly) and otherwise updates hover state at most once
// per throttle interval.
func (c *Controller) PointerMove(x, y float64) {
	if c.graph == nil {
		return
	}

	if c.pressed {
		dx, dy := x-c.lastX, y-c.lastY
		c.moved += math.Hypot(dx, dy)
		if c.State.Dragging {
			c.view.Pan(dx, dy)
		}
		c.lastX, c.lastY = x, y
		return
	}

	if now := c.now(); now.Sub(c.lastHover) >= hoverThrottle {
		c.lastHover = now
		c.updateHover(x, y)
	}
}

// PointerUp ends a drag; if the pointer barely moved, the gesture is a
// click: select the hit node or clear the selection on a miss.
func (c *Controller) PointerUp(x, y float64) {
	if c.graph == nil {
		return
	}
	c.pressed = false
	c.State.Dragging = false

	if c.moved > clickSlop {
		return
	}

	if n := c.HitTest(x, y); n != nil {
		c.State.SelectedID = n.ID
	} else {
		c.State.SelectedID = ""
	}
}

// Wheel zooms by one step per tick, anchored at the cursor position.
// Positive dy zooms in.
func (c *Controller) Wheel(x, y, dy float64) {
	if c.graph == nil || dy == 0 {
		return
	}
	factor := c.ZoomStep
	if dy < 0 {
		factor = 1 / c.ZoomStep
	}
	c.view.ZoomAt(x, y, factor)
}

// updateHover recomputes the hovered node and its one-hop connected set.
func (c *Controller) updateHover(x, y float64) {
	n := c.HitTest(x, y)
	if n == nil {
		c.State.HoveredID = ""
		c.State.Connected = map[string]bool{}
		return
	}
	if n.ID == c.State.HoveredID {
		return
	}
	c.State.HoveredID = n.ID
	c.State.Connected = c.graph.Neighbors(n.ID)
}

// =============================================================================
// Search
// =============================================================================

// Search scans node labels and IDs for a case-insensitive substring
// match in declaration order. The first match is selected and the
// viewport recenters on it at the current scale. A miss returns a
// NODE_NOT_FOUND error for the caller to surface as a notice; state is
// left unchanged.
func (c *Controller) Search(query string) (*graph.Node, error) {
	if c.graph == nil {
		return nil, errors.New(errors.ErrCodeNoGraph, "no active graph")
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "empty query")
	}

	for _, n := range c.graph.Nodes {
		if strings.Contains(strings.ToLower(n.Label), q) ||
			strings.Contains(strings.ToLower(n.ID), q) {
			c.State.SelectedID = n.ID
			c.view.CenterOn(n.X, n.Y, c.width/2, c.height/2)
			return n, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNodeNotFound, "no node matches %q", query)
}
