// Package viewport implements the affine mapping between world
// coordinates (where the layout engine places nodes) and device-pixel
// coordinates (where the canvas draws). The invariant throughout is
//
//	device = world*Scale + Offset
//
// and every operation preserves exact invertibility of that mapping.
package viewport

import (
	"math"

	"github.com/citescope/citescope/pkg/graph"
)

// Transform is a uniform scale plus translation. Scale is always
// positive; neither scale nor offset is range-clamped here - pan and zoom
// are unbounded by design, and any usability limits belong to the input
// layer.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// New returns the identity transform.
func New() Transform {
	return Transform{Scale: 1}
}

// WorldToDevice maps a world point to device pixels.
func (t Transform) WorldToDevice(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}

// DeviceToWorld maps a device-pixel point back to world coordinates.
// Mutually inverse with WorldToDevice.
func (t Transform) DeviceToWorld(x, y float64) (float64, float64) {
	return (x - t.OffsetX) / t.Scale, (y - t.OffsetY) / t.Scale
}

// Pan shifts the offset by a raw device-pixel delta.
func (t *Transform) Pan(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// ZoomAt multiplies the scale by factor while keeping the world point
// under the given device point stationary: the pixel under the cursor
// must not jump. Non-positive factors are ignored.
func (t *Transform) ZoomAt(deviceX, deviceY, factor float64) {
	if factor <= 0 {
		return
	}
	wx, wy := t.DeviceToWorld(deviceX, deviceY)
	t.Scale *= factor
	t.OffsetX = deviceX - wx*t.Scale
	t.OffsetY = deviceY - wy*t.Scale
}

// CenterOn positions the offset so that the given world point maps to the
// given device point at the current scale.
func (t *Transform) CenterOn(worldX, worldY, deviceX, deviceY float64) {
	t.OffsetX = deviceX - worldX*t.Scale
	t.OffsetY = deviceY - worldY*t.Scale
}

// FitToBounds computes the minimal scale (capped at 1.0, never zooming in
// past native size) that fits the node bounding box plus padding into a
// width x height canvas, and centers it. An empty graph resets to
// identity.
func (t *Transform) FitToBounds(g *graph.Graph, width, height, padding float64) {
	minX, minY, maxX, maxY, ok := g.Bounds()
	if !ok {
		*t = New()
		return
	}

	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	spanX := maxX - minX
	spanY := maxY - minY

	scale := 1.0
	if spanX > 0 && spanY > 0 {
		scale = math.Min(width/spanX, height/spanY)
	}
	scale = math.Min(scale, 1.0)

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2

	t.Scale = scale
	t.OffsetX = width/2 - cx*scale
	t.OffsetY = height/2 - cy*scale
}
