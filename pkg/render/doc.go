// Package render draws one frame of the knowledge-graph canvas.
//
// The renderer is a pure function of (graph, interaction state, viewport
// transform, animation time): it mutates nothing but the drawing surface
// and is safe to call once per display frame. World coordinates are
// mapped through the viewport transform by hand, and every stroke width,
// font size, and radius is divided by the current scale, so elements stay
// visually constant in device pixels regardless of zoom.
//
// Per frame it draws, in order: background, edges (direction arrowhead,
// optional relation chip, continuously advancing flow particles), then
// nodes (type-colored glass-morphic disk, glow ring for hovered, selected
// or connected nodes, type glyph, label chip). Anything touching the
// hovered node renders in a brighter highlighted style with denser,
// faster particles.
//
// An absent graph degrades to a cleared background - no error, nothing
// drawn.
package render
