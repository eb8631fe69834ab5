// Package interact translates pointer, wheel, and search input into
// viewport and selection-state mutations. It owns hit-testing: device
// pointer positions are inverted through the viewport transform and
// matched against node centers within a fixed hit radius that shrinks
// with zoom, mirroring the renderer's inverse-scaling convention.
//
// Pan tracks the pointer exactly and is never throttled; hover
// recomputation (including the one-hop connected set) is throttled to
// roughly one update per frame. All methods run on the caller's
// goroutine; the package holds no locks and expects the single-threaded
// cooperative event model of the viewer shell.
package interact
