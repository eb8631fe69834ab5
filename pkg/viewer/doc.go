// Package viewer hosts the visualization core in an ebiten window. It is
// the thin shell the design calls for: the layout engine, renderer,
// viewport, and interaction controller stay pure, and this package only
// wires display frames and input events into them.
//
// Events and frames arrive on ebiten's game loop goroutine, one at a
// time, which provides the single-threaded cooperative model the core
// assumes: no locks, every event runs to completion before the next.
//
// # Controls
//
//	drag          pan (empty space)
//	wheel         zoom at cursor
//	click         select / clear
//	/             search (enter to run, esc to cancel)
//	tab           next graph, shift+tab previous
//	f             fit graph to window
//	s             export PNG
//	q / esc       quit
package viewer
