// Package pkg provides the core libraries for citescope knowledge-graph
// visualization.
//
// # Overview
//
// Citescope takes fully materialized citation knowledge graphs (papers,
// authors, venues, fields, references) and turns them into interactive
// or static pictures. The pkg directory is organized around the data
// flow:
//
//	JSON graph records
//	         ↓
//	    [graph] package (normalize into typed nodes and edges)
//	         ↓
//	    [layout] package (deterministic force-directed placement)
//	         ↓
//	    [viewport] / [render] packages (affine mapping + canvas frames)
//	         ↓
//	    [viewer] package or PNG/DOT export
//
// # Main Packages
//
// [graph] - The typed knowledge-graph model plus the adapter from the
// wire JSON format. Malformed edges are kept but skipped by consumers.
//
// [layout] - The force simulation: hash-seeded placement, a fixed
// relaxation budget, and bounded collision resolution. Identical input
// always produces identical positions.
//
// [viewport] - The world-to-device affine transform: pan, anchored
// zoom, and fit-to-bounds.
//
// [render] - Frame drawing onto a raster canvas: glass-morphic node
// disks, directed edges with flow particles, label chips, and PNG
// export. [render/dot] exports Graphviz diagrams instead.
//
// [interact] - Hit-testing and the pointer/search event model that
// mutates viewport and selection state.
//
// [anim] - The frame scheduler driving edge-particle animation.
//
// [cache] - Layout position caching (file, redis, or null backend).
//
// [config], [errors], [observability] - TOML configuration, coded
// errors, and optional instrumentation hooks.
//
// # Quick Start
//
// Lay out and render a graph file:
//
//	graphs, _ := graph.ReadGraphsFile("citations.json")
//	g := graphs[0]
//	layout.Run(ctx, g, layout.DefaultOptions(1280, 800))
//
//	var view viewport.Transform
//	view.FitToBounds(g, 1280, 800, 40)
//
//	r, _ := render.New(render.DefaultTheme())
//	dc := gg.NewContext(1280, 800)
//	r.Draw(dc, g, nil, view, 0)
//
// [graph]: https://pkg.go.dev/github.com/citescope/citescope/pkg/graph
// [layout]: https://pkg.go.dev/github.com/citescope/citescope/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/citescope/citescope/pkg/viewport
// [render]: https://pkg.go.dev/github.com/citescope/citescope/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/citescope/citescope/pkg/render/dot
// [interact]: https://pkg.go.dev/github.com/citescope/citescope/pkg/interact
// [anim]: https://pkg.go.dev/github.com/citescope/citescope/pkg/anim
// [cache]: https://pkg.go.dev/github.com/citescope/citescope/pkg/cache
// [viewer]: https://pkg.go.dev/github.com/citescope/citescope/pkg/viewer
// [config]: https://pkg.go.dev/github.com/citescope/citescope/pkg/config
// [errors]: https://pkg.go.dev/github.com/citescope/citescope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/citescope/citescope/pkg/observability
package pkg
