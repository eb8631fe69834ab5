// Package graph defines the knowledge-graph data model used throughout
// citescope: typed nodes with per-type physical profiles, directed edges
// with relation labels, and the adapter that normalizes externally
// supplied graph records into this model.
//
// # Node Types
//
// Nodes carry a closed [NodeType] enum (paper, author, venue, field,
// reference) plus an unknown variant. Each type maps to a [Profile] that
// governs the node's behavior in the force simulation: heavier types
// resist displacement and settle centrally, and per-type minimum
// separation keeps dense clusters readable.
//
// # Typed Details
//
// The open property bag of the input format is modeled as a tagged union:
// known types decode a small set of typed fields ([PaperDetail],
// [AuthorDetail], ...), while [UnknownDetail] preserves the raw
// string-keyed map for forward compatibility.
//
// # Malformed Edges
//
// Edges whose endpoints do not resolve to a known node are kept in the
// model but skipped by every consumer (adjacency, layout, rendering).
// They are never an error; visualization is best-effort by design.
package graph
