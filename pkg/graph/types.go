package graph

import (
	"time"
)

// =============================================================================
// Node Types - Single Source of Truth
// =============================================================================

// NodeType classifies a node in the knowledge graph.
type NodeType int

const (
	// NodeTypeUnknown is the fallback for unrecognized type strings.
	// Unknown nodes keep their raw property map in [UnknownDetail].
	NodeTypeUnknown NodeType = iota
	// NodeTypePaper represents a publication.
	NodeTypePaper
	// NodeTypeAuthor represents a person.
	NodeTypeAuthor
	// NodeTypeVenue represents a journal or conference.
	NodeTypeVenue
	// NodeTypeField represents a research area.
	NodeTypeField
	// NodeTypeReference represents a cited work outside the result set.
	NodeTypeReference
)

// String returns the canonical lowercase name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeTypePaper:
		return "paper"
	case NodeTypeAuthor:
		return "author"
	case NodeTypeVenue:
		return "venue"
	case NodeTypeField:
		return "field"
	case NodeTypeReference:
		return "reference"
	default:
		return "unknown"
	}
}

// ParseNodeType maps a type string from input properties to a NodeType.
// Unrecognized values map to NodeTypeUnknown, never an error.
func ParseNodeType(s string) NodeType {
	switch s {
	case "paper":
		return NodeTypePaper
	case "author":
		return NodeTypeAuthor
	case "venue":
		return NodeTypeVenue
	case "field":
		return NodeTypeField
	case "reference":
		return NodeTypeReference
	default:
		return NodeTypeUnknown
	}
}

// =============================================================================
// Physical Profiles
// =============================================================================

// Profile holds the simulation parameters derived from a node's type.
// Mass controls displacement resistance, Repulsion scales the pairwise
// push, MinSeparation is the required center distance to any neighbor,
// and VisualRadius is the drawn disk radius in world units.
type Profile struct {
	Mass          float64
	Repulsion     float64
	MinSeparation float64
	VisualRadius  float64
}

// profiles is keyed by NodeType. Papers are the anchors of the layout:
// heaviest, widest separation. Reference nodes are light satellites.
var profiles = map[NodeType]Profile{
	NodeTypePaper:     {Mass: 10, Repulsion: 1400, MinSeparation: 120, VisualRadius: 26},
	NodeTypeAuthor:    {Mass: 6, Repulsion: 1000, MinSeparation: 90, VisualRadius: 20},
	NodeTypeVenue:     {Mass: 8, Repulsion: 1100, MinSeparation: 100, VisualRadius: 22},
	NodeTypeField:     {Mass: 7, Repulsion: 1200, MinSeparation: 110, VisualRadius: 24},
	NodeTypeReference: {Mass: 4, Repulsion: 800, MinSeparation: 70, VisualRadius: 16},
	NodeTypeUnknown:   {Mass: 5, Repulsion: 900, MinSeparation: 80, VisualRadius: 18},
}

// ProfileFor returns the physical profile for a node type.
func ProfileFor(t NodeType) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[NodeTypeUnknown]
}

// =============================================================================
// Typed Details - Tagged Union over the Property Bag
// =============================================================================

// Detail is the typed view of a node's property bag. The concrete type is
// determined by the node's NodeType; unknown types carry the raw map.
type Detail interface{ isDetail() }

// PaperDetail holds typed fields for paper nodes.
type PaperDetail struct {
	Year      int
	Citations int
	Venue     string
	DOI       string
}

// AuthorDetail holds typed fields for author nodes.
type AuthorDetail struct {
	Affiliation string
	PaperCount  int
}

// VenueDetail holds typed fields for venue nodes.
type VenueDetail struct {
	Kind string // "journal", "conference", ...
}

// FieldDetail holds typed fields for field nodes.
type FieldDetail struct {
	ParentField string
}

// ReferenceDetail holds typed fields for reference nodes.
type ReferenceDetail struct {
	Year int
}

// UnknownDetail preserves the raw property map for unrecognized types.
type UnknownDetail struct {
	Props map[string]any
}

func (PaperDetail) isDetail()     {}
func (AuthorDetail) isDetail()    {}
func (VenueDetail) isDetail()     {}
func (FieldDetail) isDetail()     {}
func (ReferenceDetail) isDetail() {}
func (UnknownDetail) isDetail()   {}

// =============================================================================
// Node
// =============================================================================

// Node is a vertex in the knowledge graph. Position and velocity are
// mutated by the layout engine during relaxation and frozen afterward;
// everything else is immutable after adaptation.
type Node struct {
	ID     string
	Label  string
	Type   NodeType
	Detail Detail

	// World-space simulation state.
	X, Y   float64
	VX, VY float64
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Profile returns the physical profile for the node's type.
func (n *Node) Profile() Profile { return ProfileFor(n.Type) }

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed connection between two nodes. Endpoints are node IDs
// and may reference nodes that do not exist; such edges are skipped by
// consumers rather than rejected.
type Edge struct {
	Source   string
	Target   string
	Relation string
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a fully materialized knowledge graph plus its query metadata.
// The zero value is not usable - graphs are built by [FromRecord].
type Graph struct {
	ID        string
	ToolName  string
	Query     string
	CreatedAt time.Time

	Nodes []*Node
	Edges []Edge

	index map[string]*Node
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges, including malformed ones.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *Node { return g.index[id] }

// Neighbors returns the one-hop adjacency set of a node: every node
// connected to it by an edge in either direction. Edges referencing
// nonexistent nodes are skipped. The result is never nil.
func (g *Graph) Neighbors(id string) map[string]bool {
	out := make(map[string]bool)
	for _, e := range g.Edges {
		if g.index[e.Source] == nil || g.index[e.Target] == nil {
			continue
		}
		switch id {
		case e.Source:
			out[e.Target] = true
		case e.Target:
			out[e.Source] = true
		}
	}
	return out
}

// ValidEdges returns edges whose endpoints both resolve to known nodes.
func (g *Graph) ValidEdges() []Edge {
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if g.index[e.Source] != nil && g.index[e.Target] != nil {
			out = append(out, e)
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of all node positions.
// ok is false for an empty graph.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = g.Nodes[0].X, g.Nodes[0].Y
	maxX, maxY = minX, minY
	for _, n := range g.Nodes[1:] {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X)
		maxY = max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY, true
}

// reindex rebuilds the ID lookup. First declaration wins on duplicate IDs
// so hit-testing tie-breaks match list order.
func (g *Graph) reindex() {
	g.index = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, exists := g.index[n.ID]; !exists {
			g.index[n.ID] = n
		}
	}
}
