package graph

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Wire Records
// =============================================================================

// Record is the externally supplied graph format. It arrives fully
// materialized from the hosting application and is never mutated in place.
type Record struct {
	ID        string       `json:"id"`
	ToolName  string       `json:"tool_name"`
	Query     string       `json:"query"`
	CreatedAt time.Time    `json:"created_at"`
	NodeCount int          `json:"node_count"`
	EdgeCount int          `json:"edge_count"`
	Nodes     []NodeRecord `json:"nodes"`
	Edges     []EdgeRecord `json:"edges"`
}

// NodeRecord is a raw node with an open property bag. The node type is
// carried in properties under the "type" key.
type NodeRecord struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// EdgeRecord is a raw directed edge.
type EdgeRecord struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties,omitempty"`
}

// =============================================================================
// Normalization
// =============================================================================

// FromRecord normalizes a raw record into a typed Graph. Missing graph IDs
// are filled with a UUID so every graph is addressable. Node and edge
// declaration order is preserved; it is the tie-break order for
// hit-testing and the iteration order of the layout engine, so
// normalization must stay deterministic apart from the generated ID.
func FromRecord(r Record) *Graph {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}

	g := &Graph{
		ID:        id,
		ToolName:  r.ToolName,
		Query:     r.Query,
		CreatedAt: r.CreatedAt,
		Nodes:     make([]*Node, 0, len(r.Nodes)),
		Edges:     make([]Edge, 0, len(r.Edges)),
	}

	for _, nr := range r.Nodes {
		if nr.ID == "" {
			continue
		}
		t := ParseNodeType(propString(nr.Properties, "type"))
		g.Nodes = append(g.Nodes, &Node{
			ID:     nr.ID,
			Label:  nr.Label,
			Type:   t,
			Detail: detailFor(t, nr.Properties),
		})
	}

	for _, er := range r.Edges {
		if er.Source == "" || er.Target == "" {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			Source:   er.Source,
			Target:   er.Target,
			Relation: er.Relation,
		})
	}

	g.reindex()
	return g
}

// detailFor decodes the property bag into the typed variant for t.
// Unknown types keep the raw map so no information is lost.
func detailFor(t NodeType, props map[string]any) Detail {
	switch t {
	case NodeTypePaper:
		return PaperDetail{
			Year:      propInt(props, "year"),
			Citations: propInt(props, "citations"),
			Venue:     propString(props, "venue"),
			DOI:       propString(props, "doi"),
		}
	case NodeTypeAuthor:
		return AuthorDetail{
			Affiliation: propString(props, "affiliation"),
			PaperCount:  propInt(props, "paper_count"),
		}
	case NodeTypeVenue:
		return VenueDetail{Kind: propString(props, "kind")}
	case NodeTypeField:
		return FieldDetail{ParentField: propString(props, "parent")}
	case NodeTypeReference:
		return ReferenceDetail{Year: propInt(props, "year")}
	default:
		return UnknownDetail{Props: props}
	}
}

func propString(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

// propInt tolerates the float64 that encoding/json produces for numbers.
func propInt(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
