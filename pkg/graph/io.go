package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph File API
// =============================================================================

// ReadGraphsFile reads a JSON file holding either a single graph record or
// an array of them and returns the normalized graphs.
func ReadGraphsFile(path string) ([]*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraphs(f)
}

// ReadGraphs decodes graph records from an io.Reader. A leading '[' marks
// an array of records; anything else is decoded as a single record.
func ReadGraphs(r io.Reader) ([]*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		graphs := make([]*Graph, 0, len(records))
		for _, rec := range records {
			graphs = append(graphs, FromRecord(rec))
		}
		return graphs, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return []*Graph{FromRecord(rec)}, nil
}

// MarshalRecord serializes a graph back into its wire record form.
// Used for content hashing by the layout cache; output is deterministic
// for a given graph.
func MarshalRecord(g *Graph) ([]byte, error) {
	rec := Record{
		ID:        g.ID,
		ToolName:  g.ToolName,
		Query:     g.Query,
		CreatedAt: g.CreatedAt,
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Nodes:     make([]NodeRecord, 0, len(g.Nodes)),
		Edges:     make([]EdgeRecord, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		rec.Nodes = append(rec.Nodes, NodeRecord{
			ID:         n.ID,
			Label:      n.Label,
			Properties: map[string]any{"type": n.Type.String()},
		})
	}
	for _, e := range g.Edges {
		rec.Edges = append(rec.Edges, EdgeRecord{
			Source:   e.Source,
			Target:   e.Target,
			Relation: e.Relation,
		})
	}
	return json.Marshal(rec)
}
