package graph

import (
	"bytes"
	"strings"
	"testing"
)

const singleRecordJSON = `{
	"id": "g1",
	"tool_name": "search_papers",
	"query": "graph layout",
	"nodes": [
		{"id": "p1", "label": "Paper One", "properties": {"type": "paper", "year": 2021}},
		{"id": "a1", "label": "Ada Lovelace", "properties": {"type": "author"}}
	],
	"edges": [
		{"source": "a1", "target": "p1", "relation": "authored"}
	]
}`

func TestReadGraphsSingleObject(t *testing.T) {
	graphs, err := ReadGraphs(strings.NewReader(singleRecordJSON))
	if err != nil {
		t.Fatalf("ReadGraphs: %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("got %d graphs, want 1", len(graphs))
	}
	g := graphs[0]
	if g.ToolName != "search_papers" || g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph = %s: %d nodes, %d edges", g.ToolName, g.NodeCount(), g.EdgeCount())
	}
	if pd, ok := g.Node("p1").Detail.(PaperDetail); !ok || pd.Year != 2021 {
		t.Errorf("p1 detail = %+v", g.Node("p1").Detail)
	}
}

func TestReadGraphsArray(t *testing.T) {
	data := "[\n" + singleRecordJSON + ",\n" + singleRecordJSON + "\n]"
	graphs, err := ReadGraphs(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraphs: %v", err)
	}
	if len(graphs) != 2 {
		t.Fatalf("got %d graphs, want 2", len(graphs))
	}
}

func TestReadGraphsLeadingWhitespace(t *testing.T) {
	data := "\n\t [" + singleRecordJSON + "]"
	graphs, err := ReadGraphs(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraphs: %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("got %d graphs, want 1", len(graphs))
	}
}

func TestReadGraphsMalformed(t *testing.T) {
	if _, err := ReadGraphs(strings.NewReader("{not json")); err == nil {
		t.Error("malformed input should error")
	}
}

func TestMarshalRecordDeterministic(t *testing.T) {
	graphs, err := ReadGraphs(strings.NewReader(singleRecordJSON))
	if err != nil {
		t.Fatalf("ReadGraphs: %v", err)
	}
	g := graphs[0]

	a, err := MarshalRecord(g)
	if err != nil {
		t.Fatalf("MarshalRecord: %v", err)
	}
	b, err := MarshalRecord(g)
	if err != nil {
		t.Fatalf("MarshalRecord: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("MarshalRecord output should be byte-stable")
	}
}
