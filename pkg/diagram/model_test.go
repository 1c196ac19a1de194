package diagram

import (
	"testing"

	"github.com/matzehuels/coursepaper/pkg/errors"
)

func TestFixturesValidate(t *testing.T) {
	if err := TransportGraph().Validate(); err != nil {
		t.Errorf("TransportGraph().Validate() = %v", err)
	}
	if err := ProjectNetwork().Validate(); err != nil {
		t.Errorf("ProjectNetwork().Validate() = %v", err)
	}
}

func TestFixturesAreFreshCopies(t *testing.T) {
	g := TransportGraph()
	g.Nodes[0].Label = "changed"
	g.Edges[0].Highlight = true

	fresh := TransportGraph()
	if fresh.Nodes[0].Label != "Склад А" {
		t.Errorf("fixture node mutated: %q", fresh.Nodes[0].Label)
	}
	if fresh.Edges[0].Highlight {
		t.Error("fixture edge mutated")
	}
}

func TestGraphValidate(t *testing.T) {
	nodes := []Node{{ID: "A"}, {ID: "B"}}
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"valid", Graph{Nodes: nodes, Edges: []Edge{{From: "A", To: "B", Weight: 1}}}, false},
		{"no edges", Graph{Nodes: nodes}, false},
		{"empty", Graph{}, false},
		{"unknown source", Graph{Nodes: nodes, Edges: []Edge{{From: "X", To: "B"}}}, true},
		{"unknown destination", Graph{Nodes: nodes, Edges: []Edge{{From: "A", To: "X"}}}, true},
		{"duplicate id", Graph{Nodes: []Node{{ID: "A"}, {ID: "A"}}}, true},
		{"empty id", Graph{Nodes: []Node{{ID: ""}}}, true},
		{"negative weight", Graph{Nodes: nodes, Edges: []Edge{{From: "A", To: "B", Weight: -1}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestNetworkValidate(t *testing.T) {
	acts := []Activity{{ID: 1}, {ID: 2}}
	tests := []struct {
		name    string
		n       Network
		wantErr bool
	}{
		{"valid", Network{Activities: acts, Connections: []Connection{{From: 1, To: 2}}}, false},
		{"unknown source", Network{Activities: acts, Connections: []Connection{{From: 9, To: 2}}}, true},
		{"unknown destination", Network{Activities: acts, Connections: []Connection{{From: 1, To: 9}}}, true},
		{"duplicate id", Network{Activities: []Activity{{ID: 1}, {ID: 1}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.n.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	g := TransportGraph()
	if n, ok := g.Node("E"); !ok || n.Label != "Клиент" {
		t.Errorf("Node(E) = %+v, %v", n, ok)
	}
	if _, ok := g.Node("Z"); ok {
		t.Error("Node(Z) should not exist")
	}

	n := ProjectNetwork()
	if a, ok := n.Activity(5); !ok || a.Label != "Финиш" || !a.Milestone {
		t.Errorf("Activity(5) = %+v, %v", a, ok)
	}
	if _, ok := n.Activity(42); ok {
		t.Error("Activity(42) should not exist")
	}
}

func TestHighlightedAndCritical(t *testing.T) {
	if got := len(TransportGraph().HighlightedEdges()); got != 3 {
		t.Errorf("HighlightedEdges() = %d, want 3", got)
	}
	if got := len(ProjectNetwork().CriticalConnections()); got != 3 {
		t.Errorf("CriticalConnections() = %d, want 3", got)
	}
}
