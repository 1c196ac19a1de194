package diagram

import (
	"github.com/matzehuels/coursepaper/pkg/errors"
)

// Node is a labelled vertex of the transport graph.
type Node struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Edge is a weighted connection between two nodes. Highlight marks the edge
// as part of the highlighted route.
type Edge struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Weight    float64 `json:"weight"`
	Highlight bool    `json:"highlight,omitempty"`
}

// Graph is the transport network of Рисунок 1.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	// Unit is appended to every weight label ("км").
	Unit string `json:"unit,omitempty"`
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Validate checks that node ids are unique and non-empty and that every edge
// references existing nodes.
func (g Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: unknown source %q", e.From, e.To, e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: unknown destination %q", e.From, e.To, e.To)
		}
		if e.Weight < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: negative weight %g", e.From, e.To, e.Weight)
		}
	}
	return nil
}

// HighlightedEdges returns the edges flagged Highlight, in declaration order.
func (g Graph) HighlightedEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Highlight {
			out = append(out, e)
		}
	}
	return out
}

// Activity is an event node of the project network.
type Activity struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	// Critical marks the activity as lying on the critical path.
	Critical bool `json:"critical,omitempty"`
	// Milestone marks the start and finish events.
	Milestone bool `json:"milestone,omitempty"`
}

// Connection is a directed link between two activities.
type Connection struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Label    string `json:"label,omitempty"`
	Critical bool   `json:"critical,omitempty"`
}

// Network is the project network of Рисунок 2.
type Network struct {
	Activities  []Activity   `json:"activities"`
	Connections []Connection `json:"connections"`
}

// Activity returns the activity with the given id.
func (n Network) Activity(id int) (Activity, bool) {
	for _, a := range n.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks that activity ids are unique and that every connection
// references existing activities.
func (n Network) Validate() error {
	seen := make(map[int]struct{}, len(n.Activities))
	for _, a := range n.Activities {
		if _, dup := seen[a.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate activity id %d", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	for _, c := range n.Connections {
		if _, ok := seen[c.From]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "connection %d->%d: unknown source %d", c.From, c.To, c.From)
		}
		if _, ok := seen[c.To]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "connection %d->%d: unknown destination %d", c.From, c.To, c.To)
		}
	}
	return nil
}
