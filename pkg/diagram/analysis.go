package diagram

import (
	"math"
	"slices"

	"github.com/matzehuels/coursepaper/pkg/errors"
)

// Path is a route through the transport graph.
type Path struct {
	Nodes  []string `json:"nodes"`
	Length float64  `json:"length"`
}

// ShortestPath runs Dijkstra's algorithm over the directed edges of g and
// returns a minimum-length route from src to dst. When several routes tie,
// the one discovered first in edge declaration order wins.
func ShortestPath(g Graph, src, dst string) (Path, error) {
	if err := g.Validate(); err != nil {
		return Path{}, err
	}
	if _, ok := g.Node(src); !ok {
		return Path{}, errors.New(errors.ErrCodeNotFound, "unknown node %q", src)
	}
	if _, ok := g.Node(dst); !ok {
		return Path{}, errors.New(errors.ErrCodeNotFound, "unknown node %q", dst)
	}

	dist := make(map[string]float64, len(g.Nodes))
	prev := make(map[string]string, len(g.Nodes))
	done := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		dist[n.ID] = math.Inf(1)
	}
	dist[src] = 0

	for {
		u, best := "", math.Inf(1)
		for _, n := range g.Nodes {
			if !done[n.ID] && dist[n.ID] < best {
				u, best = n.ID, dist[n.ID]
			}
		}
		if u == "" || u == dst {
			break
		}
		done[u] = true
		for _, e := range g.Edges {
			if e.From != u || done[e.To] {
				continue
			}
			if d := dist[u] + e.Weight; d < dist[e.To] {
				dist[e.To] = d
				prev[e.To] = u
			}
		}
	}

	if math.IsInf(dist[dst], 1) {
		return Path{}, errors.New(errors.ErrCodeNotFound, "no route from %q to %q", src, dst)
	}

	nodes := []string{dst}
	for at := dst; at != src; {
		at = prev[at]
		nodes = append(nodes, at)
	}
	slices.Reverse(nodes)
	return Path{Nodes: nodes, Length: dist[dst]}, nil
}

// HighlightedRoute follows highlighted edges from src and returns the route
// they trace. It fails if the highlighted edges branch or do not reach dst.
func HighlightedRoute(g Graph, src, dst string) (Path, error) {
	next := make(map[string]Edge)
	for _, e := range g.HighlightedEdges() {
		if _, dup := next[e.From]; dup {
			return Path{}, errors.New(errors.ErrCodeInvalidInput, "highlighted edges branch at %q", e.From)
		}
		next[e.From] = e
	}

	p := Path{Nodes: []string{src}}
	for at := src; at != dst; {
		e, ok := next[at]
		if !ok {
			return Path{}, errors.New(errors.ErrCodeInvalidInput, "highlighted route stops at %q before %q", at, dst)
		}
		if len(p.Nodes) > len(g.Nodes) {
			return Path{}, errors.New(errors.ErrCodeInvalidInput, "highlighted route loops")
		}
		p.Nodes = append(p.Nodes, e.To)
		p.Length += e.Weight
		at = e.To
	}
	return p, nil
}

// Schedule is the result of a critical path analysis. Times are in the unit
// of the durations passed to CriticalPath.
type Schedule struct {
	EarlyStart map[int]float64 `json:"early_start"`
	LateStart  map[int]float64 `json:"late_start"`
	Slack      map[int]float64 `json:"slack"`
	Length     float64         `json:"length"`
	Path       []int           `json:"path"`
}

// CriticalPath performs the forward and backward passes of the critical path
// method over n, where durations gives each activity's duration. Activities
// missing from durations take no time.
func CriticalPath(n Network, durations map[int]float64) (Schedule, error) {
	if err := n.Validate(); err != nil {
		return Schedule{}, err
	}
	order, err := topoOrder(n)
	if err != nil {
		return Schedule{}, err
	}

	preds := make(map[int][]int)
	succs := make(map[int][]int)
	for _, c := range n.Connections {
		preds[c.To] = append(preds[c.To], c.From)
		succs[c.From] = append(succs[c.From], c.To)
	}

	s := Schedule{
		EarlyStart: make(map[int]float64, len(order)),
		LateStart:  make(map[int]float64, len(order)),
		Slack:      make(map[int]float64, len(order)),
	}

	for _, id := range order {
		es := 0.0
		for _, p := range preds[id] {
			es = math.Max(es, s.EarlyStart[p]+durations[p])
		}
		s.EarlyStart[id] = es
		s.Length = math.Max(s.Length, es+durations[id])
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		lf := s.Length
		for _, c := range succs[id] {
			lf = math.Min(lf, s.LateStart[c])
		}
		s.LateStart[id] = lf - durations[id]
		s.Slack[id] = s.LateStart[id] - s.EarlyStart[id]
	}

	for _, id := range order {
		if len(preds[id]) == 0 && s.Slack[id] == 0 {
			s.Path = criticalChain(id, succs, s.Slack)
			break
		}
	}
	return s, nil
}

func criticalChain(start int, succs map[int][]int, slack map[int]float64) []int {
	path := []int{start}
	for at := start; ; {
		next, found := 0, false
		for _, c := range succs[at] {
			if slack[c] == 0 {
				next, found = c, true
				break
			}
		}
		if !found {
			return path
		}
		path = append(path, next)
		at = next
	}
}

// topoOrder returns activity ids in dependency order (Kahn's algorithm),
// keeping declaration order among ready activities.
func topoOrder(n Network) ([]int, error) {
	indeg := make(map[int]int, len(n.Activities))
	for _, c := range n.Connections {
		indeg[c.To]++
	}

	var order []int
	placed := make(map[int]bool, len(n.Activities))
	for len(order) < len(n.Activities) {
		progressed := false
		for _, a := range n.Activities {
			if placed[a.ID] || indeg[a.ID] > 0 {
				continue
			}
			placed[a.ID] = true
			order = append(order, a.ID)
			progressed = true
			for _, c := range n.Connections {
				if c.From == a.ID {
					indeg[c.To]--
				}
			}
		}
		if !progressed {
			return nil, errors.New(errors.ErrCodeInvalidInput, "network contains a cycle")
		}
	}
	return order, nil
}

// CriticalConnections returns the connections flagged Critical, in declaration order.
func (n Network) CriticalConnections() []Connection {
	var out []Connection
	for _, c := range n.Connections {
		if c.Critical {
			out = append(out, c)
		}
	}
	return out
}
