package render

import (
	"github.com/matzehuels/coursepaper/pkg/diagram"
	"github.com/matzehuels/coursepaper/pkg/errors"
)

// Diagram is a named figure of the paper. Exactly one of Graph and Network is set.
type Diagram struct {
	Name    string
	Caption string
	Note    string
	Graph   *diagram.Graph
	Network *diagram.Network
}

// Draw paints the figure onto s.
func (d Diagram) Draw(s Surface) error {
	switch {
	case d.Graph != nil:
		return DrawGraph(s, *d.Graph)
	case d.Network != nil:
		return DrawNetwork(s, *d.Network)
	}
	return errors.New(errors.ErrCodeInternal, "diagram %q has no data", d.Name)
}

// Names of the registered figures.
const (
	Transport = "transport"
	Project   = "project"
)

// Names returns the registered diagram names in figure order.
func Names() []string {
	return []string{Transport, Project}
}

// Lookup returns the named figure, built from fresh fixture data.
func Lookup(name string) (Diagram, error) {
	switch name {
	case Transport:
		g := diagram.TransportGraph()
		return Diagram{
			Name:    Transport,
			Caption: "Рисунок 1. Графовая модель транспортной сети",
			Note:    "Синим цветом выделен кратчайший путь",
			Graph:   &g,
		}, nil
	case Project:
		n := diagram.ProjectNetwork()
		return Diagram{
			Name:    Project,
			Caption: "Рисунок 2. Сетевая модель проекта",
			Note:    "Синим цветом выделен критический путь",
			Network: &n,
		}, nil
	}
	return Diagram{}, errors.New(errors.ErrCodeDiagramNotFound, "unknown diagram %q", name)
}

// All returns every registered figure in order.
func All() []Diagram {
	out := make([]Diagram, 0, len(Names()))
	for _, name := range Names() {
		d, _ := Lookup(name)
		out = append(out, d)
	}
	return out
}
