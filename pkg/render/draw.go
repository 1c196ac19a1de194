package render

import (
	"math"
	"strconv"

	"github.com/matzehuels/coursepaper/pkg/diagram"
)

// usable reports whether s can be drawn on. A nil surface or one without
// area is skipped silently.
func usable(s Surface) bool {
	if s == nil {
		return false
	}
	w, h := s.Size()
	return w > 0 && h > 0
}

// DrawGraph paints g onto s: one line and one weight label per edge, then one
// circle, id and label per node. Edges with unknown endpoints fail validation
// and nothing is drawn.
func DrawGraph(s Surface, g diagram.Graph) error {
	if !usable(s) {
		return nil
	}
	if err := g.Validate(); err != nil {
		return err
	}

	s.Clear()

	for _, e := range g.Edges {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		a, b := Point{from.X, from.Y}, Point{to.X, to.Y}

		s.Line(a, b, EdgeStroke(e.Highlight))

		mid := a.Mid(b)
		s.Text(WeightLabel(e.Weight, g.Unit), Point{mid.X + weightOffsetX, mid.Y + weightOffsetY}, weightFont)
	}

	for _, n := range g.Nodes {
		c := Point{n.X, n.Y}
		s.Circle(c, NodeRadius, Accent, Stroke{Color: White, Width: nodeBorder})
		s.Text(n.ID, c, nodeIDFont)
		s.Text(n.Label, Point{n.X, n.Y + nodeLabelOffset}, labelFont)
	}
	return nil
}

// WeightLabel formats an edge weight with its unit, e.g. "4 км".
func WeightLabel(w float64, unit string) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// DrawNetwork paints n onto s. Critical connections are drawn in the accent
// colour with an arrowhead touching the target circle. Every activity has an
// accent border; milestones are also filled with it.
func DrawNetwork(s Surface, n diagram.Network) error {
	if !usable(s) {
		return nil
	}
	if err := n.Validate(); err != nil {
		return err
	}

	s.Clear()

	for _, c := range n.Connections {
		from, _ := n.Activity(c.From)
		to, _ := n.Activity(c.To)
		a, b := Point{from.X, from.Y}, Point{to.X, to.Y}

		s.Line(a, b, EdgeStroke(c.Critical))
		if c.Critical {
			s.Polygon(Arrowhead(a, b, ActivityRadius), Accent)
		}
		if c.Label != "" {
			mid := a.Mid(b)
			s.Text(c.Label, Point{mid.X, mid.Y + linkLabelLift}, linkFont)
		}
	}

	for _, a := range n.Activities {
		fill, text := White, Ink
		if a.Milestone {
			fill, text = Accent, White
		}
		c := Point{a.X, a.Y}
		s.Circle(c, ActivityRadius, fill, Stroke{Color: Accent, Width: activityBorder})

		f := activityFont
		f.Color = text
		s.Text(a.Label, c, f)
	}
	return nil
}

// Arrowhead returns the triangle for a link from a to b whose tip rests on a
// circle of radius r around b.
func Arrowhead(a, b Point, r float64) []Point {
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	tip := Point{X: b.X - r*math.Cos(angle), Y: b.Y - r*math.Sin(angle)}
	return []Point{
		tip,
		{X: tip.X - arrowSize*math.Cos(angle-arrowSpread), Y: tip.Y - arrowSize*math.Sin(angle-arrowSpread)},
		{X: tip.X - arrowSize*math.Cos(angle+arrowSpread), Y: tip.Y - arrowSize*math.Sin(angle+arrowSpread)},
	}
}
