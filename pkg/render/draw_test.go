package render

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/coursepaper/pkg/diagram"
	"github.com/matzehuels/coursepaper/pkg/errors"
)

func TestDrawGraphCounts(t *testing.T) {
	g := diagram.TransportGraph()
	r := NewRecorder(Width, Height)

	if err := DrawGraph(r, g); err != nil {
		t.Fatalf("DrawGraph: %v", err)
	}

	if got := r.Count(OpLine); got != len(g.Edges) {
		t.Errorf("lines = %d, want %d", got, len(g.Edges))
	}
	if got := r.Count(OpCircle); got != len(g.Nodes) {
		t.Errorf("circles = %d, want %d", got, len(g.Nodes))
	}
	// One weight per edge, id and label per node.
	if got, want := r.Count(OpText), len(g.Edges)+2*len(g.Nodes); got != want {
		t.Errorf("texts = %d, want %d", got, want)
	}
	if got := r.Count(OpPolygon); got != 0 {
		t.Errorf("polygons = %d, want 0", got)
	}
}

func TestDrawGraphStrokes(t *testing.T) {
	g := diagram.TransportGraph()
	r := NewRecorder(Width, Height)
	if err := DrawGraph(r, g); err != nil {
		t.Fatalf("DrawGraph: %v", err)
	}

	var lines []Op
	for _, op := range r.Ops() {
		if op.Kind == OpLine {
			lines = append(lines, op)
		}
	}

	for i, e := range g.Edges {
		s := lines[i].Stroke
		if e.Highlight {
			if s.Color != Accent || s.Width != 4 {
				t.Errorf("edge %s->%s: stroke %+v, want accent/4", e.From, e.To, *s)
			}
		} else if s.Color != Muted || s.Width != 2 {
			t.Errorf("edge %s->%s: stroke %+v, want muted/2", e.From, e.To, *s)
		}
	}
}

func TestDrawGraphLabels(t *testing.T) {
	r := NewRecorder(Width, Height)
	if err := DrawGraph(r, diagram.TransportGraph()); err != nil {
		t.Fatalf("DrawGraph: %v", err)
	}

	texts := map[string]Op{}
	for _, op := range r.Ops() {
		if op.Kind == OpText {
			texts[op.Text] = op
		}
	}

	for _, want := range []string{"4 км", "2 км", "5 км", "3 км", "A", "E", "Склад А", "Клиент"} {
		if _, ok := texts[want]; !ok {
			t.Errorf("missing text %q", want)
		}
	}

	// Label sits 45px under the node centre.
	if op := texts["Склад А"]; op.Points[0] != (Point{100, 245}) {
		t.Errorf("label position = %+v, want {100 245}", op.Points[0])
	}
	// Weight of A->B is drawn near the midpoint of (100,200)-(250,100).
	if op := texts["4 км"]; op.Points[0] != (Point{160, 145}) {
		t.Errorf("weight position = %+v, want {160 145}", op.Points[0])
	}
}

func TestDrawNetwork(t *testing.T) {
	n := diagram.ProjectNetwork()
	r := NewRecorder(Width, Height)

	if err := DrawNetwork(r, n); err != nil {
		t.Fatalf("DrawNetwork: %v", err)
	}

	if got := r.Count(OpLine); got != len(n.Connections) {
		t.Errorf("lines = %d, want %d", got, len(n.Connections))
	}
	if got, want := r.Count(OpPolygon), len(n.CriticalConnections()); got != want {
		t.Errorf("arrowheads = %d, want %d", got, want)
	}
	if got := r.Count(OpCircle); got != len(n.Activities) {
		t.Errorf("circles = %d, want %d", got, len(n.Activities))
	}
	if got := r.Count(OpText); got != len(n.Activities) {
		t.Errorf("texts = %d, want %d", got, len(n.Activities))
	}

	for _, op := range r.Ops() {
		if op.Kind != OpCircle {
			continue
		}
		c := op.Points[0]
		isMilestone := c.X == 100 || c.X == 500
		if isMilestone && op.Fill != Accent {
			t.Errorf("milestone at %+v filled %s, want accent", c, op.Fill)
		}
		if !isMilestone && op.Fill != White {
			t.Errorf("activity at %+v filled %s, want white", c, op.Fill)
		}
		if op.Stroke == nil || op.Stroke.Color != Accent || op.Stroke.Width != 3 {
			t.Errorf("activity at %+v border = %+v, want accent width 3", c, op.Stroke)
		}
	}
}

func TestDrawNetworkBorderIgnoresCritical(t *testing.T) {
	n := diagram.ProjectNetwork()
	for i := range n.Activities {
		n.Activities[i].Critical = false
	}
	r := NewRecorder(Width, Height)
	if err := DrawNetwork(r, n); err != nil {
		t.Fatalf("DrawNetwork: %v", err)
	}
	for _, op := range r.Ops() {
		if op.Kind == OpCircle && (op.Stroke == nil || op.Stroke.Color != Accent) {
			t.Errorf("activity at %+v border = %+v, want accent", op.Points[0], op.Stroke)
		}
	}
}

func TestDrawNetworkLabels(t *testing.T) {
	n := diagram.ProjectNetwork()
	n.Connections[0].Label = "3д"
	r := NewRecorder(Width, Height)
	if err := DrawNetwork(r, n); err != nil {
		t.Fatalf("DrawNetwork: %v", err)
	}
	if got := r.Count(OpText); got != len(n.Activities)+1 {
		t.Errorf("texts = %d, want %d", got, len(n.Activities)+1)
	}
}

func TestArrowhead(t *testing.T) {
	// Horizontal link: the tip sits 30px left of the target centre,
	// matching the fixed offset used for the figure.
	pts := Arrowhead(Point{400, 200}, Point{500, 200}, 30)
	if pts[0] != (Point{470, 200}) {
		t.Errorf("tip = %+v, want {470 200}", pts[0])
	}
	for _, p := range pts[1:] {
		if p.X >= 470 {
			t.Errorf("barb %+v should be behind the tip", p)
		}
		if d := math.Hypot(p.X-470, p.Y-200); math.Abs(d-12) > 1e-9 {
			t.Errorf("barb length = %v, want 12", d)
		}
	}

	// Slanted link: the tip lies on the circle.
	pts = Arrowhead(Point{100, 200}, Point{250, 150}, 30)
	if d := math.Hypot(pts[0].X-250, pts[0].Y-150); math.Abs(d-30) > 1e-9 {
		t.Errorf("tip distance = %v, want 30", d)
	}
}

func TestDrawIdempotent(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			r := NewRecorder(Width, Height)
			if err := d.Draw(r); err != nil {
				t.Fatalf("first draw: %v", err)
			}
			first := r.Ops()
			if err := d.Draw(r); err != nil {
				t.Fatalf("second draw: %v", err)
			}
			if !reflect.DeepEqual(first, r.Ops()) {
				t.Error("second draw produced different operations")
			}
		})
	}
}

func TestDrawUnusableSurface(t *testing.T) {
	if err := DrawGraph(nil, diagram.TransportGraph()); err != nil {
		t.Errorf("nil surface: %v", err)
	}

	r := NewRecorder(0, 0)
	if err := DrawNetwork(r, diagram.ProjectNetwork()); err != nil {
		t.Errorf("empty surface: %v", err)
	}
	if len(r.Ops()) != 0 {
		t.Errorf("empty surface recorded %d ops", len(r.Ops()))
	}
}

func TestDrawInvalidData(t *testing.T) {
	g := diagram.TransportGraph()
	g.Edges = append(g.Edges, diagram.Edge{From: "A", To: "Z", Weight: 1})

	r := NewRecorder(Width, Height)
	err := DrawGraph(r, g)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("DrawGraph err = %v, want INVALID_INPUT", err)
	}
	if len(r.Ops()) != 0 {
		t.Error("invalid graph should draw nothing")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		d, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		if d.Caption == "" || d.Note == "" {
			t.Errorf("Lookup(%s): missing caption or note", name)
		}
	}

	if _, err := Lookup("nope"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("Lookup(nope) err = %v, want DIAGRAM_NOT_FOUND", err)
	}

	if err := (Diagram{Name: "empty"}).Draw(NewRecorder(1, 1)); err == nil {
		t.Error("Draw on empty diagram should fail")
	}
}
