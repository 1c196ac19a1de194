package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/coursepaper/pkg/diagram"
)

func TestCheckCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "check"); err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"A → C → D → E (9 км)", "1 → 2 → 4 → 5", "7 д"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckTransportMismatch(t *testing.T) {
	g := diagram.TransportGraph()
	// Make A → B → D → E two km longer than the shortest route and highlight it.
	g.Edges[0].Weight = 6
	for i := range g.Edges {
		g.Edges[i].Highlight = false
	}
	g.Edges[0].Highlight = true // A → B
	g.Edges[2].Highlight = true // B → D
	g.Edges[4].Highlight = true // D → E

	var out bytes.Buffer
	ok, err := checkTransport(&out, g)
	if err != nil {
		t.Fatalf("checkTransport: %v", err)
	}
	if ok {
		t.Error("a longer highlighted route should fail the check")
	}
	if !strings.Contains(out.String(), "2 км longer") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCheckTransportBrokenRoute(t *testing.T) {
	g := diagram.TransportGraph()
	g.Edges[4].Highlight = false

	var out bytes.Buffer
	ok, err := checkTransport(&out, g)
	if err != nil || ok {
		t.Errorf("checkTransport = %v, %v; want false, nil", ok, err)
	}
}

func TestCheckProjectMismatch(t *testing.T) {
	n := diagram.ProjectNetwork()
	n.Connections[1].Critical = true // 1 → 3 has slack

	var out bytes.Buffer
	ok, err := checkProject(&out, n, diagram.ProjectDurations())
	if err != nil {
		t.Fatalf("checkProject: %v", err)
	}
	if ok {
		t.Error("an extra critical connection should fail the check")
	}
	if !strings.Contains(out.String(), "1→3") {
		t.Errorf("output = %q", out.String())
	}
}
