package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/coursepaper/pkg/diagram"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/fonts"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// ToDOT converts a figure to Graphviz DOT source for the neato engine.
// Node positions are pinned ("!") to the figure coordinates, with y flipped
// because Graphviz puts the origin at the bottom-left. The transport graph is
// undirected; the project network is a digraph where only critical
// connections carry an arrowhead.
func ToDOT(d render.Diagram, height float64) (string, error) {
	switch {
	case d.Graph != nil:
		if err := d.Graph.Validate(); err != nil {
			return "", err
		}
		return graphDOT(*d.Graph, height), nil
	case d.Network != nil:
		if err := d.Network.Validate(); err != nil {
			return "", err
		}
		return networkDOT(*d.Network, height), nil
	}
	return "", errors.New(errors.ErrCodeInternal, "diagram %q has no data", d.Name)
}

func writeHeader(buf *bytes.Buffer, kind string) {
	fmt.Fprintf(buf, "%s G {\n", kind)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(buf, "  fontname=%q;\n", fonts.FontFamily)
	fmt.Fprintf(buf, "  node [shape=circle, fixedsize=true, style=filled, fontname=%q];\n", fonts.FontFamily)
	fmt.Fprintf(buf, "  edge [fontname=%q];\n", fonts.FontFamily)
	buf.WriteString("\n")
}

func graphDOT(g diagram.Graph, height float64) string {
	var buf bytes.Buffer
	writeHeader(&buf, "graph")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join([]string{
			pos(n.X, n.Y, height),
			fmt.Sprintf("width=%s", inches(2*render.NodeRadius)),
			fmt.Sprintf("label=%q", n.ID),
			fmt.Sprintf("xlabel=%q", n.Label),
			fmt.Sprintf("fillcolor=%q", render.Accent),
			fmt.Sprintf("color=%q", render.White),
			"fontcolor=\"#FFFFFF\"",
			"penwidth=3",
		}, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		s := render.EdgeStroke(e.Highlight)
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, color=%q, penwidth=%s];\n",
			e.From, e.To, render.WeightLabel(e.Weight, g.Unit), s.Color, num(s.Width))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func networkDOT(n diagram.Network, height float64) string {
	var buf bytes.Buffer
	writeHeader(&buf, "digraph")

	for _, a := range n.Activities {
		fill, text := render.White, render.Ink
		if a.Milestone {
			fill, text = render.Accent, render.White
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", a.ID, strings.Join([]string{
			pos(a.X, a.Y, height),
			fmt.Sprintf("width=%s", inches(2*render.ActivityRadius)),
			fmt.Sprintf("label=%q", a.Label),
			fmt.Sprintf("fillcolor=%q", fill),
			fmt.Sprintf("fontcolor=%q", text),
			fmt.Sprintf("color=%q", render.Accent),
			"penwidth=3",
		}, ", "))
	}

	buf.WriteString("\n")
	for _, c := range n.Connections {
		s := render.EdgeStroke(c.Critical)
		attrs := []string{
			fmt.Sprintf("color=%q", s.Color),
			fmt.Sprintf("penwidth=%s", num(s.Width)),
		}
		if !c.Critical {
			attrs = append(attrs, "arrowhead=none")
		}
		if c.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", c.Label))
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pos(x, y, height float64) string {
	return fmt.Sprintf("pos=\"%s,%s!\"", num(x), num(height-y))
}

func inches(px float64) string { return num(px / 72) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderDOTSVG lays out DOT source with neato and returns the SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output scales like the other SVG figures.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
