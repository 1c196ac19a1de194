package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/coursepaper/pkg/fonts"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// SVG is a vector surface. Drawing calls append elements to an internal
// buffer; Bytes wraps them in a complete document.
type SVG struct {
	w, h float64
	body bytes.Buffer
}

// NewSVG creates an SVG surface of the given logical size.
func NewSVG(w, h float64) *SVG {
	return &SVG{w: w, h: h}
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) Line(from, to render.Point, st render.Stroke) {
	fmt.Fprintf(&s.body, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		from.X, from.Y, to.X, to.Y, st.Color, st.Width)
}

func (s *SVG) Circle(c render.Point, r float64, fill render.Color, st render.Stroke) {
	fmt.Fprintf(&s.body, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>`+"\n",
		c.X, c.Y, r, paint(fill), strokeAttrs(st))
}

func (s *SVG) Polygon(pts []render.Point, fill render.Color) {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, `  <polygon points="%s" fill="%s"/>`+"\n", b.String(), paint(fill))
}

func (s *SVG) Text(text string, at render.Point, f render.Font) {
	anchor := "start"
	if f.Align == render.AlignCenter {
		anchor = "middle"
	}
	baseline := "alphabetic"
	if f.Baseline == render.BaselineMiddle {
		baseline = "central"
	}
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s" text-anchor="%s" dominant-baseline="%s">%s</text>`+"\n",
		at.X, at.Y, html.EscapeString(fonts.FontFamily), f.Size, weight, paint(f.Color), anchor, baseline, html.EscapeString(text))
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.w, s.h, s.w, s.h)
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func paint(c render.Color) string {
	if c == render.None {
		return "none"
	}
	return string(c)
}

func strokeAttrs(st render.Stroke) string {
	if st.Width <= 0 || st.Color == render.None {
		return ""
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="%.2f"`, st.Color, st.Width)
}

var _ render.Surface = (*SVG)(nil)
