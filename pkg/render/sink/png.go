package sink

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/fonts"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// PNG is a raster surface backed by a gg context. Coordinates are logical
// pixels; the backing image is scale times larger so the figure stays sharp
// on high-density screens.
//
// gg does not scale line widths or font sizes with its transform, so every
// length is multiplied by scale explicitly.
type PNG struct {
	dc    *gg.Context
	w, h  float64
	scale float64
	err   error
}

// NewPNG creates a PNG surface. A scale below 1 is treated as 1.
func NewPNG(w, h, scale float64) *PNG {
	if scale < 1 {
		scale = 1
	}
	dc := gg.NewContext(int(math.Round(w*scale)), int(math.Round(h*scale)))
	return &PNG{dc: dc, w: w, h: h, scale: scale}
}

func (p *PNG) Size() (float64, float64) { return p.w, p.h }

// Clear makes every pixel transparent, like clearRect on a canvas.
func (p *PNG) Clear() {
	p.dc.SetRGBA(0, 0, 0, 0)
	p.dc.Clear()
	p.dc.ClearPath()
	p.err = nil
}

func (p *PNG) Line(from, to render.Point, s render.Stroke) {
	p.dc.DrawLine(from.X*p.scale, from.Y*p.scale, to.X*p.scale, to.Y*p.scale)
	p.stroke(s)
}

func (p *PNG) Circle(c render.Point, r float64, fill render.Color, s render.Stroke) {
	p.dc.DrawCircle(c.X*p.scale, c.Y*p.scale, r*p.scale)
	if fill != render.None {
		p.dc.SetHexColor(string(fill))
		p.dc.FillPreserve()
	}
	p.stroke(s)
}

func (p *PNG) Polygon(pts []render.Point, fill render.Color) {
	if len(pts) == 0 {
		return
	}
	p.dc.MoveTo(pts[0].X*p.scale, pts[0].Y*p.scale)
	for _, pt := range pts[1:] {
		p.dc.LineTo(pt.X*p.scale, pt.Y*p.scale)
	}
	p.dc.ClosePath()
	if fill == render.None {
		p.dc.ClearPath()
		return
	}
	p.dc.SetHexColor(string(fill))
	p.dc.Fill()
}

func (p *PNG) Text(text string, at render.Point, f render.Font) {
	face, err := fonts.Face(f.Size*p.scale, f.Bold)
	if err != nil {
		p.err = err
		return
	}
	p.dc.SetFontFace(face)
	p.dc.SetHexColor(string(f.Color))

	ax, ay := 0.0, 0.0
	if f.Align == render.AlignCenter {
		ax = 0.5
	}
	if f.Baseline == render.BaselineMiddle {
		ay = 0.5
	}
	p.dc.DrawStringAnchored(text, at.X*p.scale, at.Y*p.scale, ax, ay)
}

// stroke outlines the current path, or drops it when s draws nothing.
func (p *PNG) stroke(s render.Stroke) {
	if s.Width <= 0 || s.Color == render.None {
		p.dc.ClearPath()
		return
	}
	p.dc.SetHexColor(string(s.Color))
	p.dc.SetLineWidth(s.Width * p.scale)
	p.dc.Stroke()
}

// Image returns the backing image.
func (p *PNG) Image() image.Image { return p.dc.Image() }

// Scale returns the device pixel ratio of the surface.
func (p *PNG) Scale() float64 { return p.scale }

// EncodePNG writes the image as PNG. It fails if a font could not be loaded
// while drawing.
func (p *PNG) EncodePNG(w io.Writer) error {
	if p.err != nil {
		return errors.Wrap(errors.ErrCodeRender, p.err, "draw text")
	}
	if err := p.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return nil
}

var _ render.Surface = (*PNG)(nil)
