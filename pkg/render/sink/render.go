package sink

import (
	"bytes"
	"context"
	"strings"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// Format is an output format for a figure.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Formats lists the supported formats in preference order.
var Formats = []Format{FormatPNG, FormatSVG, FormatDOT, FormatJSON}

// ParseFormat parses a format name. "graphviz" is accepted for dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatDOT, FormatJSON:
		return f, nil
	case "graphviz", "gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, png, dot or json)", s)
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Options configures [Render].
type Options struct {
	Width  float64
	Height float64
	// Scale is the PNG device pixel ratio.
	Scale float64
	// Layout lays DOT output out as SVG instead of returning the source.
	Layout bool
}

// DefaultOptions returns the figure size at scale 1.
func DefaultOptions() Options {
	return Options{Width: render.Width, Height: render.Height, Scale: 1}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = render.Width
	}
	if o.Height <= 0 {
		o.Height = render.Height
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

// Render looks up the named figure and encodes it in format f.
func Render(ctx context.Context, name string, f Format, opts Options) ([]byte, error) {
	d, err := render.Lookup(name)
	if err != nil {
		return nil, err
	}
	return RenderDiagram(ctx, d, f, opts)
}

// RenderDiagram encodes d in format f.
func RenderDiagram(ctx context.Context, d render.Diagram, f Format, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	switch f {
	case FormatSVG:
		s := NewSVG(opts.Width, opts.Height)
		if err := d.Draw(s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil

	case FormatPNG:
		p := NewPNG(opts.Width, opts.Height, opts.Scale)
		if err := d.Draw(p); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := p.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatDOT:
		dot, err := ToDOT(d, opts.Height)
		if err != nil {
			return nil, err
		}
		if opts.Layout {
			return RenderDOTSVG(ctx, dot)
		}
		return []byte(dot), nil

	case FormatJSON:
		return RenderJSON(d, opts.Width, opts.Height)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}
