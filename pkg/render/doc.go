// Package render draws the paper's two figures onto a drawing surface.
//
// # Overview
//
// A [Surface] is a minimal 2D drawing context: lines, circles, polygons and
// text on a fixed-size area. [DrawGraph] and [DrawNetwork] paint a
// [diagram.Graph] or [diagram.Network] onto any surface in a single pass:
// clear, edges, then nodes. Because every draw starts with Clear, drawing
// twice onto the same surface produces the same picture.
//
// Backends live in the [sink] subpackage:
//
//   - sink.SVG: vector markup
//   - sink.PNG: raster image (fogleman/gg)
//   - sink.DOT: Graphviz source with pinned positions
//   - [Recorder]: the list of drawing operations, used by tests and JSON output
//
// # Diagrams
//
// [Lookup] resolves the registered figures by name:
//
//	d, err := render.Lookup("transport")
//	svg := sink.NewSVG(render.Width, render.Height)
//	err = d.Draw(svg)
//
// [sink]: github.com/matzehuels/coursepaper/pkg/render/sink
package render
