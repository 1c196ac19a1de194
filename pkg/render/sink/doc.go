// Package sink turns the paper's figures into files.
//
// Every backend except DOT is a [render.Surface]: the figure is drawn onto it
// by [render.Diagram.Draw] and the surface is then encoded.
//
//   - [SVG] writes vector primitives into an <svg> document.
//   - [PNG] rasterises with github.com/fogleman/gg using the embedded Go fonts.
//   - [RenderJSON] dumps the operations captured by a [render.Recorder].
//   - [ToDOT] describes the figure as Graphviz source with pinned node
//     positions, and [RenderDOTSVG] lays it out in-process with neato.
//
// [Render] dispatches on a [Format]. The CLI and server call it through
// [Cached], which keeps encoded figures in a [cache.Cache].
package sink
