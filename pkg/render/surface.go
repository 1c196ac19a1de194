package render

// Color is a CSS hex colour such as "#0EA5E9". The empty Color means "none".
type Color string

// Palette of the figures.
const (
	Accent Color = "#0EA5E9" // highlighted route, critical path, node fill
	Muted  Color = "#94A3B8" // ordinary edges
	Ink    Color = "#333333" // weights and labels
	White  Color = "#FFFFFF"
	None   Color = ""
)

// Point is a position in surface coordinates (origin top-left, y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Stroke describes an outline. A zero Width draws no outline.
type Stroke struct {
	Color Color   `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Baseline is the vertical anchor of a text run.
type Baseline int

const (
	BaselineAlphabetic Baseline = iota
	BaselineMiddle
)

// Font describes how a text run is drawn.
type Font struct {
	Size     float64  `json:"size"`
	Bold     bool     `json:"bold,omitempty"`
	Color    Color    `json:"color"`
	Align    Align    `json:"align"`
	Baseline Baseline `json:"baseline"`
}

// Surface is a fixed-size 2D drawing context.
//
// Implementations need not be safe for concurrent use; a surface is owned by
// the goroutine that draws on it.
type Surface interface {
	// Size returns the logical width and height in pixels.
	Size() (w, h float64)
	// Clear erases everything drawn so far.
	Clear()
	// Line strokes a straight segment.
	Line(from, to Point, s Stroke)
	// Circle fills (unless fill is None) and strokes a circle.
	Circle(center Point, r float64, fill Color, s Stroke)
	// Polygon fills a closed polygon.
	Polygon(pts []Point, fill Color)
	// Text draws a single line of text anchored at the given point.
	Text(text string, at Point, f Font)
}
