package render

import "math"

// Fixed surface dimensions of both figures.
const (
	Width  = 600
	Height = 400
)

// Transport graph geometry.
const (
	NodeRadius      = 25.0
	nodeBorder      = 3.0
	nodeLabelOffset = 45.0
	weightOffsetX   = -15.0
	weightOffsetY   = -5.0
)

// Project network geometry.
const (
	ActivityRadius = 30.0
	activityBorder = 3.0
	arrowSize      = 12.0
	arrowSpread    = math.Pi / 6
	linkLabelLift  = -8.0
)

// Edge strokes.
var (
	highlightStroke = Stroke{Color: Accent, Width: 4}
	plainStroke     = Stroke{Color: Muted, Width: 2}
)

// Text styles.
var (
	weightFont   = Font{Size: 14, Bold: true, Color: Ink, Align: AlignLeft, Baseline: BaselineAlphabetic}
	nodeIDFont   = Font{Size: 16, Bold: true, Color: White, Align: AlignCenter, Baseline: BaselineMiddle}
	labelFont    = Font{Size: 13, Color: Ink, Align: AlignCenter, Baseline: BaselineMiddle}
	activityFont = Font{Size: 14, Bold: true, Align: AlignCenter, Baseline: BaselineMiddle}
	linkFont     = Font{Size: 12, Color: Ink, Align: AlignCenter, Baseline: BaselineAlphabetic}
)

// EdgeStroke returns the stroke used for an edge or connection.
func EdgeStroke(highlight bool) Stroke {
	if highlight {
		return highlightStroke
	}
	return plainStroke
}
