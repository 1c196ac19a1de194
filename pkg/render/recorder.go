package render

import "slices"

// OpKind names a recorded drawing operation.
type OpKind string

const (
	OpLine    OpKind = "line"
	OpCircle  OpKind = "circle"
	OpPolygon OpKind = "polygon"
	OpText    OpKind = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind  `json:"kind"`
	Points []Point `json:"points,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Fill   Color   `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
	Text   string  `json:"text,omitempty"`
	Font   *Font   `json:"font,omitempty"`
}

// Recorder is a Surface that records drawing calls instead of producing
// pixels. Clear discards everything recorded so far.
type Recorder struct {
	W, H float64
	ops  []Op
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) Clear() { r.ops = r.ops[:0] }

func (r *Recorder) Line(from, to Point, s Stroke) {
	r.ops = append(r.ops, Op{Kind: OpLine, Points: []Point{from, to}, Stroke: &s})
}

func (r *Recorder) Circle(c Point, radius float64, fill Color, s Stroke) {
	r.ops = append(r.ops, Op{Kind: OpCircle, Points: []Point{c}, Radius: radius, Fill: fill, Stroke: &s})
}

func (r *Recorder) Polygon(pts []Point, fill Color) {
	r.ops = append(r.ops, Op{Kind: OpPolygon, Points: slices.Clone(pts), Fill: fill})
}

func (r *Recorder) Text(text string, at Point, f Font) {
	r.ops = append(r.ops, Op{Kind: OpText, Points: []Point{at}, Text: text, Font: &f})
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	return slices.Clone(r.ops)
}

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

var _ Surface = (*Recorder)(nil)
