package sink

import (
	"encoding/json"

	"github.com/matzehuels/coursepaper/pkg/render"
)

type jsonOutput struct {
	Name    string      `json:"name"`
	Caption string      `json:"caption,omitempty"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Ops     []render.Op `json:"ops"`
}

// RenderJSON draws d onto a recorder and returns the recorded operations as
// pretty-printed JSON.
func RenderJSON(d render.Diagram, w, h float64) ([]byte, error) {
	rec := render.NewRecorder(w, h)
	if err := d.Draw(rec); err != nil {
		return nil, err
	}
	ops := rec.Ops()
	if ops == nil {
		ops = []render.Op{}
	}
	return json.MarshalIndent(jsonOutput{
		Name:    d.Name,
		Caption: d.Caption,
		Width:   w,
		Height:  h,
		Ops:     ops,
	}, "", "  ")
}
