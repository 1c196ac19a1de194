package cache

import "fmt"

// Keyer generates cache keys for the values coursepaper stores.
type Keyer interface {
	// DiagramKey generates a key for a rendered diagram artifact.
	DiagramKey(name string, opts DiagramKeyOpts) string
	// BlobKey generates a key for a registered download blob.
	BlobKey(id string) string
}

// DiagramKeyOpts are the render options that change a diagram's bytes.
type DiagramKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Version string  `json:"version"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey returns "diagram:<name>:<hash(opts)>".
func (DefaultKeyer) DiagramKey(name string, opts DiagramKeyOpts) string {
	return hashKey(fmt.Sprintf("diagram:%s", name), opts)
}

// BlobKey returns "blob:<id>".
func (DefaultKeyer) BlobKey(id string) string {
	return "blob:" + id
}
