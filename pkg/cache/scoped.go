package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's blobs.
//
// Example usage:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiagramKey generates a prefixed key for diagram caching.
func (k *ScopedKeyer) DiagramKey(name string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(name, opts)
}

// BlobKey generates a prefixed key for download blobs.
func (k *ScopedKeyer) BlobKey(id string) string {
	return k.prefix + k.inner.BlobKey(id)
}
