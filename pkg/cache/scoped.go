package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several tools or
// projects can share one backend without key collisions.
//
// Example usage:
//
//	// Keys of one project on a shared redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:billing:")
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

// ScanKey generates a prefixed key for scanned models.
func (k *ScopedKeyer) ScanKey(language, digest string) string {
	return k.prefix + k.inner.ScanKey(language, digest)
}

// AnalysisKey generates a prefixed key for analysis results.
func (k *ScopedKeyer) AnalysisKey(modelHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(modelHash, opts)
}

// RenderKey generates a prefixed key for rendered graphs.
func (k *ScopedKeyer) RenderKey(modelHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(modelHash, opts)
}
