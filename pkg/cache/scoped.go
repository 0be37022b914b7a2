package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis or MongoDB instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey generates a prefixed key for pipeline results.
func (k *ScopedKeyer) ResultKey(textHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(textHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}

// FixKey generates a prefixed key for auto-fix suggestions.
func (k *ScopedKeyer) FixKey(textHash, errorMessage string) string {
	return k.prefix + k.inner.FixKey(textHash, errorMessage)
}
