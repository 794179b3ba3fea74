package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share
// one Redis server without reading each other's results.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:birds:")
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

// SynthesisKey generates a prefixed synthesis key.
func (k *ScopedKeyer) SynthesisKey(graphHash string, opts SynthesisKeyOpts) string {
	return k.prefix + k.inner.SynthesisKey(graphHash, opts)
}

// ArtifactKey derives the artifact key from an already prefixed synthesis key.
func (k *ScopedKeyer) ArtifactKey(synthesisKey string, opts ArtifactKeyOpts) string {
	return k.inner.ArtifactKey(synthesisKey, opts)
}

// SumKey generates a prefixed sum key.
func (k *ScopedKeyer) SumKey(inputHash string, opts SumKeyOpts) string {
	return k.prefix + k.inner.SumKey(inputHash, opts)
}
